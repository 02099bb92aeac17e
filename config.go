package main

import (
	"crypto/sha256"
	"errors"
	"flag"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/paginator"
	"github.com/joho/godotenv"
)

type Config struct {
	Routes   bool
	Seed     bool
	Debug    bool
	TokenFor int64

	Addr     string
	DiagAddr string
	DB       string

	JWTSecret  string
	LoginURL   string
	CSRFKey    string
	CSRFSecure bool

	MediaDir       string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3PathStyle    bool
	RedisAddr      string
	PerPage        int
	HighlightStyle string
	MarkdownSafe   bool
}

// loadConfig reads .env (when present), then flags whose defaults come
// from BLOG_* environment variables.
func loadConfig(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	var c Config
	fl := flag.NewFlagSet(ServiceName, flag.ContinueOnError)

	fl.BoolVar(&c.Routes, "routes", getEnvBool("ROUTES", false), "Generate router documentation")
	fl.BoolVar(&c.Seed, "seed", getEnvBool("SEED", false), "insert fixture users, columns and articles")
	fl.BoolVar(&c.Debug, "debug", getEnvBool("DEBUG", false), "development logging")
	fl.Int64Var(&c.TokenFor, "token_for", 0, "print a signed token for this user id and exit")

	fl.StringVar(&c.Addr, "addr", getEnv("ADDR", ":3333"), "application port")
	fl.StringVar(&c.DiagAddr, "diag_addr", getEnv("DIAG_ADDR", ":9999"), "diag port")
	fl.StringVar(&c.DB, "db", getEnv("DB", "file:blog.db?_foreign_keys=on"), "sqlite data source")

	fl.StringVar(&c.JWTSecret, "jwt_secret", getEnv("JWT_SECRET", ""), "HMAC secret for session tokens")
	fl.StringVar(&c.LoginURL, "login_url", getEnv("LOGIN_URL", identity.DefaultLoginURL), "where anonymous users are sent")
	fl.StringVar(&c.CSRFKey, "csrf_key", getEnv("CSRF_KEY", ""), "secret for form tokens (derived from jwt_secret when empty)")
	fl.BoolVar(&c.CSRFSecure, "csrf_secure", getEnvBool("CSRF_SECURE", false), "site is served over HTTPS")

	fl.StringVar(&c.MediaDir, "media_dir", getEnv("MEDIA_DIR", "media"), "directory for uploaded avatars")
	fl.StringVar(&c.S3Bucket, "s3_bucket", getEnv("S3_BUCKET", ""), "store avatars in this S3 bucket instead of media_dir")
	fl.StringVar(&c.S3Region, "s3_region", getEnv("S3_REGION", ""), "S3 region")
	fl.StringVar(&c.S3Endpoint, "s3_endpoint", getEnv("S3_ENDPOINT", ""), "S3-compatible endpoint URL")
	fl.BoolVar(&c.S3PathStyle, "s3_path_style", getEnvBool("S3_PATH_STYLE", false), "use path-style S3 addressing")
	fl.StringVar(&c.RedisAddr, "redis_addr", getEnv("REDIS_ADDR", ""), "cache rendered articles in this redis")
	fl.IntVar(&c.PerPage, "page_size", getEnvInt("PAGE_SIZE", paginator.DefaultPerPage), "articles per list page")
	fl.StringVar(&c.HighlightStyle, "highlight_style", getEnv("HIGHLIGHT_STYLE", "github"), "chroma style for code blocks")
	fl.BoolVar(&c.MarkdownSafe, "markdown_safe", getEnvBool("MARKDOWN_SAFE", false), "drop raw HTML from article bodies")

	if err := fl.Parse(args); err != nil {
		return Config{}, err
	}
	if c.JWTSecret == "" && !c.Routes {
		return Config{}, errors.New("jwt_secret is required")
	}

	return c, nil
}

// csrfAuthKey is the 32-byte key the form token cookie is signed with.
func (c Config) csrfAuthKey() []byte {
	secret := c.CSRFKey
	if secret == "" {
		secret = "csrf:" + c.JWTSecret
	}
	sum := sha256.Sum256([]byte(secret))

	return sum[:]
}

func envKey(key string) string {
	return strings.ToUpper(ServiceName) + "_" + key
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(envKey(key)); ok {
		return v
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}

	return def
}

func getEnvInt(key string, def int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}

	return def
}
