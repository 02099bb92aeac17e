//
// BLOG
// ====
// The article pages of a small blog: a searchable, paginated list, detail
// pages rendered from markdown, and create/update/delete for authors.
//
// Also check the -routes flag for the generated route docs,
// to run yourself do: `go run . -routes`
//
// Boot the server:
// ----------------
// $ go run . -jwt_secret s3cret -seed
//
// Mint a token for a fixture user:
// --------------------------------
// $ go run . -jwt_secret s3cret -token_for 100
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/ping
// pong
//
// $ curl 'http://localhost:3333/api/articles/?order=total_views&page=2'
// {"articles":[...],"page":2,"numPages":2,"count":5,"order":"total_views"}
//
// $ curl http://localhost:3333/api/articles/1
// {"id":1,"title":"Hi","body":"<h1 id=\"hi\">Hi</h1>\n<p>First post.</p>\n",...}
//
// $ curl -X POST -H "Authorization: Bearer $TOKEN" \
//     -d title=T1 -d body=B1 -d column=none http://localhost:3333/article/article-create/
//
// $ curl -X POST -H "Authorization: Bearer $TOKEN" http://localhost:3333/article/article-safe-delete/1/
//
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/SergeyParamoshkin/blog/internal/article"
	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/markdown"
	"github.com/SergeyParamoshkin/blog/internal/media"
	"github.com/SergeyParamoshkin/blog/internal/store"
	"github.com/SergeyParamoshkin/blog/internal/telemetry"
	"github.com/SergeyParamoshkin/blog/internal/user"
	"github.com/SergeyParamoshkin/blog/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.opentelemetry.io/otel/metric/global"
	"go.uber.org/zap"
)

const ServiceName = "blog"

type App struct {
	sugarLogger *zap.SugaredLogger
	config      Config
}

// nolint
func main() {
	config, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	if config.Debug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	a := App{
		sugarLogger: sugar,
		config:      config,
	}

	if err := a.run(context.Background()); err != nil {
		a.sugarLogger.Fatalw("blog stopped", "error", err)
	}
}

func (a *App) run(ctx context.Context) error {
	sqldb, err := sql.Open(store.DriverName, a.config.DB)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := store.CreateSchema(ctx, db); err != nil {
		return err
	}

	users := user.NewStore(db)
	articles := store.NewArticleStore(db)
	provider := identity.NewProvider(a.config.JWTSecret, users, a.config.LoginURL, a.sugarLogger)

	if a.config.Seed {
		if err := users.Seed(ctx); err != nil {
			return err
		}
		if err := store.Seed(ctx, articles); err != nil {
			return err
		}
		a.sugarLogger.Infow("fixtures seeded")
	}

	if a.config.TokenFor != 0 {
		if _, err := users.Get(ctx, a.config.TokenFor); err != nil {
			return err
		}
		token, err := provider.Token(a.config.TokenFor, identity.DefaultTokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)

		return nil
	}

	renderer, err := a.contentRenderer(ctx)
	if err != nil {
		return err
	}

	storage, err := a.mediaStorage(ctx)
	if err != nil {
		return err
	}

	exporter, err := telemetry.NewExporter()
	if err != nil {
		return fmt.Errorf("failed to initialize prometheus exporter: %w", err)
	}
	metrics := telemetry.New(global.Meter(ServiceName))

	pages, err := view.New()
	if err != nil {
		return err
	}

	svc := article.NewService(articles, store.NewCommentStore(db), renderer,
		article.WithMedia(storage),
		article.WithViewRecorder(metrics),
		article.WithPerPage(a.config.PerPage),
		article.WithLogger(a.sugarLogger),
	)
	handler := article.NewHandler(svc, provider, pages)

	highlightCSS, err := markdown.StyleCSS(a.config.HighlightStyle)
	if err != nil {
		return err
	}

	r := chi.NewRouter()

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	r.Use(middleware.RequestID)
	r.Use(a.Logger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(provider.Middleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/article/article-list/", http.StatusFound)
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("pong"))
		if err != nil {
			identity.FromContext(r.Context()).Logger.Errorw(err.Error())
		}
	})

	r.Get("/static/highlight.css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = w.Write([]byte(highlightCSS))
	})

	r.Route("/article", func(r chi.Router) {
		r.Use(identity.CSRF(a.config.csrfAuthKey(), a.config.CSRFSecure))
		r.Mount("/", handler.Routes())
	})
	r.Mount("/api/articles", handler.APIRoutes())

	if a.config.S3Bucket == "" {
		FileServer(r, "/media", http.Dir(a.config.MediaDir))
	}

	// Passing -routes to the program will generate docs for the above
	// router definition.
	if a.config.Routes {
		// nolint
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/blog",
			Intro:       "Routes of the blog article service.",
		}))

		return nil
	}

	go func() {
		a.sugarLogger.Infow("serving", "addr", a.config.Addr)
		if err := http.ListenAndServe(a.config.Addr, r); err != nil {
			a.sugarLogger.Errorw(err.Error())
		}
	}()

	return http.ListenAndServe(a.config.DiagAddr, diagRouter)
}

func (a *App) contentRenderer(ctx context.Context) (article.ContentRenderer, error) {
	renderer := markdown.NewRenderer(
		markdown.WithStyle(a.config.HighlightStyle),
		markdown.WithSafeMode(a.config.MarkdownSafe),
	)
	if a.config.RedisAddr == "" {
		return renderer, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: a.config.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", a.config.RedisAddr, err)
	}

	return markdown.NewCachedRenderer(renderer, rdb, markdown.DefaultCacheTTL, a.sugarLogger), nil
}

func (a *App) mediaStorage(ctx context.Context) (media.Storage, error) {
	if a.config.S3Bucket == "" {
		return media.NewDiskStorage(a.config.MediaDir), nil
	}

	return media.NewS3Storage(ctx, media.S3Config{
		Bucket:       a.config.S3Bucket,
		Region:       a.config.S3Region,
		Endpoint:     a.config.S3Endpoint,
		UsePathStyle: a.config.S3PathStyle,
	})
}

func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

// Logger hands handlers a logger tagged with the request id.
func (a *App) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := a.sugarLogger.With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(identity.WithLogger(r.Context(), l)))
	})
}
