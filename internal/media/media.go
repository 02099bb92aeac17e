// Package media stores uploaded article avatars.
package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Storage saves an upload and returns the key it was stored under.
type Storage interface {
	Save(ctx context.Context, name string, contentType string, body io.Reader) (string, error)
}

// avatarKey places uploads under a dated directory with a random prefix,
// e.g. article/20240502/3f9a..._cover.png.
func avatarKey(now time.Time, name string) (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("random key: %w", err)
	}

	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}

	return path.Join("article", now.Format("20060102"), hex.EncodeToString(b[:])+"_"+base), nil
}
