// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media manages uploaded post images on local disk.

Stored files are named "{unixMillis}-{random}-{sanitized original name}" and
are addressed by the public path "images/<name>", which is also the URL path
they are served under. Deletion is fire-and-forget: it runs in the background,
failures are logged and never reach the caller.
*/
package media

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/quill/pkg/slug"
)

// PublicPrefix is the first segment of every stored image path.
const PublicPrefix = "images"

// acceptedTypes lists the MIME types stored; anything else is ignored.
var acceptedTypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
}

// ErrOutsideAssetDir is logged when a delete targets a path outside the store.
var ErrOutsideAssetDir = errors.New("media: path outside asset directory")

// Store writes and removes image assets under a single directory.
type Store struct {
	dir      string
	maxBytes int64
	logger   *slog.Logger

	now     func() time.Time
	pending sync.WaitGroup
}

// NewStore creates the asset directory if needed.
func NewStore(dir string, maxBytes int64, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create asset dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes, logger: logger, now: time.Now}, nil
}

// Dir returns the directory holding the stored files.
func (store *Store) Dir() string {
	return store.dir
}

// Accepts reports whether contentType is a storable image type.
func Accepts(contentType string) bool {
	return acceptedTypes[strings.ToLower(strings.TrimSpace(contentType))]
}

/*
Save stores an uploaded file.

Returns:
  - string: the public path ("images/<name>"), or "" when the MIME type is not accepted
  - error: disk failures only
*/
func (store *Store) Save(header *multipart.FileHeader) (string, error) {
	if !Accepts(header.Header.Get("Content-Type")) {
		return "", nil
	}

	source, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("media: open upload: %w", err)
	}
	defer source.Close()

	name := store.uniqueName(header.Filename)
	target := filepath.Join(store.dir, name)

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("media: create file: %w", err)
	}

	if _, err := io.Copy(file, source); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("media: write file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("media: close file: %w", err)
	}

	return path.Join(PublicPrefix, name), nil
}

/*
SaveFormFile stores the file sent in the multipart field of a request.

Description: Non-multipart requests and requests without the field return
"" with no error, as do files of a rejected MIME type.
*/
func (store *Store) SaveFormFile(request *http.Request, field string) (string, error) {
	if request.MultipartForm == nil {
		if err := request.ParseMultipartForm(store.maxBytes); err != nil {
			if errors.Is(err, http.ErrNotMultipart) {
				return "", nil
			}
			return "", fmt.Errorf("media: parse multipart: %w", err)
		}
	}

	files := request.MultipartForm.File[field]
	if len(files) == 0 {
		return "", nil
	}

	return store.Save(files[0])
}

// uniqueName builds "{unixMillis}-{random}-{sanitized original}".
func (store *Store) uniqueName(original string) string {
	return fmt.Sprintf("%d-%d-%s", store.now().UnixMilli(), rand.IntN(1e9), slug.Filename(original))
}

// resolve maps a public path back to a file inside the asset directory.
func (store *Store) resolve(publicPath string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(publicPath, `\`, "/"))
	name, ok := strings.CutPrefix(cleaned, "/"+PublicPrefix+"/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", ErrOutsideAssetDir
	}
	return filepath.Join(store.dir, name), nil
}

// Delete removes the asset in the background. Empty paths are ignored.
func (store *Store) Delete(publicPath string) {
	if strings.TrimSpace(publicPath) == "" {
		return
	}

	store.pending.Add(1)
	go func() {
		defer store.pending.Done()

		target, err := store.resolve(publicPath)
		if err == nil {
			err = os.Remove(target)
		}

		if err != nil {
			store.logger.Warn("asset_delete_failed",
				slog.String("path", publicPath),
				slog.Any("error", err),
			)
			return
		}

		store.logger.Debug("asset_deleted", slog.String("path", publicPath))
	}()
}

// Wait blocks until every scheduled delete has finished.
func (store *Store) Wait() {
	store.pending.Wait()
}
