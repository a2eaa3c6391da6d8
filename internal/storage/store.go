package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bmjaya/printworks/internal/config"
)

// Store persists uploaded images on the local filesystem. Removals are
// fire-and-forget: a failed unlink never fails the calling operation.
type Store interface {
	Save(file *multipart.FileHeader) (string, error)
	Remove(name string)
}

// Validation errors surfaced to callers before anything touches disk.
var (
	ErrNotAnImage = errors.New("only image files are allowed")
	ErrTooLarge   = errors.New("file exceeds the maximum upload size")
	ErrBadName    = errors.New("invalid file name")
)

// Module provides the upload store to the Fx graph.
var Module = fx.Provide(NewStore)

type localStore struct {
	dir     string
	maxSize int64
	logger  *zap.Logger
}

// NewStore initialises the upload directory and returns a local store.
func NewStore(cfg config.Config, logger *zap.Logger) (Store, error) {
	dir := cfg.Upload.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localStore{
		dir:     dir,
		maxSize: cfg.Upload.MaxSize,
		logger:  logger,
	}, nil
}

// Save validates and writes an uploaded file, returning the generated name.
// Names are never derived from client input beyond the extension.
func (s *localStore) Save(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", ErrBadName
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", ErrNotAnImage
	}
	if file.Size > s.maxSize {
		return "", ErrTooLarge
	}

	name := generateName(file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, s.maxSize)); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return name, nil
}

// Remove unlinks a stored file. Failures and traversal attempts are logged
// and swallowed.
func (s *localStore) Remove(name string) {
	if name == "" {
		return
	}
	if !safeName(name) {
		s.logger.Warn("refusing to remove unsafe file name", zap.String("name", name))
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove stored file", zap.String("name", name), zap.Error(err))
	}
}

// generateName builds a collision-resistant name: millisecond timestamp plus
// a random suffix, preserving the original extension.
func generateName(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1e9), ext)
}

// safeName rejects anything that could escape the upload directory.
func safeName(name string) bool {
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}
