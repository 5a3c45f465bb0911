// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"media-editor/internal/validation"
)

var ErrNotFound = errors.New("no such file in the workspace")

// Storage is the course workspace. Paths are slash separated and relative
// to the workspace root; a path may name a single file or a folder.
//
// The service depends on this interface only. main.go picks the
// implementation from STORAGE_TYPE.
type Storage interface {
	// Upload stores file in folder and returns its workspace path.
	Upload(ctx context.Context, file io.Reader, folder, filename, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	// URL is where a browser can fetch the file at a workspace path.
	URL(path string) string
}

// ── Local Storage ─────────────────────────────────────────────────────────────

type LocalStorage struct {
	UploadDir string
	BaseURL   string // e.g. "http://localhost:8083"
}

func NewLocalStorage(uploadDir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{UploadDir: uploadDir, BaseURL: baseURL}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, file io.Reader, folder, filename, contentType string) (string, error) {
	key, err := uploadKey(folder, filename)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.UploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return key, nil
}

func (s *LocalStorage) URL(p string) string {
	return s.BaseURL + "/uploads/" + escapeKey(cleanKey(p))
}

// Delete removes a file, or a folder with everything under it.
func (s *LocalStorage) Delete(ctx context.Context, p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if _, err := os.Stat(full); errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return os.RemoveAll(full)
}

func (s *LocalStorage) Exists(ctx context.Context, p string) (bool, error) {
	full, err := s.resolve(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (s *LocalStorage) resolve(p string) (string, error) {
	key, err := workspaceKey(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.UploadDir, filepath.FromSlash(key)), nil
}

// workspaceKey validates p and returns its key. The workspace root itself
// is never a valid key.
func workspaceKey(p string) (string, error) {
	if err := validation.ValidateWorkspacePath(p); err != nil {
		return "", err
	}
	key := cleanKey(p)
	if key == "" || key == "." {
		return "", validation.ErrPathOutsideRoot
	}
	return key, nil
}

// uploadKey names an upload inside folder. The original base name is kept
// for readability, with a random suffix so uploads never collide.
func uploadKey(folder, filename string) (string, error) {
	dir, err := workspaceKey(folder)
	if err != nil {
		return "", err
	}

	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	stem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ' ':
			return r
		}
		return -1
	}, strings.TrimSuffix(base, path.Ext(base)))
	stem = strings.TrimSpace(stem)
	if stem == "" {
		stem = "upload"
	}
	return dir + "/" + stem + "-" + uuid.New().String()[:8] + ext, nil
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// cleanKey normalizes a workspace path to a slash separated key with no
// leading or trailing separators.
func cleanKey(p string) string {
	return strings.Trim(path.Clean(strings.ReplaceAll(p, "\\", "/")), "/")
}
