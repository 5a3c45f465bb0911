package validation

import (
	"errors"
	"mime/multipart"
	"path"
	"strings"

	"media-editor/internal/models"
)

const (
	MaxFileSize = 500 * 1024 * 1024 // 500MB
)

var (
	ErrFileTooLarge    = errors.New("file too large - maximum 500MB allowed")
	ErrInvalidFileType = errors.New("invalid file type for this media")
	ErrFilenameTooLong = errors.New("filename too long - maximum 255 characters")
	ErrEmptyFile       = errors.New("file is empty")
	ErrPathOutsideRoot = errors.New("path escapes the workspace")
	ErrNoFilesToDelete = errors.New("no files to delete")
)

// Extensions a file-backed media kind accepts. The webpage entry covers
// local web pages.
var AllowedExtensions = map[models.Kind][]string{
	models.KindImage:   {".png", ".jpg", ".jpeg", ".gif", ".bmp", ".svg"},
	models.KindPDF:     {".pdf"},
	models.KindVideo:   {".mp4", ".webm", ".ogg", ".ogv", ".mov", ".m4v"},
	models.KindWebpage: {".html", ".htm", ".xhtml"},
}

// AllowedFile reports whether name has an extension accepted for kind.
func AllowedFile(kind models.Kind, name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, allowed := range AllowedExtensions[kind] {
		if ext == allowed {
			return true
		}
	}
	return false
}

func ValidateUpload(kind models.Kind, fileHeader *multipart.FileHeader) error {

	if fileHeader.Size == 0 {
		return ErrEmptyFile
	}

	if fileHeader.Size > MaxFileSize {
		return ErrFileTooLarge
	}

	if len(fileHeader.Filename) > 255 {
		return ErrFilenameTooLong
	}

	if !AllowedFile(kind, fileHeader.Filename) {
		return ErrInvalidFileType
	}

	return nil
}

// ValidateWorkspacePath rejects paths that are absolute, climb out of the
// workspace root or name the root itself.
func ValidateWorkspacePath(p string) error {
	if strings.TrimSpace(p) == "" || strings.HasPrefix(p, "/") || strings.HasPrefix(p, "\\") {
		return ErrPathOutsideRoot
	}
	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return ErrPathOutsideRoot
	}
	return nil
}

func ValidateDeletePaths(paths []string) error {
	if len(paths) == 0 {
		return ErrNoFilesToDelete
	}
	for _, p := range paths {
		if err := ValidateWorkspacePath(p); err != nil {
			return err
		}
	}
	return nil
}
