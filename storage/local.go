// Package storage keeps uploaded attachments on the local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"billing-backend/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrUnsupportedType rejects anything that is neither an image nor a PDF.
var ErrUnsupportedType = errors.New("only image and PDF files are allowed")

const (
	imagesDir = "images"
	pdfsDir   = "pdfs"
	otherDir  = "others"
)

// Local stores images under <root>/images and PDFs under
// <root>/pdfs/<module>. Saved files are served at /images and /pdfs.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	for _, dir := range []string{imagesDir, pdfsDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &Local{root: root}, nil
}

func (l *Local) ImagesDir() string { return filepath.Join(l.root, imagesDir) }
func (l *Local) PdfsDir() string   { return filepath.Join(l.root, pdfsDir) }

// SaveUpload stores a multipart file attached to module documents.
func (l *Local) SaveUpload(module string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return l.Save(module, fh.Filename, f)
}

// Save sniffs the content type of r and writes it to the matching
// directory. It returns the public path, e.g. "/pdfs/performa/pdfFile-<uuid>.pdf".
func (l *Local) Save(module, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	mtype := mimetype.Detect(data)

	var rel string
	switch {
	case strings.HasPrefix(mtype.String(), "image/"):
		rel = imagesDir
	case mtype.Is("application/pdf"):
		if !models.IsModule(module) {
			module = otherDir
		}
		rel = path.Join(pdfsDir, module)
	default:
		return "", ErrUnsupportedType
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = mtype.Extension()
	}
	name := "pdfFile-" + uuid.NewString() + ext
	if rel == imagesDir {
		name = "image-" + uuid.NewString() + ext
	}

	dir := filepath.Join(l.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/" + path.Join(rel, name), nil
}

// Remove deletes a file previously returned by Save. Unknown paths are ignored.
func (l *Local) Remove(publicPath string) error {
	rel := path.Clean("/" + publicPath)
	if !strings.HasPrefix(rel, "/"+imagesDir+"/") && !strings.HasPrefix(rel, "/"+pdfsDir+"/") {
		return nil
	}
	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(strings.TrimPrefix(rel, "/"))))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
