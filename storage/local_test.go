package storage_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"billing-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pdfData = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
)

func TestLocal_SavePdfUnderModule(t *testing.T) {
	root := t.TempDir()
	l, err := storage.NewLocal(root)
	require.NoError(t, err)

	p, err := l.Save("performa", "offer.PDF", bytes.NewReader(pdfData))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/pdfs/performa/pdfFile-"), p)
	assert.True(t, strings.HasSuffix(p, ".pdf"), p)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(p, "/"))))
	require.NoError(t, err)
	assert.Equal(t, pdfData, data)
}

func TestLocal_UnknownModuleGoesToOthers(t *testing.T) {
	l, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	p, err := l.Save("", "x.pdf", bytes.NewReader(pdfData))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/pdfs/others/"), p)
}

func TestLocal_SaveImage(t *testing.T) {
	l, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	p, err := l.Save("performa", "logo", bytes.NewReader(pngData))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/images/image-"), p)
	assert.True(t, strings.HasSuffix(p, ".png"), p)
}

func TestLocal_RejectsOtherTypes(t *testing.T) {
	l, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = l.Save("performa", "notes.txt", strings.NewReader("just some text"))
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)
}

func TestLocal_Remove(t *testing.T) {
	root := t.TempDir()
	l, err := storage.NewLocal(root)
	require.NoError(t, err)

	p, err := l.Save("quotation", "q.pdf", bytes.NewReader(pdfData))
	require.NoError(t, err)
	require.NoError(t, l.Remove(p))

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(p, "/"))))
	assert.True(t, os.IsNotExist(err))

	// already gone, and paths outside the upload dirs, are ignored
	assert.NoError(t, l.Remove(p))
	assert.NoError(t, l.Remove("/../../etc/passwd"))
}
