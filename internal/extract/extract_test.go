package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("uno dos\ntres  cuatro\n"), 0o644))

	doc, err := File(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "uno dos\ntres  cuatro\n", doc.Text)
	assert.Equal(t, 4, doc.Words())
	assert.Equal(t, path, doc.Path)
}

func TestFile_MarkdownCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.MD")
	require.NoError(t, os.WriteFile(path, []byte("# title"), 0o644))
	doc, err := File(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Words())
}

func TestFile_Unsupported(t *testing.T) {
	_, err := File(context.Background(), "slides.pptx")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestFile_Missing(t *testing.T) {
	_, err := File(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_InvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0o644))
	_, err := File(context.Background(), path)
	assert.Error(t, err)
}
