package comic

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dirResolver string

func (d dirResolver) Abs(rel string) (string, error) { return filepath.Join(string(d), rel), nil }

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestImageType(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))

	assert.Equal(t, "PNG", ImageType(buf.Bytes()))
	assert.Equal(t, "JPG", ImageType([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F'}))
	assert.Equal(t, "GIF", ImageType([]byte("GIF89a....")))
	assert.Equal(t, "", ImageType([]byte("RIFF\x00\x00\x00\x00WEBPVP8 ")))
	assert.Equal(t, "", ImageType([]byte("plain text")))
}

func TestRender_ProducesPDF(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "plots/plot_1.png"))
	writePNG(t, filepath.Join(dir, "responses/user_1.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "responses/ai_1.png"), []byte("not an image"), 0o644))

	in := testInput(shortTurns(3))
	in.CharacterName = "Zoë"
	doc := Layout(in, allExist)

	var out bytes.Buffer
	require.NoError(t, NewRenderer(dirResolver(dir), zap.NewNop()).Render(doc, &out))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.Contains(out.Bytes(), []byte("%%EOF")))
}

func TestRender_EmptyDocumentHasOnePage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewRenderer(dirResolver(t.TempDir()), zap.NewNop()).Render(Document{}, &out))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
}
