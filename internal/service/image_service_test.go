package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkwell/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestImageService(t *testing.T) *ImageService {
	t.Helper()
	return NewImageService(&config.Config{
		ImageUploadDir: t.TempDir(),
		ImageMaxSizeMB: 1,
	})
}

func TestImageService_Upload(t *testing.T) {
	svc := newTestImageService(t)
	content := encodeTestPNG(t, 64, 64)

	url, err := svc.Upload(UploadImageInput{
		UserID:      1,
		Filename:    "cover.png",
		ContentType: "image/png",
		Content:     content,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/media/"), "got %q", url)
	require.True(t, strings.HasSuffix(url, ".webp"))

	hash := strings.TrimSuffix(strings.TrimPrefix(url, "/media/"), ".webp")
	path, err := svc.ResolveForServing(hash)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// Identical content lands on the same file
	again, err := svc.Upload(UploadImageInput{UserID: 1, Filename: "cover.png", Content: content})
	require.NoError(t, err)
	assert.Equal(t, url, again)
}

func TestImageService_Upload_Validation(t *testing.T) {
	svc := newTestImageService(t)

	t.Run("empty body", func(t *testing.T) {
		_, err := svc.Upload(UploadImageInput{UserID: 1})
		assertValidationError(t, err)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := svc.Upload(UploadImageInput{Content: []byte("x")})
		assertValidationError(t, err)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := svc.Upload(UploadImageInput{UserID: 1, Content: []byte("plain text, not pixels")})
		assertValidationError(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		big := make([]byte, 2*1024*1024)
		_, err := svc.Upload(UploadImageInput{UserID: 1, Content: big})
		assertValidationError(t, err)
	})
}

func TestImageService_ResolveForServing_RejectsTraversal(t *testing.T) {
	svc := newTestImageService(t)

	for _, hash := range []string{"../etc/passwd", "ABCDEF", "short", ""} {
		_, err := svc.ResolveForServing(hash)
		assertValidationError(t, err)
	}
}

func TestImageService_ResizesOversized(t *testing.T) {
	svc := newTestImageService(t)
	// 1MB cap forces a small source; use dimensions over the cap instead
	content := encodeTestPNG(t, ImageMaxDimension+100, 50)

	url, err := svc.Upload(UploadImageInput{UserID: 1, Content: content})
	require.NoError(t, err)

	hash := strings.TrimSuffix(strings.TrimPrefix(url, "/media/"), ".webp")
	path, err := svc.ResolveForServing(hash)
	require.NoError(t, err)
	f, err := os.Open(filepath.Clean(path))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, ImageMaxDimension)
	assert.LessOrEqual(t, cfg.Height, ImageMaxDimension)
}
