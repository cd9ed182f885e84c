package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGenerateImageThumbnail(t *testing.T) {
	t.Run("opaque source becomes jpeg", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 640, 480))
		for i := range src.Pix {
			src.Pix[i] = 255
		}

		thumb, width, height, contentType, err := GenerateImageThumbnail(encodePNG(t, src))
		require.NoError(t, err)
		assert.NotEmpty(t, thumb)
		assert.Equal(t, "image/jpeg", contentType)
		assert.Equal(t, 320, width)
		assert.Equal(t, 240, height)

		decoded, format, err := image.Decode(bytes.NewReader(thumb))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 320, decoded.Bounds().Dx())
	})

	t.Run("transparent source stays png", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 400, 400))
		src.SetNRGBA(10, 10, color.NRGBA{R: 255, A: 128})

		thumb, width, height, contentType, err := GenerateImageThumbnail(encodePNG(t, src))
		require.NoError(t, err)
		assert.Equal(t, "image/png", contentType)
		assert.Equal(t, 320, width)
		assert.Equal(t, 320, height)

		_, format, err := image.Decode(bytes.NewReader(thumb))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
	})

	t.Run("small source is not upscaled", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 100, 50))
		for i := range src.Pix {
			src.Pix[i] = 255
		}

		_, width, height, _, err := GenerateImageThumbnail(encodePNG(t, src))
		require.NoError(t, err)
		assert.Equal(t, 100, width)
		assert.Equal(t, 50, height)
	})

	t.Run("garbage input errors", func(t *testing.T) {
		_, _, _, _, err := GenerateImageThumbnail([]byte("not an image"))
		assert.Error(t, err)
	})
}

func TestGenerateVideoThumbnail(t *testing.T) {
	t.Run("reads the frame the tool produced", func(t *testing.T) {
		fakeTool(t, func(name string, args []string) ([]byte, error) {
			assert.Contains(t, args, "-ss")
			assert.Contains(t, args, "1")
			assert.Contains(t, args, "scale=320:-1")
			outPath := args[len(args)-1]
			return nil, os.WriteFile(outPath, []byte("jpeg bytes"), 0644)
		})

		thumb := GenerateVideoThumbnail(context.Background(), []byte("video"), 1.0)
		assert.Equal(t, []byte("jpeg bytes"), thumb)
	})

	t.Run("nil on tool failure", func(t *testing.T) {
		fakeTool(t, func(name string, args []string) ([]byte, error) {
			return nil, assert.AnError
		})

		assert.Nil(t, GenerateVideoThumbnail(context.Background(), []byte("video"), 1.0))
	})
}
