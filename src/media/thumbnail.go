package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"

	_ "image/gif"

	"github.com/disintegration/imaging"
	"github.com/mediavault/mediavault/src/config"
	"github.com/mediavault/mediavault/src/logging"
	"github.com/mediavault/mediavault/src/oops"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const thumbnailSize = 320
const thumbnailJPEGQuality = 85

// GenerateImageThumbnail scales an image down to fit within 320x320 and
// re-encodes it. Sources with transparency (an alpha channel or a palette)
// come out as PNG so the transparency survives; everything else is flattened
// to JPEG.
func GenerateImageThumbnail(imageBytes []byte) (thumb []byte, width int, height int, contentType string, err error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, 0, 0, "", oops.New(err, "failed to decode image")
	}

	resized := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	bounds := resized.Bounds()
	width = bounds.Dx()
	height = bounds.Dy()

	var buf bytes.Buffer
	if imageNeedsTransparency(img) {
		err = png.Encode(&buf, resized)
		if err != nil {
			return nil, 0, 0, "", oops.New(err, "failed to encode png thumbnail")
		}
		contentType = "image/png"
	} else {
		flat := imaging.New(width, height, color.NRGBA{255, 255, 255, 255})
		flat = imaging.Overlay(flat, resized, image.Pt(0, 0), 1.0)
		err = jpeg.Encode(&buf, flat, &jpeg.Options{Quality: thumbnailJPEGQuality})
		if err != nil {
			return nil, 0, 0, "", oops.New(err, "failed to encode jpeg thumbnail")
		}
		contentType = "image/jpeg"
	}

	return buf.Bytes(), width, height, contentType, nil
}

func imageNeedsTransparency(img image.Image) bool {
	if _, isPaletted := img.(*image.Paletted); isPaletted {
		return true
	}
	if opaquer, ok := img.(interface{ Opaque() bool }); ok {
		return !opaquer.Opaque()
	}
	return false
}

// GenerateVideoThumbnail grabs a single frame at the given timestamp, scaled
// to 320 pixels wide, as JPEG. Returns nil on any failure; video thumbnails
// are best-effort.
func GenerateVideoThumbnail(ctx context.Context, videoBytes []byte, timestampSeconds float64) []byte {
	var thumbBytes []byte

	err := withTempFile("thumbsrc-*.mp4", videoBytes, func(videoPath string) error {
		return withTempPath("thumb-*.jpg", func(thumbPath string) error {
			_, err := runTool(ctx, config.Config.Media.FfmpegPath,
				"-ss", fmt.Sprintf("%g", timestampSeconds),
				"-i", videoPath,
				"-vf", fmt.Sprintf("scale=%d:-1", thumbnailSize),
				"-frames:v", "1",
				"-y",
				thumbPath,
			)
			if err != nil {
				return err
			}

			thumbBytes, err = os.ReadFile(thumbPath)
			if err != nil {
				return oops.New(err, "failed to read generated thumbnail")
			}
			return nil
		})
	})
	if err != nil {
		logging.Warn().Err(err).Msg("failed to generate video thumbnail")
		return nil
	}
	if len(thumbBytes) == 0 {
		return nil
	}
	return thumbBytes
}
