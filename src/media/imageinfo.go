package media

import (
	"bytes"
	"image"
	"image/color"

	"github.com/mediavault/mediavault/src/logging"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ImageProbe holds whatever we managed to learn about an image. As with the
// other probes, fields that could not be determined are left zero.
type ImageProbe struct {
	Width      int
	Height     int
	ColorDepth int // bits per pixel
	DpiX       int
	DpiY       int
	Exif       map[string]interface{}
}

// ProbeImage inspects image dimensions, color depth and EXIF tags. Best
// effort; a file that does not even decode yields an empty result.
func ProbeImage(imageBytes []byte) ImageProbe {
	var result ImageProbe

	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		logging.Warn().Err(err).Msg("failed to decode image header")
		return result
	}
	result.Width = cfg.Width
	result.Height = cfg.Height
	result.ColorDepth = colorModelDepth(cfg.ColorModel)

	x, err := exif.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		// Most images simply have no EXIF block. Not worth logging.
		return result
	}

	collector := exifCollector{fields: make(map[string]interface{})}
	x.Walk(&collector)
	if len(collector.fields) > 0 {
		result.Exif = collector.fields
	}

	result.DpiX = exifRational(x, exif.XResolution)
	result.DpiY = exifRational(x, exif.YResolution)

	return result
}

func colorModelDepth(model color.Model) int {
	switch model {
	case color.RGBAModel, color.NRGBAModel:
		return 32
	case color.RGBA64Model, color.NRGBA64Model:
		return 64
	case color.GrayModel:
		return 8
	case color.Gray16Model:
		return 16
	case color.CMYKModel:
		return 32
	case color.YCbCrModel:
		return 24
	}
	if _, ok := model.(color.Palette); ok {
		return 8
	}
	return 24
}

type exifCollector struct {
	fields map[string]interface{}
}

func (c *exifCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c.fields[string(name)] = tag.String()
	return nil
}

func exifRational(x *exif.Exif, name exif.FieldName) int {
	tag, err := x.Get(name)
	if err != nil {
		return 0
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0
	}
	return int(num / den)
}
