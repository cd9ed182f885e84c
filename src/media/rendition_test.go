package media

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenditionArgs(t *testing.T) {
	t.Run("with audio", func(t *testing.T) {
		args := renditionArgs("in.mp4", "out.mp4", 720, "2.5M", true)
		assert.Equal(t, []string{
			"-i", "in.mp4",
			"-vf", "scale=-2:720",
			"-c:v", "libx264",
			"-b:v", "2.5M",
			"-preset", "medium",
			"-movflags", "faststart",
			"-c:a", "aac",
			"-b:a", "128k",
			"-y", "out.mp4",
		}, args)
	})

	t.Run("without audio", func(t *testing.T) {
		args := renditionArgs("in.mp4", "out.mp4", 480, "1M", false)
		assert.Contains(t, args, "-an")
		assert.NotContains(t, args, "-c:a")
		assert.Contains(t, args, "scale=-2:480")
	})
}

func TestGenerateRendition(t *testing.T) {
	t.Run("default bitrate per height", func(t *testing.T) {
		var ffmpegArgs []string
		fakeTool(t, func(name string, args []string) ([]byte, error) {
			if strings.Contains(name, "ffprobe") {
				return []byte(`{"format": {}, "streams": [{"codec_type": "audio", "codec_name": "aac"}]}`), nil
			}
			ffmpegArgs = args
			return nil, os.WriteFile(args[len(args)-1], []byte("transcoded"), 0644)
		})

		out := GenerateRendition(context.Background(), []byte("video"), 1080, "")
		require.Equal(t, []byte("transcoded"), out)
		assert.Contains(t, ffmpegArgs, "5M")
		assert.Contains(t, ffmpegArgs, "-c:a")
	})

	t.Run("unknown height falls back", func(t *testing.T) {
		var ffmpegArgs []string
		fakeTool(t, func(name string, args []string) ([]byte, error) {
			if strings.Contains(name, "ffprobe") {
				return []byte(`{"format": {}, "streams": []}`), nil
			}
			ffmpegArgs = args
			return nil, os.WriteFile(args[len(args)-1], []byte("transcoded"), 0644)
		})

		out := GenerateRendition(context.Background(), []byte("video"), 360, "")
		require.NotNil(t, out)
		assert.Contains(t, ffmpegArgs, "2M")
		assert.Contains(t, ffmpegArgs, "-an")
	})

	t.Run("nil on transcode failure", func(t *testing.T) {
		fakeTool(t, func(name string, args []string) ([]byte, error) {
			if strings.Contains(name, "ffprobe") {
				return []byte(`{"format": {}, "streams": []}`), nil
			}
			return nil, assert.AnError
		})

		assert.Nil(t, GenerateRendition(context.Background(), []byte("video"), 720, ""))
	})
}

func TestParseBitrate(t *testing.T) {
	assert.Equal(t, int64(2500000), parseBitrate("2.5M"))
	assert.Equal(t, int64(1000000), parseBitrate("1M"))
	assert.Equal(t, int64(128000), parseBitrate("128k"))
	assert.Equal(t, int64(64000), parseBitrate("64000"))
	assert.Equal(t, int64(0), parseBitrate("garbage"))
}
