package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeTool replaces runTool for the duration of a test. The fake receives the
// tool name and its full argument list and returns canned stdout.
func fakeTool(t *testing.T, fn func(name string, args []string) ([]byte, error)) {
	t.Helper()
	orig := runTool
	runTool = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return fn(name, args)
	}
	t.Cleanup(func() {
		runTool = orig
	})
}

func TestProbeVideo(t *testing.T) {
	t.Run("full metadata", func(t *testing.T) {
		fakeTool(t, func(name string, args []string) ([]byte, error) {
			assert.Contains(t, args, "-show_streams")
			return []byte(`{
				"format": {"duration": "12.480000", "bit_rate": "2100000"},
				"streams": [
					{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "avg_frame_rate": "30000/1001"},
					{"codec_type": "audio", "codec_name": "aac", "sample_rate": "44100", "channels": 2}
				]
			}`), nil
		})

		probe := ProbeVideo(context.Background(), []byte("not a real video"))
		assert.Equal(t, 12.48, probe.DurationSeconds)
		assert.Equal(t, int64(2100000), probe.Bitrate)
		assert.Equal(t, 1920, probe.Width)
		assert.Equal(t, 1080, probe.Height)
		assert.Equal(t, "h264", probe.VideoCodec)
		assert.Equal(t, "aac", probe.AudioCodec)
		assert.InDelta(t, 29.97, probe.FrameRate, 0.01)
	})

	t.Run("no audio stream", func(t *testing.T) {
		fakeTool(t, func(name string, args []string) ([]byte, error) {
			return []byte(`{
				"format": {"duration": "5.0", "bit_rate": "900000"},
				"streams": [{"codec_type": "video", "codec_name": "h264", "width": 640, "height": 480, "avg_frame_rate": "25/1"}]
			}`), nil
		})

		probe := ProbeVideo(context.Background(), []byte("silent"))
		assert.Equal(t, "", probe.AudioCodec)
		assert.Equal(t, 25.0, probe.FrameRate)
	})

	t.Run("bitrate estimated from size", func(t *testing.T) {
		fakeTool(t, func(name string, args []string) ([]byte, error) {
			return []byte(`{"format": {"duration": "10.0"}, "streams": []}`), nil
		})

		probe := ProbeVideo(context.Background(), make([]byte, 1250000))
		assert.Equal(t, int64(1000000), probe.Bitrate)
	})

	t.Run("probe failure yields zero values", func(t *testing.T) {
		fakeTool(t, func(name string, args []string) ([]byte, error) {
			return nil, assert.AnError
		})

		probe := ProbeVideo(context.Background(), []byte("broken"))
		assert.Equal(t, VideoProbe{}, probe)
	})
}

func TestProbeAudio(t *testing.T) {
	t.Run("ffprobe fallback for non-mp3", func(t *testing.T) {
		fakeTool(t, func(name string, args []string) ([]byte, error) {
			return []byte(`{
				"format": {"duration": "30.0", "bit_rate": "192000"},
				"streams": [{"codec_type": "audio", "codec_name": "flac", "sample_rate": "48000", "channels": 2}]
			}`), nil
		})

		probe := ProbeAudio(context.Background(), []byte("definitely not mp3 frames"))
		assert.Equal(t, 30.0, probe.DurationSeconds)
		assert.Equal(t, int64(192000), probe.Bitrate)
		assert.Equal(t, 48000, probe.SampleRate)
		assert.Equal(t, 2, probe.Channels)
	})

	t.Run("bitrate estimated when container omits it", func(t *testing.T) {
		fakeTool(t, func(name string, args []string) ([]byte, error) {
			return []byte(`{
				"format": {"duration": "4.0"},
				"streams": [{"codec_type": "audio", "codec_name": "wav", "sample_rate": "44100", "channels": 1}]
			}`), nil
		})

		probe := ProbeAudio(context.Background(), make([]byte, 64000))
		assert.Equal(t, int64(128000), probe.Bitrate)
	})
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"30/1", 30, true},
		{"30000/1001", 29.97002997002997, true},
		{"0/0", 0, false},
		{"25", 0, false},
		{"", 0, false},
		{"a/b", 0, false},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			rate, ok := ParseFrameRate(test.input)
			assert.Equal(t, test.ok, ok)
			assert.InDelta(t, test.expected, rate, 0.0001)
		})
	}
}

func TestEstimateBitrate(t *testing.T) {
	assert.Equal(t, int64(1000000), EstimateBitrate(1250000, 10.0))
	assert.Equal(t, int64(0), EstimateBitrate(1250000, 0))
	assert.Equal(t, int64(0), EstimateBitrate(1250000, -1))
	assert.Equal(t, int64(8), EstimateBitrate(1, 1))
}
