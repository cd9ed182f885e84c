package media

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/mediavault/mediavault/src/config"
	"github.com/mediavault/mediavault/src/logging"
	"github.com/mediavault/mediavault/src/oops"
	"github.com/tcolgate/mp3"
)

// VideoProbe holds whatever container metadata we managed to extract from a
// video. Fields that could not be determined are left at their zero value.
type VideoProbe struct {
	DurationSeconds float64
	Width           int
	Height          int
	FrameRate       float64
	VideoCodec      string
	AudioCodec      string // empty when the source has no audio stream
	Bitrate         int64  // bps
}

// AudioProbe is the audio equivalent of VideoProbe. Same zero-value rules.
type AudioProbe struct {
	DurationSeconds float64
	Bitrate         int64 // bps
	SampleRate      int   // Hz
	Channels        int
}

// ProbeVideo extracts container and stream metadata from a video. Probing is
// advisory: on any failure it logs and returns a result with unset fields.
func ProbeVideo(ctx context.Context, videoBytes []byte) VideoProbe {
	var result VideoProbe

	err := withTempFile("probe-*.bin", videoBytes, func(path string) error {
		out, err := ffprobeFile(ctx, path)
		if err != nil {
			return err
		}

		if duration, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
			result.DurationSeconds = duration
		}
		if bitrate, err := strconv.ParseInt(out.Format.BitRate, 10, 64); err == nil {
			result.Bitrate = bitrate
		}

		if video := out.firstStream("video"); video != nil {
			result.Width = video.Width
			result.Height = video.Height
			result.VideoCodec = video.CodecName
			if rate, ok := ParseFrameRate(video.AvgFrameRate); ok {
				result.FrameRate = rate
			}
		}
		if audio := out.firstStream("audio"); audio != nil {
			result.AudioCodec = audio.CodecName
		}

		return nil
	})
	if err != nil {
		logging.Warn().Err(err).Msg("failed to probe video, continuing with partial metadata")
	}

	if result.Bitrate == 0 && result.DurationSeconds > 0 {
		result.Bitrate = EstimateBitrate(len(videoBytes), result.DurationSeconds)
	}

	return result
}

// ProbeAudio extracts duration, sample rate and channel count from an audio
// file. It decodes mp3 frames directly when it can, since summing frame
// durations is more accurate than the container headers in the wild; anything
// the decoder chokes on falls back to the external inspector. Probing is
// advisory and never fails.
func ProbeAudio(ctx context.Context, audioBytes []byte) AudioProbe {
	if result, ok := probeAudioMP3(audioBytes); ok {
		return result
	}

	var result AudioProbe
	err := withTempFile("probe-*.bin", audioBytes, func(path string) error {
		out, err := ffprobeFile(ctx, path)
		if err != nil {
			return err
		}

		if duration, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
			result.DurationSeconds = duration
		}
		if bitrate, err := strconv.ParseInt(out.Format.BitRate, 10, 64); err == nil {
			result.Bitrate = bitrate
		}
		if audio := out.firstStream("audio"); audio != nil {
			if sampleRate, err := strconv.Atoi(audio.SampleRate); err == nil {
				result.SampleRate = sampleRate
			}
			result.Channels = audio.Channels
		}

		return nil
	})
	if err != nil {
		logging.Warn().Err(err).Msg("failed to probe audio, continuing with partial metadata")
	}

	if result.Bitrate == 0 && result.DurationSeconds > 0 {
		result.Bitrate = EstimateBitrate(len(audioBytes), result.DurationSeconds)
	}

	return result
}

func probeAudioMP3(audioBytes []byte) (AudioProbe, bool) {
	var result AudioProbe

	decoder := mp3.NewDecoder(bytes.NewReader(audioBytes))
	var frame mp3.Frame
	skipped := 0
	numFrames := 0
	for {
		err := decoder.Decode(&frame, &skipped)
		if err != nil {
			if err != io.EOF && numFrames == 0 {
				// Not an mp3 at all, let ffprobe have a go.
				return AudioProbe{}, false
			}
			break
		}

		if numFrames == 0 {
			header := frame.Header()
			result.SampleRate = int(header.SampleRate())
			if header.ChannelMode() == mp3.SingleChannel {
				result.Channels = 1
			} else {
				result.Channels = 2
			}
		}
		result.DurationSeconds += frame.Duration().Seconds()
		numFrames++
	}

	if numFrames == 0 || result.DurationSeconds <= 0 {
		return AudioProbe{}, false
	}

	result.Bitrate = EstimateBitrate(len(audioBytes), result.DurationSeconds)
	return result, true
}

// ParseFrameRate parses ffprobe's rational frame rate format ("30000/1001").
// A zero denominator means the rate is unknown, not a division error.
func ParseFrameRate(rate string) (float64, bool) {
	numStr, denStr, found := strings.Cut(rate, "/")
	if !found {
		return 0, false
	}
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, false
	}
	den, err := strconv.Atoi(denStr)
	if err != nil || den == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}

// EstimateBitrate computes an average bitrate in bps from the total byte size
// and the duration, for containers whose headers do not report one.
func EstimateBitrate(numBytes int, durationSeconds float64) int64 {
	if durationSeconds <= 0 {
		return 0
	}
	return int64(float64(numBytes) * 8 / durationSeconds)
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
}

func (out *ffprobeOutput) firstStream(codecType string) *ffprobeStream {
	for i := range out.Streams {
		if out.Streams[i].CodecType == codecType {
			return &out.Streams[i]
		}
	}
	return nil
}

func ffprobeFile(ctx context.Context, path string) (*ffprobeOutput, error) {
	raw, err := runTool(ctx, config.Config.Media.FfprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return nil, err
	}

	var out ffprobeOutput
	err = json.Unmarshal(raw, &out)
	if err != nil {
		return nil, oops.New(err, "failed to parse ffprobe output")
	}
	return &out, nil
}
