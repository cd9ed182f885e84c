package media

import (
	"context"
	"fmt"
	"os"

	"github.com/mediavault/mediavault/src/config"
	"github.com/mediavault/mediavault/src/logging"
	"github.com/mediavault/mediavault/src/oops"
	"golang.org/x/sync/semaphore"
)

// Default video bitrates per target height, in ffmpeg notation.
var renditionBitrates = map[int]string{
	480:  "1M",
	720:  "2.5M",
	1080: "5M",
}

const fallbackRenditionBitrate = "2M"
const renditionAudioBitrate = "128k"

// Transcoding is CPU-bound, so we cap how many run at once.
var transcodeSem = semaphore.NewWeighted(config.Config.Media.MaxTranscodes)

// GenerateRendition transcodes a video to H.264 at the given target height,
// width auto-computed to preserve aspect ratio. The audio stream, if the
// source has one, is re-encoded to AAC; silent sources produce a video-only
// file. An empty bitrate selects the default for the height.
//
// Returns nil on any failure; each rendition is generated independently and
// the absence of one never blocks the others.
func GenerateRendition(ctx context.Context, videoBytes []byte, targetHeight int, bitrate string) []byte {
	if bitrate == "" {
		var ok bool
		bitrate, ok = renditionBitrates[targetHeight]
		if !ok {
			bitrate = fallbackRenditionBitrate
		}
	}

	err := transcodeSem.Acquire(ctx, 1)
	if err != nil {
		return nil
	}
	defer transcodeSem.Release(1)

	var outputBytes []byte
	err = withTempFile("rendition-in-*.mp4", videoBytes, func(inPath string) error {
		return withTempPath("rendition-out-*.mp4", func(outPath string) error {
			// The muxer must know up front whether to expect audio.
			probe, err := ffprobeFile(ctx, inPath)
			if err != nil {
				return err
			}
			hasAudio := probe.firstStream("audio") != nil

			_, err = runTool(ctx, config.Config.Media.FfmpegPath,
				renditionArgs(inPath, outPath, targetHeight, bitrate, hasAudio)...,
			)
			if err != nil {
				return err
			}

			outputBytes, err = os.ReadFile(outPath)
			if err != nil {
				return oops.New(err, "failed to read transcoded rendition")
			}
			return nil
		})
	})
	if err != nil {
		logging.Warn().Err(err).Int("height", targetHeight).Msg("failed to generate rendition")
		return nil
	}
	if len(outputBytes) == 0 {
		return nil
	}
	return outputBytes
}

func renditionArgs(inPath, outPath string, targetHeight int, bitrate string, hasAudio bool) []string {
	args := []string{
		"-i", inPath,
		// -2 rounds the computed width to an even number, which libx264
		// requires.
		"-vf", fmt.Sprintf("scale=-2:%d", targetHeight),
		"-c:v", "libx264",
		"-b:v", bitrate,
		"-preset", "medium",
		"-movflags", "faststart",
	}
	if hasAudio {
		args = append(args,
			"-c:a", "aac",
			"-b:a", renditionAudioBitrate,
		)
	} else {
		args = append(args, "-an")
	}
	args = append(args, "-y", outPath)
	return args
}
