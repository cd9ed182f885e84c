package media

import (
	"context"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mediavault/mediavault/src/models"
	"github.com/mediavault/mediavault/src/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginalKey(t *testing.T) {
	key := originalKey(3, models.MediaKindVideo, "clip.mp4")
	assert.Regexp(t, regexp.MustCompile(`^3/videos/\d+_[0-9a-f]{32}_clip\.mp4$`), key)

	// Two uploads of the same file must not collide.
	other := originalKey(3, models.MediaKindVideo, "clip.mp4")
	assert.NotEqual(t, key, other)

	assert.Regexp(t, `^7/images/`, originalKey(7, models.MediaKindImage, "pic.png"))
	assert.Regexp(t, `^7/audio/`, originalKey(7, models.MediaKindAudio, "song.mp3"))
	assert.Regexp(t, `^7/other/`, originalKey(7, models.MediaKindOther, "blob.bin"))
}

func TestIngestVideoRenditionIndependence(t *testing.T) {
	now := time.Now()
	srcKey := "3/videos/1700000000_d1b2c3d4_clip.mp4"
	conn := &stubConn{
		t: t,
		results: map[string][][]any{
			"INSERT INTO media (":    {{1, 3, int(models.MediaKindVideo), "clip.mp4", srcKey, "video/mp4", int64(10), "", true, now, now}},
			"INSERT INTO thumbnails": {{44}},
		},
	}
	store := storage.NewMemoryStore()

	// The 720p transcode fails; everything else succeeds.
	fakeTool(t, func(name string, args []string) ([]byte, error) {
		if strings.Contains(name, "ffprobe") {
			return []byte(`{
				"format": {"duration": "10.0", "bit_rate": "2000000"},
				"streams": [{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "avg_frame_rate": "30/1"}]
			}`), nil
		}
		if strings.Contains(strings.Join(args, " "), "scale=-2:720") {
			return nil, assert.AnError
		}
		return nil, os.WriteFile(args[len(args)-1], []byte("encoded"), 0644)
	})

	m, err := IngestVideo(context.Background(), conn, store, IngestInput{
		OwnerID:     3,
		Filename:    "clip.mp4",
		Content:     []byte("raw video"),
		ContentType: "video/mp4",
	})
	require.NoError(t, err)
	require.NotNil(t, m)

	key1080 := "3/videos/renditions/1700000000_d1b2c3d4_clip_1080p.mp4"
	key720 := "3/videos/renditions/1700000000_d1b2c3d4_clip_720p.mp4"
	key480 := "3/videos/renditions/1700000000_d1b2c3d4_clip_480p.mp4"

	_, err = store.Get(context.Background(), key1080)
	assert.NoError(t, err)
	_, err = store.Get(context.Background(), key720)
	assert.Error(t, err)
	_, err = store.Get(context.Background(), key480)
	assert.NoError(t, err)

	renditionRows := conn.execsMatching("INSERT INTO video_renditions")
	require.Len(t, renditionRows, 2)
	assert.Equal(t, 1080, renditionRows[0].args[2])
	assert.Equal(t, 480, renditionRows[1].args[2])

	metadataRows := conn.execsMatching("INSERT INTO video_metadata")
	require.Len(t, metadataRows, 1)
	metadataArgs := metadataRows[0].args
	require.Equal(t, &key1080, metadataArgs[9])
	assert.Nil(t, metadataArgs[10])
	require.Equal(t, &key480, metadataArgs[11])
}

func TestDeleteMediaCascade(t *testing.T) {
	now := time.Now()
	ctx := context.Background()
	srcKey := "3/videos/1700000000_d1b2c3d4_clip.mp4"
	thumbKey := "3/videos/thumbnails/1700000000_d1b2c3d4_clip.jpg"
	renditionKey := "3/videos/renditions/1700000000_d1b2c3d4_clip_480p.mp4"

	conn := &stubConn{
		t: t,
		results: map[string][][]any{
			"---- Fetch media by id": {{5, 3, int(models.MediaKindVideo), "clip.mp4", srcKey, "video/mp4", int64(9), "", true, now, now}},
			"---- List thumbnails":   {{9, 5, thumbKey, 320, 180, int64(3), "video-frame", now}},
			"FROM video_renditions":  {{renditionKey}},
		},
	}

	store := storage.NewMemoryStore()
	for _, key := range []string{srcKey, thumbKey, renditionKey, "4/images/unrelated.png"} {
		require.NoError(t, store.Put(ctx, key, "application/octet-stream", []byte("x")))
	}

	err := DeleteMedia(ctx, conn, store, 5)
	require.NoError(t, err)

	deletes := conn.execsMatching("DELETE FROM media")
	require.Len(t, deletes, 1)
	assert.Equal(t, 5, deletes[0].args[0])

	// Every owned object is gone, nothing else is.
	for _, key := range []string{srcKey, thumbKey, renditionKey} {
		_, err := store.Get(ctx, key)
		assert.Error(t, err, "object %s should be gone", key)
	}
	_, err = store.Get(ctx, "4/images/unrelated.png")
	assert.NoError(t, err)
}

func TestDerivativeKey(t *testing.T) {
	tests := []struct {
		name     string
		original string
		folder   string
		suffix   string
		ext      string
		expected string
	}{
		{
			"video thumbnail",
			"3/videos/1700000000_d1b2c3d4_clip.mp4",
			"thumbnails", "", "jpg",
			"3/videos/thumbnails/1700000000_d1b2c3d4_clip.jpg",
		},
		{
			"rendition",
			"3/videos/1700000000_d1b2c3d4_clip.mp4",
			"renditions", "_720p", "mp4",
			"3/videos/renditions/1700000000_d1b2c3d4_clip_720p.mp4",
		},
		{
			"image thumbnail keeps png",
			"5/images/1700000000_aabbccdd_logo.png",
			"thumbnails", "", "png",
			"5/images/thumbnails/1700000000_aabbccdd_logo.png",
		},
		{
			"original without extension",
			"5/images/1700000000_aabbccdd_scan",
			"thumbnails", "", "jpg",
			"5/images/thumbnails/1700000000_aabbccdd_scan.jpg",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, derivativeKey(test.original, test.folder, test.suffix, test.ext))
		})
	}
}
