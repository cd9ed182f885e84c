package models

// Per-kind metadata rows, keyed directly by media id. Each media row has at
// most one of these, matching its kind.

type ImageMetadata struct {
	MediaID int `db:"media_id"`

	Width      int `db:"width"`
	Height     int `db:"height"`
	ColorDepth int `db:"color_depth"`
	DpiX       int `db:"dpi_x"`
	DpiY       int `db:"dpi_y"`

	// Raw EXIF tags as a JSON object, when the image had any.
	Exif map[string]interface{} `db:"exif"`

	MainThumbnailID *int `db:"main_thumbnail_id"`
}

type VideoMetadata struct {
	MediaID int `db:"media_id"`

	DurationSeconds float64 `db:"duration_seconds"`
	Width           int     `db:"width"`
	Height          int     `db:"height"`
	FrameRate       float64 `db:"frame_rate"`
	VideoCodec      string  `db:"video_codec"`
	AudioCodec      string  `db:"audio_codec"`
	Bitrate         int64   `db:"bitrate"`

	MainThumbnailID *int `db:"main_thumbnail_id"`

	// Public or signed URLs of the H.264 renditions, filled in as transcodes
	// complete.
	Url1080 *string `db:"url_1080"`
	Url720  *string `db:"url_720"`
	Url480  *string `db:"url_480"`

	Genre *string `db:"genero"`
}

type AudioMetadata struct {
	MediaID int `db:"media_id"`

	DurationSeconds float64 `db:"duration_seconds"`
	Bitrate         int64   `db:"bitrate"`
	SampleRate      int     `db:"sample_rate"`
	Channels        int     `db:"channels"`

	Genre *string `db:"genero"`
}
