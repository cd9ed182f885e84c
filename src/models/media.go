package models

import (
	"strings"
	"time"
)

type MediaKind int

const (
	MediaKindOther MediaKind = 0
	MediaKindImage MediaKind = 1
	MediaKindVideo MediaKind = 2
	MediaKindAudio MediaKind = 3
)

func (k MediaKind) String() string {
	switch k {
	case MediaKindImage:
		return "image"
	case MediaKindVideo:
		return "video"
	case MediaKindAudio:
		return "audio"
	default:
		return "other"
	}
}

// MediaKindFromMimeType classifies an uploaded file by the major part of its
// MIME type. Anything unrecognized is MediaKindOther.
func MediaKindFromMimeType(mimeType string) MediaKind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return MediaKindImage
	case strings.HasPrefix(mimeType, "video/"):
		return MediaKindVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return MediaKindAudio
	default:
		return MediaKindOther
	}
}

type Media struct {
	ID int `db:"id"`

	// Owner may be null if the owning user was deleted.
	OwnerID *int `db:"owner_id"`

	Kind        MediaKind `db:"kind"`
	Filename    string    `db:"filename"`
	S3Key       string    `db:"s3_key"`
	MimeType    string    `db:"mime_type"`
	Size        int64     `db:"size"`
	Description string    `db:"description"`
	IsPublic    bool      `db:"is_public"`

	CreatedAt  time.Time `db:"created_at"`
	UploadedAt time.Time `db:"uploaded_at"`
}

type Thumbnail struct {
	ID      int `db:"id"`
	MediaID int `db:"media_id"`

	S3Key  string `db:"s3_key"`
	Width  int    `db:"width"`
	Height int    `db:"height"`
	Size   int64  `db:"size"`

	// e.g. "listing", "preview", "video-frame"
	Purpose string `db:"purpose"`

	CreatedAt time.Time `db:"created_at"`
}

type VideoRendition struct {
	ID      int `db:"id"`
	MediaID int `db:"media_id"`

	// e.g. "1080p"
	Resolution string `db:"resolution"`
	Width      int    `db:"width"`
	Height     int    `db:"height"`
	Bitrate    int64  `db:"bitrate"`
	S3Key      string `db:"s3_key"`
	IsDefault  bool   `db:"is_default"`

	CreatedAt time.Time `db:"created_at"`
}
