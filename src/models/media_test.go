package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaKindFromMimeType(t *testing.T) {
	assert.Equal(t, MediaKindImage, MediaKindFromMimeType("image/png"))
	assert.Equal(t, MediaKindVideo, MediaKindFromMimeType("video/mp4"))
	assert.Equal(t, MediaKindAudio, MediaKindFromMimeType("audio/mpeg"))
	assert.Equal(t, MediaKindOther, MediaKindFromMimeType("application/pdf"))
	assert.Equal(t, MediaKindOther, MediaKindFromMimeType(""))
}

func TestValidateTagName(t *testing.T) {
	assert.True(t, ValidateTagName("cats"))
	assert.True(t, ValidateTagName("Home Video"))
	assert.True(t, ValidateTagName("2024"))

	assert.False(t, ValidateTagName(""))
	assert.False(t, ValidateTagName("this-tag-name-is-way-too-long-to-be-valid"))
}
