package media

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var reSafeFilename = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9]+)?$`)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "unnamed"},
		{"already safe", "clip_2024-01.mp4", "clip_2024-01.mp4"},
		{"spaces", "my holiday video.mp4", "my_holiday_video.mp4"},
		{"path traversal", "../evil/fi l e.png", "evil_fi_l_e.png"},
		{"accents", "café.jpg", "cafe.jpg"},
		{"nul bytes", "file\x00name.txt", "filename.txt"},
		{"backslashes", "C:\\Users\\me\\pic.png", "C_Users_me_pic.png"},
		{"only dots", "....", "file"},
		{"dotfile", ".gitignore", "file.gitignore"},
		{"whitespace only", "   ", "file"},
		{"multiple dots in name", "archive.tar.gz", "archive_tar.gz"},
		{"invalid extension chars", "doc.p df", "doc.pdf"},
		{"repeated separators", "a!!!b###c.txt", "a_b_c.txt"},
		{"transliterable symbols", "©®™.€", "TM"},
		{"nothing safe", "絵文字.写", "file"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := SanitizeFilename(test.input)
			assert.Equal(t, test.expected, result)
			assert.True(t, reSafeFilename.MatchString(result), "result %q is not a safe filename", result)
		})
	}
}

func TestSanitizeFilenameIdempotent(t *testing.T) {
	inputs := []string{"clip.mp4", "my holiday video.mp4", "café.jpg", "....", ""}
	for _, input := range inputs {
		once := SanitizeFilename(input)
		twice := SanitizeFilename(once)
		assert.Equal(t, once, twice)
	}
}
