package media

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var reInvalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
var reRepeatedSeparators = regexp.MustCompile(`_{2,}`)
var reInvalidExtChars = regexp.MustCompile(`[^A-Za-z0-9]+`)

/*
SanitizeFilename normalizes an untrusted filename into a safe storage key
segment.

  - Normalizes unicode characters to ASCII when possible.
  - Removes path separators and control characters.
  - Replaces runs of invalid characters with an underscore.
  - Keeps the file extension (if present), restricted to alphanumerics.

Always returns a non-empty string: "unnamed" when the input is empty, and
"file" when nothing safe survives.
*/
func SanitizeFilename(filename string) string {
	if filename == "" {
		return "unnamed"
	}

	filename = strings.TrimSpace(filename)

	// Split off the extension before transforming the base name.
	name := filename
	ext := ""
	if dotIdx := strings.LastIndexByte(filename, '.'); dotIdx >= 0 {
		name = filename[:dotIdx]
		ext = filename[dotIdx+1:]
	}

	// Transliterate to ASCII by decomposing and dropping whatever remains
	// outside the ASCII range (e.g. "café" becomes "cafe").
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, name)

	name = strings.ReplaceAll(name, "/", " ")
	name = strings.ReplaceAll(name, "\\", " ")
	name = strings.ReplaceAll(name, "\x00", "")

	name = reInvalidNameChars.ReplaceAllString(name, "_")
	name = reRepeatedSeparators.ReplaceAllString(name, "_")
	name = strings.Trim(name, " ._-")

	if name == "" {
		name = "file"
	}

	ext = reInvalidExtChars.ReplaceAllString(ext, "")
	if ext != "" {
		return name + "." + ext
	}
	return name
}
