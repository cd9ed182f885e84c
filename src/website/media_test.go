package website

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	assert.Nil(t, parseTags(""))
	assert.Nil(t, parseTags(" , ,, "))

	// Tag names are case-sensitive and may contain spaces.
	assert.Equal(t, []string{"My Tag", "cats"}, parseTags(" My Tag , ,cats,"))
	assert.Equal(t, []string{"Music"}, parseTags("Music"))

	// Names too long for the tags table are dropped, not rejected.
	assert.Equal(t, []string{"ok"}, parseTags(strings.Repeat("x", 31)+",ok"))
}
