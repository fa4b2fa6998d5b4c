package textx

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText_RemovesControlChars(t *testing.T) {
	t.Parallel()
	in := "Jane\x00 Doe\x07\nEngineer\tBackend\r\n"
	out := SanitizeText(in)
	assert.Equal(t, "Jane Doe\nEngineer\tBackend", out)
}

func TestSanitizeText_PreservesNewlines(t *testing.T) {
	t.Parallel()
	out := SanitizeText("line one\nline two\nline three")
	assert.Equal(t, 3, len(strings.Split(out, "\n")))
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0), "non-positive limit disables truncation")
	assert.Equal(t, "abcdef", Truncate("abcdef", -1))
}

func TestTruncate_RuneBoundary(t *testing.T) {
	t.Parallel()
	// "héllo": é is two bytes; cutting at 2 would split it.
	out := Truncate("héllo", 2)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "h", out)
}
