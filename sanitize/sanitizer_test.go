package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newSanitizer(t *testing.T) *Sanitizer {
	t.Helper()
	s, err := New([]string{"idiot"}, '*')
	require.NoError(t, err)
	return s
}

func TestSanitizer_Clean_TrimsAndEscapes(t *testing.T) {
	req := require.New(t)
	s := newSanitizer(t)

	req.Equal("hello", s.Clean("  hello  ", 500))
	req.Equal("&lt;b&gt;hi&lt;/b&gt;", s.Clean("<b>hi</b>", 500))
}

func TestSanitizer_Clean_EmptyAfterTrim(t *testing.T) {
	req := require.New(t)
	s := newSanitizer(t)

	req.Empty(s.Clean("   ", 500))
	req.Empty(s.Clean("", 500))
}

func TestSanitizer_Clean_OverLengthDropped(t *testing.T) {
	req := require.New(t)
	s := newSanitizer(t)

	req.Empty(s.Clean(strings.Repeat("a", 501), 500))
	req.NotEmpty(s.Clean(strings.Repeat("a", 500), 500))
}

func TestSanitizer_Clean_Censors(t *testing.T) {
	req := require.New(t)
	s := newSanitizer(t)

	req.Equal("you *****", s.Clean("you idiot", 500))
}

func TestSanitizer_NewFromEmbedded_LoadsWords(t *testing.T) {
	req := require.New(t)
	data, err := loadCensoredWords(censoredFiles, "censored")
	req.NoError(err)
	req.NotEmpty(data.words)
	req.Contains(data.languages, "en")
	req.Contains(data.languages, "fr")
}
