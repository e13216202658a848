// Package sanitize cleans every display-bound string before it reaches the
// relay pipeline: trim, HTML-escape, censor, length gate.
package sanitize

import (
	"fmt"
	"html"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"

	"chat-relay/moderation"
)

type Sanitizer struct {
	moderator moderation.Moderator
}

// New builds a sanitizer around an explicit word list.
func New(words []string, replacement rune) (*Sanitizer, error) {
	moderator, err := moderation.NewModerator(words, replacement)
	if err != nil {
		return nil, err
	}
	return &Sanitizer{moderator: moderator}, nil
}

// NewFromEmbedded builds a sanitizer from the embedded censored dictionaries.
func NewFromEmbedded(log *slog.Logger, replacement rune) (*Sanitizer, error) {
	data, err := loadCensoredWords(censoredFiles, "censored")
	if err != nil {
		return nil, err
	}
	log.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(data.languages), strings.Join(data.languages, ",")))
	log.Info(fmt.Sprintf("%d unique censored words loaded", len(data.words)))
	return New(data.words, replacement)
}

// Clean trims, escapes and censors raw text. It returns the empty string when
// the input is empty after trimming or longer than maxLen runes after
// sanitization; an empty result means the caller must drop the input.
// maxLen <= 0 disables the length gate.
func (s *Sanitizer) Clean(raw string, maxLen int) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = html.EscapeString(text)
	text, _ = s.moderator.Censor(text)
	if maxLen > 0 && utf8.RuneCountInString(text) > maxLen {
		return ""
	}
	return text
}

// Lang returns the ISO 639-1 code of the detected language, or the empty
// string when detection is unreliable.
func (s *Sanitizer) Lang(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
