package ai

import (
	"unicode"

	"github.com/abadojack/whatlanggo"
)

type Language string

const (
	English Language = "en"
	Korean  Language = "ko"
)

// LanguageOf picks the language of the text written for a participant from their display name.
// Hangul names get Korean, everything else English.
func LanguageOf(name string) Language {
	if name == "" {
		return English
	}
	info := whatlanggo.Detect(name)
	if info.Lang == whatlanggo.Kor || info.Script == unicode.Hangul {
		return Korean
	}
	return English
}
