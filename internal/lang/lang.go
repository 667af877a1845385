// Package lang holds the fixed set of translation target languages.
package lang

import (
	"sort"
	"strings"

	apperrors "github.com/avrudenko/lingvobot/pkg/errors"
)

// DefaultCode is the source language of trivia questions and the fallback
// translation target.
const DefaultCode = "en"

// supported maps lowercase language names to ISO codes.
var supported = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"russian":    "ru",
	"chinese":    "zh",
	"japanese":   "ja",
	"korean":     "ko",
	"arabic":     "ar",
	"hindi":      "hi",
}

// names maps ISO codes back to display names used in translation prompts.
var names = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
	"ar": "Arabic",
	"hi": "Hindi",
}

// Validate resolves a user-supplied language name (case-insensitive) to its
// code. On failure the error message lists every supported name.
func Validate(language string) (string, error) {
	code, ok := supported[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return "", apperrors.New(apperrors.ErrCodeValidation,
			"language '"+language+"' is not supported; supported languages: "+strings.Join(SupportedNames(), ", "))
	}
	return code, nil
}

// NameFor returns the display name for a code, falling back to the code
// itself for anything unexpected.
func NameFor(code string) string {
	if name, ok := names[code]; ok {
		return name
	}
	return code
}

// NameForCodeLookup finds the lowercase name whose code matches, used when
// confirming a selection back to the user.
func NameForCodeLookup(code string) string {
	for name, c := range supported {
		if c == code {
			return name
		}
	}
	return "unknown"
}

// SupportedNames returns all supported language names, sorted.
func SupportedNames() []string {
	out := make([]string, 0, len(supported))
	for name := range supported {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SupportedCodes returns name/code pairs sorted by name, for keyboard
// construction.
func SupportedCodes() [][2]string {
	pairs := make([][2]string, 0, len(supported))
	for _, name := range SupportedNames() {
		pairs = append(pairs, [2]string{name, supported[name]})
	}
	return pairs
}
