package extract

import (
	"strings"
	"unicode/utf8"
)

// RefusalMaxLength is the length, in characters, below which a reply is
// checked against the refusal vocabulary.
const RefusalMaxLength = 500

var refusalPhrases = []string{
	"unable to assist",
	"unable to transcribe",
	"can't help",
	"cannot help",
	"i'm unable",
	"use ocr",
	"extract text",
	"provide the text",
}

// LooksLikeRefusal reports whether text reads like the service declining to
// transcribe the document rather than a transcription.
func LooksLikeRefusal(text string) bool {
	if utf8.RuneCountInString(text) >= RefusalMaxLength {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range refusalPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
