package mnemonic

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39/wordlists"
)

var (
	// numberedListRegex matches numbered list prefixes like "1." "2)" "3:"
	numberedListRegex = regexp.MustCompile(`(?m)^\s*\d+[\.\)\:]\s*`)

	// bulletListRegex matches bullet prefixes like "- " "* " "• "
	bulletListRegex = regexp.MustCompile(`(?m)^\s*[-*•]\s*`)

	// inlineNumberRegex matches "1." style prefixes inside a single line
	inlineNumberRegex = regexp.MustCompile(`(^|\s)\d+[\.\)\:]`)
)

// Normalize turns pasted phrase text into words: lowercase, list
// prefixes and commas removed, split on any whitespace.
func Normalize(input string) []string {
	input = strings.ToLower(input)
	input = numberedListRegex.ReplaceAllString(input, " ")
	input = bulletListRegex.ReplaceAllString(input, " ")
	input = inlineNumberRegex.ReplaceAllString(input, " ")
	input = strings.ReplaceAll(input, ",", " ")
	return strings.Fields(input)
}

// MaxTypoDistance is the maximum Levenshtein distance for a suggestion.
const MaxTypoDistance = 2

// TypoInfo describes a word outside the word list.
type TypoInfo struct {
	// Index is the 0-based word position.
	Index int
	// Word is the original word.
	Word string
	// Suggestion is the closest list word, empty if none is close enough.
	Suggestion string
	// Distance is the Levenshtein distance to Suggestion.
	Distance int
}

// SuggestWord returns the closest list word within MaxTypoDistance, or "".
func SuggestWord(input string) string {
	input = strings.ToLower(input)
	if _, ok := wordIndex[input]; ok {
		return input
	}

	minDist := math.MaxInt
	var suggestion string
	for _, word := range wordlists.English {
		dist := levenshtein.ComputeDistance(input, word)
		if dist < minDist {
			minDist = dist
			suggestion = word
		}
	}

	if minDist <= MaxTypoDistance {
		return suggestion
	}
	return ""
}

// DetectTypos reports every word that is not in the word list.
func DetectTypos(words []string) []TypoInfo {
	var typos []TypoInfo
	for i, word := range words {
		if IsValidWord(word) {
			continue
		}
		suggestion := SuggestWord(word)
		distance := 0
		if suggestion != "" {
			distance = levenshtein.ComputeDistance(word, suggestion)
		}
		typos = append(typos, TypoInfo{
			Index:      i,
			Word:       word,
			Suggestion: suggestion,
			Distance:   distance,
		})
	}
	return typos
}

// FormatTypoSuggestions renders typos one per line, 1-indexed.
func FormatTypoSuggestions(typos []TypoInfo) string {
	var b strings.Builder
	for i, typo := range typos {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Word ")
		b.WriteString(strconv.Itoa(typo.Index + 1))
		b.WriteString(": '")
		b.WriteString(typo.Word)
		b.WriteByte('\'')
		if typo.Suggestion != "" {
			b.WriteString(" - did you mean '")
			b.WriteString(typo.Suggestion)
			b.WriteString("'?")
		} else {
			b.WriteString(" is not a valid mnemonic word")
		}
	}
	return b.String()
}
