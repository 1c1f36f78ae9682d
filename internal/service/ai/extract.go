package ai

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// UnknownLabel fills the answer list when the model text has no ranked lines.
	UnknownLabel = "Unknown"
	// FallbackSize is the number of placeholder answers.
	FallbackSize = 5

	maxConfidence = 100
)

// resultPattern matches one ranked line such as "1. Dog - 87%". Labels and
// separators are matched over Unicode letters, digits and spaces, not ASCII only.
var resultPattern = regexp.MustCompile(`\p{Nd}+\.[\s\p{Zs}]+([\p{L}\p{N}_]+)[\s\p{Zs}]+-[\s\p{Zs}]+(\d+)%`)

// Similarity is one ranked answer of the model.
type Similarity struct {
	Label      string `json:"label"`
	Confidence int    `json:"confidence"`
}

// ExtractResults parses ranked "<N>. <Label> - <Percent>%" lines from model
// text in order of appearance. The list number is neither validated nor used
// for ordering and more than five matches are all returned. Text without any
// match yields five Unknown answers at 0%.
func ExtractResults(text string) []Similarity {
	matches := resultPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return fallbackResults()
	}

	results := make([]Similarity, 0, len(matches))
	for _, m := range matches {
		results = append(results, Similarity{
			Label:      m[1],
			Confidence: parseConfidence(m[2]),
		})
	}
	return results
}

// parseConfidence reads plain base-10 digits, capping the value at 100%.
func parseConfidence(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil || n > maxConfidence {
		// Only overflow can fail here; the pattern guarantees digits.
		return maxConfidence
	}
	return n
}

func fallbackResults() []Similarity {
	results := make([]Similarity, FallbackSize)
	for i := range results {
		results[i] = Similarity{Label: UnknownLabel, Confidence: 0}
	}
	return results
}

var animalEmojis = map[string]string{
	"dog": "🐕", "bird": "🐦", "cat": "🐈", "elephant": "🐘", "fish": "🐟",
	"fox": "🦊", "horse": "🐎", "lion": "🦁", "monkey": "🐒", "mouse": "🐁",
	"owl": "🦉", "panda": "🐼", "rabbit": "🐇", "snake": "🐍", "tiger": "🐅",
	"unicorn": "🦄", "dragon": "🐉", "swan": "🦢", "cow": "🐄", "bear": "🐻",
}

// Emoji returns the glyph of a known animal, or "" for anything else.
func Emoji(label string) string {
	return animalEmojis[strings.ToLower(label)]
}
