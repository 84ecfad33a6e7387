package text

import (
	"strings"

	porterstemmer "github.com/kiteco/go-porterstemmer"
)

// Lower converts all tokens to lower case.
func Lower(ts Tokens) Tokens {
	for i, t := range ts {
		ts[i] = strings.ToLower(t)
	}
	return ts
}

// Stem replaces each token with its Porter stem.
func Stem(ts Tokens) Tokens {
	for i, t := range ts {
		ts[i] = porterstemmer.StemString(t)
	}
	return ts
}

// RemoveStopWords removes filler words that carry no signal for
// distinguishing intents.
func RemoveStopWords(ts Tokens) Tokens {
	var filtered Tokens
	for _, t := range ts {
		if !skip(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Uniquify returns the set of unique tokens in a token stream.
func Uniquify(ts Tokens) Tokens {
	var unique Tokens
	seen := make(map[string]struct{})
	for _, t := range ts {
		if _, exists := seen[t]; !exists {
			unique = append(unique, t)
			seen[t] = struct{}{}
		}
	}
	return unique
}

// skip determines whether a word should be removed (or skipped).
func skip(w string) bool {
	switch w {
	case "a", "an", "the", "is", "are", "am", "do", "does", "of", "to", "in", "for", "and", "or", "please":
		return true
	}
	return false
}
