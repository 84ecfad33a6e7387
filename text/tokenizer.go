// Package text tokenizes user phrasings and applies token filter chains.
package text

import "strings"

// Tokens represents a slice of string tokens.
type Tokens []string

// TokenFunc transforms a token stream into another token stream.
type TokenFunc func(Tokens) Tokens

// Processor consists of a list of token processing rules.
type Processor struct {
	filters []TokenFunc
}

// NewProcessor takes a list of TokenFuncs to instantiate a Processor.
func NewProcessor(funcs ...TokenFunc) *Processor {
	p := &Processor{}
	for _, fn := range funcs {
		p.filters = append(p.filters, fn)
	}
	return p
}

// Apply applies the processor's TokenFuncs in order to the input tokens.
func (p *Processor) Apply(ts Tokens) Tokens {
	for _, fn := range p.filters {
		ts = fn(ts)
	}
	return ts
}

// ClassifierProcessor is the chain used when scoring phrasings against
// classes: lowercase, drop stop words, stem.
var ClassifierProcessor = NewProcessor(Lower, RemoveStopWords, Stem)

// stripped is the set of characters replaced by spaces before splitting.
// Apostrophes survive so contractions stay intact ("what's" -> "what's").
const stripped = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~\t\n\r"

// Tokenize splits a phrase into word tokens. Punctuation (except apostrophes)
// is treated as a separator, as is any run of whitespace. Case is preserved;
// apply the Lower filter to normalize it.
func Tokenize(s string) Tokens {
	mapped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(stripped, r) {
			return ' '
		}
		return r
	}, s)

	fields := strings.Fields(mapped)
	if len(fields) == 0 {
		return nil
	}
	return Tokens(fields)
}
