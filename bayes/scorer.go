// Package bayes implements a naive-bayes intent scorer over hashed unigram
// counts. It needs no gradient training, which makes it a quick sanity floor
// to report next to the network's accuracy: if the network cannot beat
// counting words, something is wrong with the data or the training run.
package bayes

import (
	"math"

	spooky "github.com/dgryski/go-spooky"
	"github.com/loquilabs/loqui/errors"
	"github.com/loquilabs/loqui/text"
)

// Tokenizer splits a phrase into raw tokens.
type Tokenizer func(string) text.Tokens

const (
	// Tokens are hashed into a fixed-length bucket vector, so models trained
	// on different datasets stay comparable. Collisions are accepted.
	wordVecLen = 1001
	alpha      = 0.01
)

// Scorer ranks intent tags by p(tag|phrase) ~ p(phrase|tag) * p(tag).
type Scorer struct {
	Priors    map[string]float64 // log p(tag)
	Models    map[string]*tagModel
	tokenizer Tokenizer
}

// TrainScorer builds a scorer from parallel phrase/tag slices. Phrases are
// tokenized and then lowercased, stop-word filtered and stemmed before
// counting.
func TrainScorer(texts, tags []string, tokenizer Tokenizer) (*Scorer, error) {
	if len(texts) != len(tags) {
		return nil, errors.New("got %d texts for %d tags", len(texts), len(tags))
	}
	if len(texts) == 0 {
		return nil, errors.New("no training texts")
	}

	s := &Scorer{
		Priors:    make(map[string]float64),
		Models:    make(map[string]*tagModel),
		tokenizer: tokenizer,
	}
	for i, txt := range texts {
		tag := tags[i]
		s.Priors[tag]++
		m, exists := s.Models[tag]
		if !exists {
			m = &tagModel{}
			s.Models[tag] = m
		}
		m.addData(s.process(txt))
	}

	var sum float64
	for _, c := range s.Priors {
		sum += c
	}
	logSum := math.Log(sum)
	for tag, m := range s.Models {
		s.Priors[tag] = math.Log(s.Priors[tag]) - logSum
		m.train()
	}
	return s, nil
}

func (s *Scorer) process(phrase string) text.Tokens {
	return text.ClassifierProcessor.Apply(s.tokenizer(phrase))
}

// Posterior returns p(tag|tokens) for every tag, normalized to sum to 1.
// Tokens are counted as-is; use Classify for raw phrases.
func (s *Scorer) Posterior(tokens text.Tokens) map[string]float64 {
	var all []float64
	scores := make(map[string]float64, len(s.Priors))
	for tag, prior := range s.Priors {
		scores[tag] = prior + s.Models[tag].logLikelihood(tokens)
		all = append(all, scores[tag])
	}
	logSum := logSumExp(all)
	for tag, score := range scores {
		scores[tag] = math.Exp(score - logSum)
	}
	return scores
}

// Classify processes a raw phrase and returns the most probable tag with its
// posterior probability. Ties break toward the lexicographically smaller tag
// so the result is deterministic.
func (s *Scorer) Classify(phrase string) (string, float64) {
	posterior := s.Posterior(s.process(phrase))
	var best string
	score := math.Inf(-1)
	for tag, p := range posterior {
		if p > score || (p == score && tag < best) {
			best = tag
			score = p
		}
	}
	return best, score
}

// tagModel is a unigram model over spooky-hashed token buckets.
type tagModel struct {
	Buckets [wordVecLen]float64
}

func (m *tagModel) addData(tokens text.Tokens) {
	for _, t := range tokens {
		m.Buckets[spooky.Hash64([]byte(t))%wordVecLen]++
	}
}

// train smooths the counts and converts them to log probabilities.
func (m *tagModel) train() {
	for i := range m.Buckets {
		m.Buckets[i] += alpha
	}
	var total float64
	for _, c := range m.Buckets {
		total += c
	}
	logTotal := math.Log(total)
	for i := range m.Buckets {
		m.Buckets[i] = math.Log(m.Buckets[i]) - logTotal
	}
}

func (m *tagModel) logLikelihood(tokens text.Tokens) float64 {
	var score float64
	for _, t := range tokens {
		score += m.Buckets[spooky.Hash64([]byte(t))%wordVecLen]
	}
	return score
}

func logSumExp(logs []float64) float64 {
	max := math.Inf(-1)
	for _, l := range logs {
		if l > max {
			max = l
		}
	}
	var sum float64
	for _, l := range logs {
		sum += math.Exp(l - max)
	}
	return max + math.Log(sum)
}
