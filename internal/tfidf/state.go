package tfidf

import (
	"errors"
	"fmt"
	"math"
)

// State is the serializable form of a fitted Vectorizer.
type State struct {
	Options Options   `json:"options"`
	Terms   []string  `json:"terms"`
	IDF     []float64 `json:"idf"`
}

// State returns the serializable form of the vectorizer.
func (v *Vectorizer) State() State {
	return State{Options: v.opts, Terms: v.terms, IDF: v.idf}
}

// FromState validates and rebuilds a Vectorizer.
func FromState(s State) (*Vectorizer, error) {
	if err := s.Options.Validate(); err != nil {
		return nil, fmt.Errorf("vectorizer options: %w", err)
	}
	if len(s.Terms) == 0 {
		return nil, errors.New("vectorizer: empty vocabulary")
	}
	if len(s.Terms) != len(s.IDF) {
		return nil, fmt.Errorf("vectorizer: %d terms but %d idf weights", len(s.Terms), len(s.IDF))
	}
	for i := range s.Terms {
		if i > 0 && s.Terms[i-1] >= s.Terms[i] {
			return nil, fmt.Errorf("vectorizer: terms not strictly sorted at %d", i)
		}
		if s.IDF[i] < 1 || math.IsNaN(s.IDF[i]) || math.IsInf(s.IDF[i], 0) {
			return nil, fmt.Errorf("vectorizer: invalid idf %g for %q", s.IDF[i], s.Terms[i])
		}
	}
	return newVectorizer(s.Options, s.Terms, s.IDF), nil
}
