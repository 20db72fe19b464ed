// Package tfidf implements a smoothed TF-IDF vectorizer over pre-normalized
// documents with unigram and bigram terms, document-frequency pruning and a
// vocabulary size cap.
package tfidf

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrNoTerms is returned when pruning leaves an empty vocabulary.
var ErrNoTerms = errors.New("no terms remain after pruning")

// Options controls vocabulary construction.
type Options struct {
	MaxFeatures int     `json:"max_features"` // 0 = unlimited
	MinDF       int     `json:"min_df"`       // absolute document count
	MaxDF       float64 `json:"max_df"`       // fraction of documents, (0,1]
	NgramMin    int     `json:"ngram_min"`
	NgramMax    int     `json:"ngram_max"`
}

// DefaultOptions returns max_features=1000, min_df=2, max_df=0.8, ngrams 1..2.
func DefaultOptions() Options {
	return Options{
		MaxFeatures: 1000,
		MinDF:       2,
		MaxDF:       0.8,
		NgramMin:    1,
		NgramMax:    2,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.MaxFeatures < 0 {
		return fmt.Errorf("max_features must be >= 0, got %d", o.MaxFeatures)
	}
	if o.MinDF < 1 {
		return fmt.Errorf("min_df must be >= 1, got %d", o.MinDF)
	}
	if o.MaxDF <= 0 || o.MaxDF > 1 {
		return fmt.Errorf("max_df must be in (0, 1], got %g", o.MaxDF)
	}
	if o.NgramMin < 1 || o.NgramMax < o.NgramMin {
		return fmt.Errorf("invalid ngram range (%d, %d)", o.NgramMin, o.NgramMax)
	}
	return nil
}

// Vectorizer maps documents onto a fixed, alphabetically ordered vocabulary.
// It is immutable after Fit.
type Vectorizer struct {
	opts  Options
	terms []string
	vocab map[string]int
	idf   []float64
}

// Fit learns the vocabulary and IDF weights from docs and returns the
// L2-normalized weight matrix of the same docs. Each doc is a sequence of
// normalized tokens separated by single spaces.
func Fit(docs []string, opts Options) (*Vectorizer, *Matrix, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	n := len(docs)
	if n == 0 {
		return nil, nil, fmt.Errorf("%w: empty corpus", ErrNoTerms)
	}

	counts := make([]map[string]int, n)
	df := make(map[string]int)
	tf := make(map[string]int)
	for i, d := range docs {
		c := countTerms(strings.Fields(d), opts.NgramMin, opts.NgramMax)
		counts[i] = c
		for term, k := range c {
			df[term]++
			tf[term] += k
		}
	}
	if len(df) == 0 {
		return nil, nil, fmt.Errorf("%w: documents contain only stopwords", ErrNoTerms)
	}

	maxDocCount := opts.MaxDF * float64(n)
	if maxDocCount < float64(opts.MinDF) {
		return nil, nil, fmt.Errorf("%w: max_df corresponds to fewer documents than min_df", ErrNoTerms)
	}

	terms := make([]string, 0, len(df))
	for term, d := range df {
		if d >= opts.MinDF && float64(d) <= maxDocCount {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)

	if opts.MaxFeatures > 0 && len(terms) > opts.MaxFeatures {
		// Highest corpus frequency first; alphabetical order breaks ties.
		sort.SliceStable(terms, func(a, b int) bool { return tf[terms[a]] > tf[terms[b]] })
		terms = terms[:opts.MaxFeatures]
		sort.Strings(terms)
	}
	if len(terms) == 0 {
		return nil, nil, fmt.Errorf("%w: try a lower min_df or a higher max_df", ErrNoTerms)
	}

	idf := make([]float64, len(terms))
	for j, term := range terms {
		idf[j] = smoothIDF(n, df[term])
	}

	v := newVectorizer(opts, terms, idf)

	b := newMatrixBuilder(n, len(terms))
	for _, c := range counts {
		b.add(v.weigh(c))
	}
	return v, b.build(), nil
}

func newVectorizer(opts Options, terms []string, idf []float64) *Vectorizer {
	vocab := make(map[string]int, len(terms))
	for j, t := range terms {
		vocab[t] = j
	}
	return &Vectorizer{opts: opts, terms: terms, vocab: vocab, idf: idf}
}

// smoothIDF is ln((1+n)/(1+df)) + 1.
func smoothIDF(n, df int) float64 {
	return math.Log(float64(1+n)/float64(1+df)) + 1
}

// Transform projects a normalized document onto the vocabulary.
// Unknown terms are ignored; the result is L2-normalized or zero.
func (v *Vectorizer) Transform(doc string) Vector {
	return v.weigh(countTerms(strings.Fields(doc), v.opts.NgramMin, v.opts.NgramMax))
}

// TransformAll builds a weight matrix for docs using the fitted vocabulary.
func (v *Vectorizer) TransformAll(docs []string) *Matrix {
	b := newMatrixBuilder(len(docs), len(v.terms))
	for _, d := range docs {
		b.add(v.Transform(d))
	}
	return b.build()
}

func (v *Vectorizer) weigh(counts map[string]int) Vector {
	var vec Vector
	for term, k := range counts {
		j, ok := v.vocab[term]
		if !ok {
			continue
		}
		vec.Indices = append(vec.Indices, j)
		vec.Values = append(vec.Values, float64(k))
	}
	sort.Sort(byIndex(vec))
	for i, j := range vec.Indices {
		vec.Values[i] *= v.idf[j]
	}
	normalize(vec.Values)
	return vec
}

// Terms returns the vocabulary in column order.
func (v *Vectorizer) Terms() []string { return v.terms }

// Size returns the vocabulary size.
func (v *Vectorizer) Size() int { return len(v.terms) }

// IDF returns the inverse document frequency per column.
func (v *Vectorizer) IDF() []float64 { return v.idf }

// Options returns the options used to fit the vectorizer.
func (v *Vectorizer) Options() Options { return v.opts }

// Index returns the column of term.
func (v *Vectorizer) Index(term string) (int, bool) {
	j, ok := v.vocab[term]
	return j, ok
}

// countTerms counts every n-gram for n in [minN, maxN]. N-grams are tokens
// joined by a single space.
func countTerms(tokens []string, minN, maxN int) map[string]int {
	counts := make(map[string]int, len(tokens)*(maxN-minN+1))
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			var term string
			if n == 1 {
				term = tokens[i]
			} else {
				term = strings.Join(tokens[i:i+n], " ")
			}
			counts[term]++
		}
	}
	return counts
}

type byIndex Vector

func (b byIndex) Len() int           { return len(b.Indices) }
func (b byIndex) Less(i, j int) bool { return b.Indices[i] < b.Indices[j] }
func (b byIndex) Swap(i, j int) {
	b.Indices[i], b.Indices[j] = b.Indices[j], b.Indices[i]
	b.Values[i], b.Values[j] = b.Values[j], b.Values[i]
}
