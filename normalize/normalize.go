// Package normalize prepares raw text for repeat indexing: UTF-8 validation,
// case folding, NFC normalization and word tokenization into integer symbols.
package normalize

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidUTF8 = errors.New("normalize: invalid UTF-8 encoding in input")
)

type Normalizer struct {
	caseSensitive bool
	normalize     bool
}

// New returns a case-insensitive Normalizer applying NFC.
func New() *Normalizer {
	return &Normalizer{
		caseSensitive: false,
		normalize:     true,
	}
}

// Keeps letter case.
func (n *Normalizer) CaseSensitive() *Normalizer {
	n.caseSensitive = true
	return n
}

// Skips NFC normalization.
func (n *Normalizer) SkipNormalization() *Normalizer {
	n.normalize = false
	return n
}

func (n *Normalizer) apply(s string) string {
	if !n.caseSensitive {
		s = cases.Fold().String(s)
	}
	if n.normalize {
		s = norm.NFC.String(s)
	}
	return s
}

func (n *Normalizer) String(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", ErrInvalidUTF8
	}
	return n.apply(s), nil
}

// Bytes returns the normalized text as a byte alphabet.
func (n *Normalizer) Bytes(b []byte) ([]byte, error) {
	if !utf8.Valid(b) {
		return nil, ErrInvalidUTF8
	}
	return []byte(n.apply(string(b))), nil
}

// Runes returns the normalized text as a code point alphabet.
func (n *Normalizer) Runes(s string) ([]rune, error) {
	s, err := n.String(s)
	if err != nil {
		return nil, err
	}
	return []rune(s), nil
}

// Vocabulary maps normalized words to dense symbol IDs so that word-level
// repeats can be found with the same index as characters.
type Vocabulary struct {
	norm  *Normalizer
	ids   map[string]int32
	words []string
}

func NewVocabulary(n *Normalizer) *Vocabulary {
	if n == nil {
		n = New()
	}
	return &Vocabulary{norm: n, ids: make(map[string]int32)}
}

// Tokenize splits s into words (runs of letters and digits) and returns their
// IDs, assigning new IDs in order of first appearance.
func (v *Vocabulary) Tokenize(s string) ([]int32, error) {
	s, err := v.norm.String(s)
	if err != nil {
		return nil, err
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	ids := make([]int32, len(fields))
	for i, w := range fields {
		id, ok := v.ids[w]
		if !ok {
			id = int32(len(v.words))
			v.ids[w] = id
			v.words = append(v.words, w)
		}
		ids[i] = id
	}
	return ids, nil
}

func (v *Vocabulary) Len() int { return len(v.words) }

func (v *Vocabulary) Word(id int32) string { return v.words[id] }

// Join renders a token sequence back into space-separated words.
func (v *Vocabulary) Join(ids []int32) string {
	words := make([]string, len(ids))
	for i, id := range ids {
		words[i] = v.words[id]
	}
	return strings.Join(words, " ")
}
