package dict

import (
	"slices"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/fsmpack/image"
)

// Match is a dictionary word found in text.
type Match struct {
	Start   int
	End     int
	Weights []int
}

// Scanner finds dictionary words of a packed image in text. Candidate
// positions come from an Aho-Corasick automaton over the image's words;
// every candidate is confirmed and weighted by walking the image.
//
// A Scanner is safe for concurrent use.
type Scanner struct {
	img   *image.Image
	out   Output
	ac    *ahocorasick.Automaton
	words []string
}

// NewScanner enumerates the words of img and builds the prefilter. img must
// be a finite byte automaton such as one built by Compile; out tells how its
// weights are stored.
func NewScanner(img *image.Image, out Output) (*Scanner, error) {
	words, err := Words(img)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	builder := ahocorasick.NewBuilder()
	for _, w := range words {
		builder.AddPattern([]byte(w))
	}
	ac, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Scanner{img: img, out: out, ac: ac, words: words}, nil
}

// Words returns every word accepted by img in lexicographic byte order.
func Words(img *image.Image) ([]string, error) {
	var words []string
	onPath := make(map[int]bool)
	var prefix []byte

	var walk func(state int) error
	walk = func(state int) error {
		if onPath[state] {
			return ErrCyclic
		}
		onPath[state] = true
		defer delete(onPath, state)

		if img.IsFinal(state) {
			words = append(words, string(prefix))
		}
		for _, a := range img.Arcs(state) {
			if a.Dst < 0 {
				continue
			}
			prefix = append(prefix, byte(a.Iw))
			if err := walk(a.Dst); err != nil {
				return err
			}
			prefix = prefix[:len(prefix)-1]
		}
		return nil
	}
	if err := walk(img.Initial()); err != nil {
		return nil, err
	}
	return words, nil
}

// Words returns the dictionary words.
func (s *Scanner) Words() []string { return s.words }

// Lookup returns the weights of word and whether it is in the dictionary.
func (s *Scanner) Lookup(word string) ([]int, bool) {
	state := s.img.Initial()
	prev, iw := state, -1
	for i := 0; i < len(word); i++ {
		prev, iw = state, int(word[i])
		state = s.img.Dest(state, iw)
		if state < 0 {
			return nil, false
		}
	}
	if !s.img.IsFinal(state) {
		return nil, false
	}
	return s.weights(prev, state, iw), true
}

// weights returns the weights of the word ending in state, reached from
// prev on iw.
func (s *Scanner) weights(prev, state, iw int) []int {
	switch s.out {
	case Moore:
		if ow := s.img.Ow(state); ow != NoWeight {
			return []int{ow}
		}
	case MooreSets:
		return s.img.Ows(nil, state)
	case Mealy:
		if ow := s.img.MealyOw(prev, iw); ow != NoWeight {
			return []int{ow}
		}
	}
	return nil
}

// Contains reports whether text contains any dictionary word.
func (s *Scanner) Contains(text []byte) bool {
	return s.ac.IsMatch(text)
}

// Scan returns every occurrence of every dictionary word in text, ordered
// by start and then by end. Occurrences may overlap.
func (s *Scanner) Scan(text []byte) []Match {
	var matches []Match
	for at := 0; at < len(text); {
		m := s.ac.Find(text, at)
		if m == nil {
			break
		}
		matches = s.confirm(matches, text, m.Start)
		at = m.Start + 1
	}
	return matches
}

// confirm appends every word starting at start.
func (s *Scanner) confirm(matches []Match, text []byte, start int) []Match {
	state := s.img.Initial()
	for i := start; i < len(text); i++ {
		prev := state
		state = s.img.Dest(state, int(text[i]))
		if state < 0 {
			break
		}
		if s.img.IsFinal(state) {
			matches = append(matches, Match{Start: start, End: i + 1, Weights: s.weights(prev, state, int(text[i]))})
		}
	}
	return matches
}

// Longest returns the longest non-overlapping matches, scanning left to right.
func (s *Scanner) Longest(text []byte) []Match {
	all := s.Scan(text)
	var out []Match
	end := 0
	for i := 0; i < len(all); {
		j := i
		for j+1 < len(all) && all[j+1].Start == all[i].Start {
			j++
		}
		if all[j].Start >= end {
			out = append(out, all[j])
			end = all[j].End
		}
		i = j + 1
	}
	return slices.Clip(out)
}
