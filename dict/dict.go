// Package dict compiles word lists into packed automata and scans text for
// the compiled words.
//
// A word list is turned into a trie DFA over bytes. The weights of a word
// are attached to it as one of the packer's output kinds: a Moore weight on
// the word's final state, a Moore weight set, or a Mealy weight on the
// transition that completes the word. States are numbered in preorder, so
// every single-child chain packs into implicit records.
package dict

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/coregx/fsmpack/fsm"
	"github.com/coregx/fsmpack/pack"
)

// NoWeight marks an absent weight.
const NoWeight = fsm.NoOw

// Output selects how word weights are stored in the image.
type Output uint8

const (
	// NoOutput stores words only.
	NoOutput Output = iota
	// Moore stores the first weight of a word on its final state.
	Moore
	// MooreSets stores all weights of a word on its final state.
	MooreSets
	// Mealy stores the first weight of a word on its last transition.
	Mealy
)

// String returns the packing tool name of the output kind
func (o Output) String() string {
	switch o {
	case NoOutput:
		return "rs-dfa"
	case Moore:
		return "moore-dfa"
	case MooreSets:
		return "moore-multi-dfa"
	case Mealy:
		return "mealy-dfa"
	default:
		return fmt.Sprintf("Output(%d)", o)
	}
}

// ParseOutput parses an output kind name as printed by String.
func ParseOutput(name string) (Output, error) {
	for o := NoOutput; o <= Mealy; o++ {
		if o.String() == name {
			return o, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownOutput, name)
}

// Entry is one dictionary word.
type Entry struct {
	Word    string
	Weights []int
}

// Weight returns the first weight of e, or NoWeight.
func (e Entry) Weight() int {
	if len(e.Weights) == 0 {
		return NoWeight
	}
	return e.Weights[0]
}

// Read parses a word list: one word per line, optionally followed by a tab
// and whitespace-separated 32-bit integer weights. Blank lines and lines starting
// with '#' are skipped.
func Read(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" || text[0] == '#' {
			continue
		}
		word, weights, _ := strings.Cut(text, "\t")
		if word == "" {
			return nil, &LineError{Line: line, Err: ErrEmptyWord}
		}
		e := Entry{Word: word}
		for _, f := range strings.Fields(weights) {
			w, err := strconv.ParseInt(f, 10, 32)
			if err != nil {
				return nil, &LineError{Line: line, Err: fmt.Errorf("%w %q", ErrBadWeight, f)}
			}
			e.Weights = append(e.Weights, int(w))
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Trie is the trie automaton of a word list.
type Trie struct {
	Dfa *fsm.Dfa

	entries []Entry
	finals  []int // final state of entries[i]
	lasts   []int // state before the last byte of entries[i]
}

// node is a trie node under construction.
type node struct {
	next map[byte]*node
	id   int
}

// NewTrie builds the trie of entries.
func NewTrie(entries []Entry) (*Trie, error) {
	if len(entries) == 0 {
		return nil, ErrNoWords
	}
	root := &node{}
	count := 1
	for _, e := range entries {
		if e.Word == "" {
			return nil, ErrEmptyWord
		}
		n := root
		for i := 0; i < len(e.Word); i++ {
			c := e.Word[i]
			child := n.next[c]
			if child == nil {
				if n.next == nil {
					n.next = make(map[byte]*node)
				}
				child = &node{}
				n.next[c] = child
				count++
			}
			n = child
		}
	}

	dfa := fsm.NewDfa()
	dfa.SetMaxState(count - 1)
	dfa.SetMaxIw(0xff)
	if err := dfa.Create(); err != nil {
		return nil, err
	}

	// preorder numbering, children by byte
	var order []*node
	stack := []*node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n.id = len(order)
		order = append(order, n)
		keys := make([]byte, 0, len(n.next))
		for c := range n.next {
			keys = append(keys, c)
		}
		slices.Sort(keys)
		for i := len(keys) - 1; i >= 0; i-- {
			stack = append(stack, n.next[keys[i]])
		}
	}
	for _, n := range order {
		for c, child := range n.next {
			if err := dfa.SetTransition(n.id, int(c), child.id); err != nil {
				return nil, err
			}
		}
	}

	t := &Trie{Dfa: dfa, entries: entries}
	finals := make([]int, 0, len(entries))
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		state, last := root.id, root.id
		for i := 0; i < len(e.Word); i++ {
			last = state
			state = dfa.Dest(state, int(e.Word[i]))
		}
		if seen[state] {
			return nil, fmt.Errorf("%w %q", ErrDuplicate, e.Word)
		}
		seen[state] = true
		t.finals = append(t.finals, state)
		t.lasts = append(t.lasts, last)
		finals = append(finals, state)
	}
	if err := dfa.SetInitial(root.id); err != nil {
		return nil, err
	}
	if err := dfa.SetFinals(finals); err != nil {
		return nil, err
	}
	if err := dfa.Prepare(); err != nil {
		return nil, err
	}
	return t, nil
}

// Moore returns the first weight of every word as a state output.
func (t *Trie) Moore() *fsm.StateOw {
	ows := fsm.NewStateOw()
	for i, e := range t.entries {
		ows.SetOw(t.finals[i], e.Weight())
	}
	return ows
}

// MooreSets returns the weights of every word as a state output set.
func (t *Trie) MooreSets() *fsm.StateOws {
	ows := fsm.NewStateOws()
	for i, e := range t.entries {
		ows.SetOws(t.finals[i], e.Weights)
	}
	ows.Prepare()
	return ows
}

// Mealy returns the first weight of every word on its last transition.
func (t *Trie) Mealy() *fsm.Mealy {
	sigma := fsm.NewMealy()
	for i, e := range t.entries {
		if w := e.Weight(); w != NoWeight {
			sigma.SetOw(t.lasts[i], int(e.Word[len(e.Word)-1]), w)
		}
	}
	return sigma
}

// Compile packs the trie of entries into an image with weights stored as out.
func Compile(entries []Entry, cfg pack.Config, out Output) ([]byte, pack.Stats, error) {
	t, err := NewTrie(entries)
	if err != nil {
		return nil, pack.Stats{}, err
	}
	p := pack.New(cfg)
	p.SetDfa(t.Dfa)
	switch out {
	case Moore:
		p.SetState2Ow(t.Moore())
	case MooreSets:
		p.SetState2Ows(t.MooreSets())
	case Mealy:
		p.SetSigma(t.Mealy())
	}
	if err := p.Process(); err != nil {
		return nil, pack.Stats{}, err
	}
	return p.Image(), p.Stats(), nil
}
