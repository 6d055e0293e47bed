package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/coregx/fsmpack/dict"
	"github.com/coregx/fsmpack/image"
)

func cmdInspect(e *env, args []string) error {
	fs, verbose := newFlagSet(e, "inspect")
	interactive := fs.Bool("i", false, "Interactive mode with TUI")
	typ := fs.String("type", dict.Moore.String(), "Output kind the image was packed with")
	if err := parse(e, fs, verbose, args); err != nil {
		return err
	}
	if err := needArgs(fs, 1); err != nil {
		return err
	}
	kind, err := dict.ParseOutput(*typ)
	if err != nil {
		return err
	}
	m, err := image.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer m.Close()

	if *interactive {
		p := tea.NewProgram(newInspectModel(fs.Arg(0), m, kind), tea.WithAltScreen())
		_, err := p.Run()
		return err
	}
	dumpRecords(e.stdout, m)
	return nil
}

// dumpRecords lists every record with its arcs.
func dumpRecords(w io.Writer, m *image.Image) {
	for _, state := range m.States() {
		r, _ := m.Record(state)
		final := ""
		if r.Final {
			final = " final"
		}
		ow := ""
		if o := m.Ow(state); o != image.NoOw {
			ow = fmt.Sprintf(" ow=%d", o)
		}
		fmt.Fprintf(w, "%d: %s size=%d%s%s\n", state, r.Type, r.Size, final, ow)
		for _, a := range m.Arcs(state) {
			fmt.Fprintf(w, "  %s -> %s\n", formatSymbol(a.Iw), formatDst(a.Dst))
		}
	}
}

func formatSymbol(iw int) string {
	if iw >= 0x21 && iw < 0x7f {
		return strconv.QuoteRune(rune(iw))
	}
	return fmt.Sprintf("0x%02x", iw)
}

func formatDst(dst int) string {
	switch dst {
	case image.DeadState:
		return "dead"
	case image.NoState:
		return "none"
	}
	return strconv.Itoa(dst)
}

// walk describes the states visited by text from the initial state.
type walk struct {
	states []int // states[i] is reached after text[:i]
	err    string
}

func walkText(m *image.Image, text string) walk {
	w := walk{states: []int{m.Initial()}}
	state := m.Initial()
	for i := 0; i < len(text); i++ {
		state = m.Dest(state, int(text[i]))
		if state < 0 {
			w.err = fmt.Sprintf("no transition on %s at byte %d (%s)", formatSymbol(int(text[i])), i, formatDst(state))
			return w
		}
		w.states = append(w.states, state)
	}
	return w
}

func (w walk) last() int { return w.states[len(w.states)-1] }

func describeArcs(m *image.Image, state, limit int) string {
	arcs := m.Arcs(state)
	var b strings.Builder
	for i, a := range arcs {
		if i == limit {
			fmt.Fprintf(&b, "  ... %d more\n", len(arcs)-limit)
			break
		}
		fmt.Fprintf(&b, "  %s -> %s\n", formatSymbol(a.Iw), formatDst(a.Dst))
	}
	return b.String()
}
