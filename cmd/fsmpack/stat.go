package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/coregx/fsmpack/image"
	"github.com/coregx/fsmpack/internal/codec"
	"github.com/coregx/fsmpack/internal/conv"
	"github.com/coregx/fsmpack/internal/layout"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

func cmdStat(e *env, args []string) error {
	fs, verbose := newFlagSet(e, "stat")
	hist := fs.String("hist", "", "Write the record size histogram, prefix coded, to this file")
	if err := parse(e, fs, verbose, args); err != nil {
		return err
	}
	if err := needArgs(fs, 1); err != nil {
		return err
	}
	m, err := image.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer m.Close()

	writeStats(e.stdout, fs.Arg(0), m.Stats(), isTerminal(e.stdout))
	if *hist != "" {
		if err := os.WriteFile(*hist, encodeHistogram(m.SizeHistogram()), 0o644); err != nil {
			return fmt.Errorf("write histogram: %w", err)
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeStats(w io.Writer, name string, s image.Stats, styled bool) {
	rows := [][2]string{
		{"size", fmt.Sprintf("%d bytes", s.Size)},
		{"states area", fmt.Sprintf("%d bytes", s.StatesSize)},
		{"ows table", fmt.Sprintf("%d bytes", s.OwsSize)},
		{"dst size", fmt.Sprint(s.DstSize)},
		{"alphabet", fmt.Sprintf("%d symbols", s.Alphabet)},
		{"remapped", fmt.Sprint(s.Remapped)},
		{"records", fmt.Sprint(s.States)},
		{"reachable", fmt.Sprint(s.Reachable)},
		{"finals", fmt.Sprint(s.Finals)},
		{"with output", fmt.Sprint(s.WithOw)},
	}
	for _, t := range []layout.TrType{layout.TrsNone, layout.TrsImpl, layout.TrsPara, layout.TrsIwIA, layout.TrsRange} {
		rows = append(rows, [2]string{t.String(), fmt.Sprint(s.ByType[t])})
	}

	if !styled {
		fmt.Fprintln(w, name)
		for _, r := range rows {
			fmt.Fprintf(w, "  %-14s %s\n", r[0], r[1])
		}
		return
	}
	fmt.Fprintln(w, headerStyle.Render(name))
	for _, r := range rows {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r[0]), valueStyle.Render(r[1])))
	}
}

// encodeHistogram writes <pairs> then <size, count> pairs in size order.
func encodeHistogram(h map[int]int) []byte {
	sizes := make([]int, 0, len(h))
	for size := range h {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)
	buf := codec.AppendPrefix(nil, conv.IntToUint32(len(sizes)))
	for _, size := range sizes {
		buf = codec.AppendPrefix(buf, conv.IntToUint32(size))
		buf = codec.AppendPrefix(buf, conv.IntToUint32(h[size]))
	}
	return buf
}
