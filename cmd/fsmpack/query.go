package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/coregx/fsmpack/dict"
	"github.com/coregx/fsmpack/image"
)

// openScanner opens an image and its word scanner.
func openScanner(path, typ string) (*image.Image, *dict.Scanner, error) {
	kind, err := dict.ParseOutput(typ)
	if err != nil {
		return nil, nil, err
	}
	m, err := image.Open(path)
	if err != nil {
		return nil, nil, err
	}
	s, err := dict.NewScanner(m, kind)
	if err != nil {
		m.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, s, nil
}

func formatWeights(ws []int) string {
	if len(ws) == 0 {
		return "-"
	}
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = fmt.Sprint(w)
	}
	return strings.Join(parts, " ")
}

func cmdLookup(e *env, args []string) error {
	fs, verbose := newFlagSet(e, "lookup")
	typ := fs.String("type", dict.Moore.String(), "Output kind the image was packed with")
	if err := parse(e, fs, verbose, args); err != nil {
		return err
	}
	if err := needArgs(fs, 2); err != nil {
		return err
	}
	m, s, err := openScanner(fs.Arg(0), *typ)
	if err != nil {
		return err
	}
	defer m.Close()

	missing := 0
	for _, word := range fs.Args()[1:] {
		ws, ok := s.Lookup(word)
		if !ok {
			missing++
			fmt.Fprintf(e.stdout, "%s\tnot found\n", word)
			continue
		}
		fmt.Fprintf(e.stdout, "%s\t%s\n", word, formatWeights(ws))
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d words not found", missing, fs.NArg()-1)
	}
	return nil
}

func cmdScan(e *env, args []string) error {
	fs, verbose := newFlagSet(e, "scan")
	typ := fs.String("type", dict.Moore.String(), "Output kind the image was packed with")
	longest := fs.Bool("longest", false, "Report only the longest non-overlapping matches")
	if err := parse(e, fs, verbose, args); err != nil {
		return err
	}
	if err := needArgs(fs, 1); err != nil {
		return err
	}
	m, s, err := openScanner(fs.Arg(0), *typ)
	if err != nil {
		return err
	}
	defer m.Close()

	var text []byte
	if fs.NArg() > 1 && fs.Arg(1) != "-" {
		text, err = os.ReadFile(fs.Arg(1))
	} else {
		text, err = io.ReadAll(e.stdin)
	}
	if err != nil {
		return fmt.Errorf("read text: %w", err)
	}

	matches := s.Scan(text)
	if *longest {
		matches = s.Longest(text)
	}
	for _, mt := range matches {
		fmt.Fprintf(e.stdout, "%d\t%d\t%s\t%s\n", mt.Start, mt.End, text[mt.Start:mt.End], formatWeights(mt.Weights))
	}
	e.log.Debug("scanned", zap.Int("bytes", len(text)), zap.Int("matches", len(matches)))
	return nil
}
