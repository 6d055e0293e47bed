package main

import (
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"

	"github.com/coregx/fsmpack/dict"
	"github.com/coregx/fsmpack/image"
	"github.com/coregx/fsmpack/pack"
)

// packFlags holds the packer options of the pack subcommand.
type packFlags struct {
	typ       string
	dstSize   int
	remapIws  bool
	useIwIA   bool
	useRanges bool
}

func (f *packFlags) config() pack.Config {
	return pack.DefaultConfig().
		WithDstSize(f.dstSize).
		WithRemapIws(f.remapIws).
		WithIwIA(f.useIwIA).
		WithRanges(f.useRanges)
}

func cmdPack(e *env, args []string) error {
	fs, verbose := newFlagSet(e, "pack")
	var f packFlags
	fs.StringVar(&f.typ, "type", dict.Moore.String(), "Output kind: rs-dfa, moore-dfa, moore-multi-dfa or mealy-dfa")
	fs.IntVar(&f.dstSize, "dst-size", pack.DefaultConfig().DstSize, "Destination field width in bytes (1-4)")
	fs.BoolVar(&f.remapIws, "remap-iws", false, "Merge equivalent symbols and renumber by frequency")
	fs.BoolVar(&f.useIwIA, "use-iwia", false, "Allow indexed-by-symbol records")
	fs.BoolVar(&f.useRanges, "use-ranges", false, "Allow range records")
	out := fs.String("o", "", "Output image file (required)")
	verify := fs.Bool("verify", false, "Check every word against the packed image")
	if err := parse(e, fs, verbose, args); err != nil {
		return err
	}
	if err := needArgs(fs, 1); err != nil {
		return err
	}
	if *out == "" {
		fmt.Fprintln(fs.Output(), "pack: -o is required")
		return errUsage
	}
	kind, err := dict.ParseOutput(f.typ)
	if err != nil {
		return err
	}

	entries, err := readEntries(fs.Arg(0))
	if err != nil {
		return err
	}
	img, stats, err := dict.Compile(entries, f.config(), kind)
	if err != nil {
		return fmt.Errorf("pack %s: %w", fs.Arg(0), err)
	}
	if *verify {
		if err := verifyImage(img, entries, kind); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
	}
	if err := os.WriteFile(*out, img, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	e.log.Info("packed",
		zap.String("output", *out),
		zap.Int("words", len(entries)),
		zap.Int("states", stats.States),
		zap.Int("size", stats.ImageSize),
	)
	fmt.Fprintf(e.stdout, "%s: %d words, %d states, %d bytes\n", *out, len(entries), stats.States, stats.ImageSize)
	return nil
}

func readEntries(path string) ([]dict.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entries, err := dict.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// verifyImage checks that img holds exactly entries with their weights.
func verifyImage(img []byte, entries []dict.Entry, kind dict.Output) error {
	m, err := image.Parse(img)
	if err != nil {
		return err
	}
	s, err := dict.NewScanner(m, kind)
	if err != nil {
		return err
	}
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.Word
	}
	slices.Sort(words)
	if !slices.Equal(words, s.Words()) {
		return fmt.Errorf("image holds %d words, list has %d", len(s.Words()), len(words))
	}
	for _, e := range entries {
		got, ok := s.Lookup(e.Word)
		if !ok {
			return fmt.Errorf("word %q missing", e.Word)
		}
		if want := expectedWeights(e, kind); !slices.Equal(got, want) {
			return fmt.Errorf("word %q has weights %v, want %v", e.Word, got, want)
		}
	}
	return nil
}

func expectedWeights(e dict.Entry, kind dict.Output) []int {
	switch kind {
	case dict.Moore, dict.Mealy:
		if w := e.Weight(); w != dict.NoWeight {
			return []int{w}
		}
	case dict.MooreSets:
		ws := slices.Clone(e.Weights)
		slices.Sort(ws)
		return slices.Compact(ws)
	}
	return nil
}
