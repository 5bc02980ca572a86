// Command rationl searches, tests and rewrites text with a regular
// expression compiled to a finite automaton, or prints the automaton.
//
// Usage:
//
//	rationl [-mode search|match|replace|dot|fixture] [-o] [-replace text]
//	        [-config file.yaml] [-stats] pattern [file ...]
//
// With no files, input is read from standard input. Files whose name ends
// in .zst are decompressed with zstd.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/coregx/rationl"
	"github.com/coregx/rationl/automaton"
)

var (
	mode       = flag.String("mode", "search", "one of search, match, replace, dot, fixture")
	onlyMatch  = flag.Bool("o", false, "search: print only the matched parts of lines")
	replText   = flag.String("replace", "", "replace: replacement text (literal)")
	configFile = flag.String("config", "", "YAML or JSON engine configuration")
	showStats  = flag.Bool("stats", false, "print search statistics to stderr")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] pattern [file ...]\n", os.Args[0])
	flag.PrintDefaults()
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "rationl: "+format+"\n", args...)
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	config := rationl.DefaultConfig()
	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			exitf("%s", err)
		}
		config, err = rationl.ParseConfig(data)
		if err != nil {
			exitf("%s: %s", *configFile, err)
		}
	}
	re, err := rationl.CompileWithConfig(args[0], config)
	if err != nil {
		exitf("%s", err)
	}

	opts := options{mode: *mode, onlyMatch: *onlyMatch, replacement: []byte(*replText)}
	out := bufio.NewWriter(os.Stdout)
	found, err := run(out, re, opts, args[1:])
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	if *showStats {
		fmt.Fprintf(os.Stderr, "strategy: %s\nstats: %+v\n", re.Strategy(), re.Stats())
	}
	if err != nil {
		exitf("%s", err)
	}
	if !found {
		os.Exit(1)
	}
}

type options struct {
	mode        string
	onlyMatch   bool
	replacement []byte
}

// run executes opts.mode over inputs and reports whether anything matched.
// dot and fixture print the automaton and ignore inputs.
func run(w io.Writer, re *rationl.Regex, opts options, inputs []string) (bool, error) {
	switch opts.mode {
	case "dot":
		return true, automaton.WriteDot(w, re.Automaton())
	case "fixture":
		return true, automaton.WriteFixture(w, re.Automaton())
	case "search", "match", "replace":
	default:
		return false, fmt.Errorf("unknown mode %q", opts.mode)
	}

	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	found := false
	for _, name := range inputs {
		data, err := readInput(name)
		if err != nil {
			return found, err
		}
		prefix := ""
		if len(inputs) > 1 {
			prefix = name + ":"
		}
		var ok bool
		switch opts.mode {
		case "search":
			ok, err = searchLines(w, re, data, prefix, opts.onlyMatch)
		case "match":
			ok, err = matchLines(w, re, data, prefix)
		case "replace":
			ok = re.IsMatch(data)
			_, err = w.Write(re.Replace(data, opts.replacement))
		}
		if err != nil {
			return found, err
		}
		found = found || ok
	}
	return found, nil
}

// readInput reads a whole input; "-" is standard input.
func readInput(name string) ([]byte, error) {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	if strings.HasSuffix(name, ".zst") {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		defer dec.Close()
		r = dec
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}

// searchLines prints the lines containing a match, or with only set, each
// match on its own line.
func searchLines(w io.Writer, re *rationl.Regex, data []byte, prefix string, only bool) (bool, error) {
	found := false
	err := eachLine(data, func(line []byte) error {
		if !only {
			if !re.IsMatch(line) {
				return nil
			}
			found = true
			_, err := fmt.Fprintf(w, "%s%s\n", prefix, line)
			return err
		}
		for _, m := range re.Search(line) {
			if m.IsEmpty() {
				continue
			}
			found = true
			if _, err := fmt.Fprintf(w, "%s%s\n", prefix, m.Bytes()); err != nil {
				return err
			}
		}
		return nil
	})
	return found, err
}

// matchLines prints the lines the pattern accepts as a whole.
func matchLines(w io.Writer, re *rationl.Regex, data []byte, prefix string) (bool, error) {
	found := false
	err := eachLine(data, func(line []byte) error {
		if !re.Accepts(line) {
			return nil
		}
		found = true
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, line)
		return err
	})
	return found, err
}

// eachLine calls fn for each line of data without its terminator. A final
// line without a newline is included.
func eachLine(data []byte, fn func([]byte) error) error {
	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return nil
}
