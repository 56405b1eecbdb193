// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program jdoc parses JSON documents and prints values selected from them.
//
// Usage:
//
//	jdoc [flags] [file ...]
//
// Each named file is parsed into its own document, concurrently. With no
// files, jdoc reads standard input. Values are selected by a dotted path
// (-q) or a JSONPath expression (-path), and printed in the order the files
// were named.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/creachadair/jdoc/doc"
	"github.com/creachadair/jdoc/jpath"
	"github.com/creachadair/mds/mstr"
	"github.com/panjf2000/ants/v2"
)

var (
	query    = flag.String("q", "", "Dotted path of the value to print")
	pathExpr = flag.String("path", "", "JSONPath expression selecting the values to print")
	format   = flag.String("format", "json", "Output format (json, debug, yaml)")
	jwcc     = flag.Bool("jwcc", false, "Accept comments and trailing commas")
	workers  = flag.Int("workers", runtime.NumCPU(), "Number of files to parse concurrently")
	maxWidth = flag.Int("trunc", 0, "Truncate printed values to this many bytes (0 means no limit)")
	verbose  = flag.Bool("v", false, "Enable verbose logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [file ...]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := newConfig()
	if err != nil {
		log.Error("invalid flags", "error", err)
		os.Exit(2)
	}
	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	if err := run(log, cfg, inputs, os.Stdout); err != nil {
		log.Error("failed", "error", err)
		os.Exit(1)
	}
}

// config carries the validated settings for a run.
type config struct {
	query   string
	expr    jpath.Expr
	render  renderFunc
	opts    *doc.Options
	workers int
	trunc   int
}

func newConfig() (*config, error) {
	cfg := &config{
		query:   *query,
		opts:    &doc.Options{JWCC: *jwcc},
		workers: max(*workers, 1),
		trunc:   *maxWidth,
	}
	if *query != "" && *pathExpr != "" {
		return nil, errors.New("at most one of -q and -path may be set")
	}
	if *pathExpr != "" {
		e, err := jpath.Parse(*pathExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid -path: %w", err)
		}
		cfg.expr = e
	}
	r, ok := renderers[*format]
	if !ok {
		return nil, fmt.Errorf("unknown -format %q", *format)
	}
	cfg.render = r
	return cfg, nil
}

// A result is the rendered output for one input.
type result struct {
	out bytes.Buffer
	err error
}

// run parses each input on a pool of workers, and writes the results to w in
// input order. It reports an error if any input failed.
func run(log *slog.Logger, cfg *config, inputs []string, w io.Writer) error {
	pool, err := ants.NewPool(cfg.workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]result, len(inputs))
	var wg sync.WaitGroup
	for i, name := range inputs {
		wg.Add(1)
		res := &results[i]
		if err := pool.Submit(func() {
			defer wg.Done()
			res.err = cfg.process(log, name, &res.out)
		}); err != nil {
			wg.Done()
			res.err = err
		}
	}
	wg.Wait()

	var nfail int
	for i, res := range results {
		if res.err != nil {
			log.Error("input failed", "input", inputs[i], "error", res.err)
			nfail++
			continue
		}
		if _, err := res.out.WriteTo(w); err != nil {
			return err
		}
	}
	if nfail > 0 {
		return fmt.Errorf("%d of %d inputs failed", nfail, len(inputs))
	}
	return nil
}

// process parses the named input and renders the selected values to w.
// Each input is parsed into its own arena, released when process returns.
func (c *config) process(log *slog.Logger, name string, w *bytes.Buffer) error {
	data, err := readInput(name)
	if err != nil {
		return err
	}
	a := doc.NewArena()
	defer a.Reset()

	root, err := doc.ParseBytes(data, a, c.opts)
	if err != nil {
		return err
	}
	st := a.Stats()
	log.Debug("parsed input", "input", name, "bytes", len(data),
		"arenaBytes", st.Bytes, "entries", st.Entries, "blocks", st.Blocks)

	vs, err := c.selectValues(root)
	if err != nil {
		return err
	}
	for _, v := range vs {
		out, err := c.render(v)
		if err != nil {
			return err
		}
		if c.trunc > 0 && len(out) > c.trunc {
			out = []byte(mstr.Trunc(string(out), c.trunc) + "...")
		}
		w.Write(out)
		if len(out) == 0 || out[len(out)-1] != '\n' {
			w.WriteByte('\n')
		}
	}
	return nil
}

func (c *config) selectValues(root doc.Value) ([]doc.Value, error) {
	switch {
	case c.expr != nil:
		return c.expr.Eval(root)
	case c.query != "":
		if !doc.Has(root, c.query) {
			return nil, fmt.Errorf("path %q not found", c.query)
		}
		return []doc.Value{doc.Get(root, c.query)}, nil
	}
	return []doc.Value{root}, nil
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}
