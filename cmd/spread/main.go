// Copyright (c) 2024, The spread Authors
// See LICENSE for licensing information

package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/spreadpat/spread/pattern"
)

var (
	showVersion = flag.Bool("version", false, "")

	countOnly = flag.Bool("n", false, "")
	outPath   = flag.String("o", "", "")
	sep       = flag.String("sep", "\n", "")

	doFetch = flag.Bool("fetch", false, "")
	jobs    = flag.Int("j", runtime.GOMAXPROCS(0), "")

	in  io.Reader = os.Stdin
	out io.Writer = os.Stdout

	color bool

	version = "(devel)" // to match the default from runtime/debug
)

func main() {
	os.Exit(main1())
}

func main1() int {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: spread [flags] [pattern ...]

Expands each pattern of brace sets and bracket ranges, such as
"https://example.com/{a,b}/img[01-12].png", into every string it denotes.
If the only argument is a dash ('-') or no arguments are given, patterns
are read from standard input, one per line.

  -version  show version and exit

  -n        print how many strings each pattern denotes, not the strings
  -o path   write the output to the given file atomically instead of stdout
  -sep str  separator printed after each string (default "\n")

Fetch mode:

  -fetch    perform an HTTP GET on each expanded string, treating it as a URL
  -j num    maximum concurrent fetches (default GOMAXPROCS)
`)
	}
	flag.Parse()

	if *showVersion {
		// don't overwrite the version if it was set by -ldflags=-X
		if info, ok := debug.ReadBuildInfo(); ok && version == "(devel)" {
			mod := &info.Main
			if mod.Replace != nil {
				mod = mod.Replace
			}
			version = mod.Version
		}
		fmt.Println(version)
		return 0
	}
	if os.Getenv("FORCE_COLOR") == "true" {
		// Undocumented way to force color; used in the tests.
		color = true
	} else if os.Getenv("TERM") == "dumb" {
		// Equivalent to forcing color to be turned off.
	} else if term.IsTerminal(int(os.Stderr.Fd())) {
		color = true
	}

	srcs := flag.Args()
	if len(srcs) == 0 || (len(srcs) == 1 && srcs[0] == "-") {
		var err error
		if srcs, err = readPatterns(in); err != nil {
			errMsg(err)
			return 1
		}
	}

	w := out
	var buf bytes.Buffer
	if *outPath != "" {
		w = &buf
	}
	status := 0
	for _, src := range srcs {
		if err := expandOne(w, src); err != nil {
			errMsg(fmt.Errorf("%q: %w", src, err))
			status = 1
		}
	}
	if *outPath != "" {
		if err := renameio.WriteFile(*outPath, buf.Bytes(), 0o644); err != nil {
			errMsg(err)
			return 1
		}
	}
	return status
}

// readPatterns reads one pattern per line. Blank lines are kept; an empty
// pattern still denotes the empty string.
func readPatterns(r io.Reader) ([]string, error) {
	var srcs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		srcs = append(srcs, scanner.Text())
	}
	return srcs, scanner.Err()
}

func expandOne(w io.Writer, src string) error {
	p, err := pattern.Parse(src)
	if err != nil {
		return err
	}
	switch {
	case *countOnly:
		_, err := fmt.Fprintf(w, "%d\n", p.Count())
		return err
	case *doFetch:
		return fetchAll(w, p)
	}
	bw := bufio.NewWriter(w)
	for s := range p.Expand() {
		bw.WriteString(s)
		bw.WriteString(*sep)
	}
	return bw.Flush()
}

// fetchAll issues a GET per expanded string, at most *jobs at a time, and
// reports one status line per URL. The first transport error or non-2xx
// response is returned once all fetches have finished.
func fetchAll(w io.Writer, p *pattern.Pattern) error {
	g := new(errgroup.Group)
	g.SetLimit(*jobs)
	var mu sync.Mutex
	for url := range p.Expand() {
		g.Go(func() error {
			resp, err := http.Get(url)
			if err != nil {
				return err
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			mu.Lock()
			fmt.Fprintf(w, "%s %s\n", resp.Status, url)
			mu.Unlock()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return fmt.Errorf("%s: %s", url, resp.Status)
			}
			return nil
		})
	}
	return g.Wait()
}

func errMsg(err error) {
	msg := fmt.Sprintf("spread: %v", err)
	if color {
		msg = "\x1b[31m" + msg + "\x1b[0m"
	}
	fmt.Fprintln(os.Stderr, msg)
}
