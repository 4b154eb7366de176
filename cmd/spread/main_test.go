// Copyright (c) 2024, The spread Authors
// See LICENSE for licensing information

package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/spreadpat/spread/pattern"
)

var expandOneTests = []struct {
	in      string
	want    string
	wantErr string
}{
	{in: "a{b,c}", want: "ab\nac\n"},
	{in: "img[08-10].png", want: "img08.png\nimg09.png\nimg10.png\n"},
	{in: "plain", want: "plain\n"},
	{in: "[5-3]", want: ""},
	{in: "{a,b", wantErr: `1: reached end of pattern without closing "{"`},
	{in: "[a-9]", wantErr: `0: invalid range "a-9"`},
}

func TestExpandOne(t *testing.T) {
	for _, tc := range expandOneTests {
		var buf bytes.Buffer
		err := expandOne(&buf, tc.in)
		if tc.wantErr != "" {
			if err == nil {
				t.Fatalf("expandOne(%q) did not error", tc.in)
			}
			if got := err.Error(); got != tc.wantErr {
				t.Fatalf("expandOne(%q) errored with %q, wanted %q", tc.in, got, tc.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("expandOne(%q) errored with %q", tc.in, err)
		}
		if got := buf.String(); got != tc.want {
			t.Fatalf("expandOne(%q) wrote %q, wanted %q", tc.in, got, tc.want)
		}
	}
}

func TestExpandOneCount(t *testing.T) {
	*countOnly = true
	defer func() { *countOnly = false }()

	var buf bytes.Buffer
	for _, src := range []string{"{a,b,c}[1-2]", "[5-3]", "plain"} {
		if err := expandOne(&buf, src); err != nil {
			t.Fatalf("expandOne(%q) errored with %q", src, err)
		}
	}
	if got, want := buf.String(), "6\n0\n1\n"; got != want {
		t.Fatalf("got %q, wanted %q", got, want)
	}
}

func TestExpandOneSep(t *testing.T) {
	*sep = ","
	defer func() { *sep = "\n" }()

	var buf bytes.Buffer
	if err := expandOne(&buf, "{x,y}"); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "x,y,"; got != want {
		t.Fatalf("got %q, wanted %q", got, want)
	}
}

var main1Tests = []struct {
	args   []string
	stdin  string
	status int
	out    string
}{
	{nil, "a{1,2}\nb\n", 0, "a1\na2\nb\n"},
	// a bad pattern does not stop the later ones, but the exit status
	// becomes nonzero
	{nil, "{a,b\ngood{1,2}\n", 1, "good1\ngood2\n"},
	{[]string{"-"}, "x[1-2]\n", 0, "x1\nx2\n"},
	{[]string{"x{1,2}"}, "", 0, "x1\nx2\n"},
	{[]string{"{a,b", "y"}, "", 1, "y\n"},
}

func TestMain1(t *testing.T) {
	defer func(args []string) { os.Args = args }(os.Args)
	defer func() { in, out = os.Stdin, os.Stdout }()
	for _, tc := range main1Tests {
		os.Args = append([]string{"spread"}, tc.args...)
		in = strings.NewReader(tc.stdin)
		var buf bytes.Buffer
		out = &buf
		if status := main1(); status != tc.status {
			t.Fatalf("main1(%q) returned %d, wanted %d", tc.args, status, tc.status)
		}
		if got := buf.String(); got != tc.out {
			t.Fatalf("main1(%q) wrote %q, wanted %q", tc.args, got, tc.out)
		}
	}
}

func TestFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/bad") {
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	// serialize the fetches so the output order matches the expansion order
	*jobs = 1
	defer func() { *jobs = runtime.GOMAXPROCS(0) }()

	p, err := pattern.Parse(srv.URL + "/{one,two}")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := fetchAll(&buf, p); err != nil {
		t.Fatalf("fetchAll errored with %q", err)
	}
	want := "200 OK " + srv.URL + "/one\n200 OK " + srv.URL + "/two\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, wanted %q", got, want)
	}

	p, err = pattern.Parse(srv.URL + "/{one,bad}")
	if err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	err = fetchAll(&buf, p)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("wanted a 404 error, got %v", err)
	}
	want = "200 OK " + srv.URL + "/one\n404 Not Found " + srv.URL + "/bad\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, wanted %q", got, want)
	}
}

func TestFetchAllTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p, err := pattern.Parse(url + "/x")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := fetchAll(&buf, p); err == nil {
		t.Fatal("fetchAll did not error against a closed server")
	}
	if buf.Len() != 0 {
		t.Fatalf("fetchAll wrote %q for a failed fetch", buf.String())
	}
}

func TestReadPatterns(t *testing.T) {
	srcs, err := readPatterns(strings.NewReader("a{1,2}\n\nb\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a{1,2}", "", "b"}
	if len(srcs) != len(want) {
		t.Fatalf("got %q, wanted %q", srcs, want)
	}
	for i := range want {
		if srcs[i] != want[i] {
			t.Fatalf("got %q, wanted %q", srcs, want)
		}
	}

	var buf bytes.Buffer
	for _, src := range srcs {
		if err := expandOne(&buf, src); err != nil {
			t.Fatalf("expandOne(%q) errored with %q", src, err)
		}
	}
	if got, want := buf.String(), "a1\na2\n\nb\n"; got != want {
		t.Fatalf("got %q, wanted %q", got, want)
	}
}
