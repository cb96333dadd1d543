package testutil

// ContestLibrary returns a small contest library used across package tests.
// It covers the shapes the bundler must handle: an I/O module with a
// scanner and a writer, two unrelated math modules that both define gcd, a
// data-structure module with interface assertions for two types, an iota
// constant group, a re-export module and a mutually recursive pair.
func ContestLibrary() map[string]string {
	return map[string]string{
		"lib/io/scanner.go": `package io

import (
	"bufio"
	"os"
	"strconv"
)

// Scanner reads whitespace separated tokens.
type Scanner struct {
	r *bufio.Reader
}

// NewScanner wraps stdin.
func NewScanner() *Scanner {
	return &Scanner{r: bufio.NewReaderSize(os.Stdin, bufSize)}
}

// Int reads one integer.
func (s *Scanner) Int() int {
	n, _ := strconv.Atoi(s.token())
	return n
}

func (s *Scanner) token() string {
	var b []byte
	for {
		c, err := s.r.ReadByte()
		if err != nil || c == ' ' || c == '\n' {
			if len(b) > 0 || err != nil {
				return string(b)
			}
			continue
		}
		b = append(b, c)
	}
}

// Unused is never called by any problem.
func (s *Scanner) Unused() {}
`,
		"lib/io/writer.go": `package io

import (
	"bufio"
	"fmt"
	"os"
)

const bufSize = 1 << 16

// Writer buffers output.
var Writer = bufio.NewWriterSize(os.Stdout, bufSize)

// Wln writes its arguments followed by a newline.
func Wln(args ...any) {
	fmt.Fprintln(Writer, args...)
}

// Flush flushes the writer.
func Flush() { Writer.Flush() }
`,
		"lib/math/nt/gcd.go": `package nt

// Gcd returns the greatest common divisor.
func Gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Lcm returns the least common multiple.
func Lcm(a, b int) int { return a / Gcd(a, b) * b }
`,
		"lib/math/alt/gcd.go": `package alt

// Gcd is the recursive variant.
func Gcd(a, b int) int {
	if b == 0 {
		return a
	}
	return Gcd(b, a%b)
}
`,
		"lib/ds/container.go": `package ds

// Container is implemented by every collection.
type Container interface {
	Len() int
}

var _ Container = (*Stack)(nil)
var _ Container = (*Queue)(nil)
`,
		"lib/ds/stack.go": `package ds

// Stack is a LIFO stack.
type Stack struct {
	items []int
}

// Push adds v.
func (s *Stack) Push(v int) { s.items = append(s.items, v) }

// Len returns the size.
func (s *Stack) Len() int { return len(s.items) }
`,
		"lib/ds/queue.go": `package ds

// Queue is a FIFO queue.
type Queue struct {
	items []int
}

// Len returns the size.
func (q *Queue) Len() int { return len(q.items) }
`,
		"lib/dir/dir.go": `package dir

// Dir is a grid direction.
type Dir int

const (
	Up Dir = iota
	Right
	Down
	Left
)

// Opposite returns the reverse direction.
func (d Dir) Opposite() Dir { return (d + 2) % 4 }
`,
		"lib/prelude/prelude.go": `package prelude

import "contest/lib/math/nt"

// Gcd re-exports the number theory gcd.
var Gcd = nt.Gcd
`,
		"lib/parity/parity.go": `package parity

// IsEven is mutually recursive with IsOdd.
func IsEven(n int) bool {
	if n == 0 {
		return true
	}
	return IsOdd(n - 1)
}

// IsOdd is mutually recursive with IsEven.
func IsOdd(n int) bool {
	if n == 0 {
		return false
	}
	return IsEven(n - 1)
}
`,
	}
}

// Merge returns a new file set containing base overlaid with extra.
func Merge(base map[string]string, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
