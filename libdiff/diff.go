// Package libdiff computes line diffs between the encoded forms of nodes
// and values, and text patches that can be replayed onto a document.
package libdiff

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/tony-format/nodal/encode"
	"github.com/signadot/tony-format/nodal/ir"
)

type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "+"
	case Delete:
		return "-"
	default:
		return " "
	}
}

// Line is one line of a diff, without its trailing newline.
type Line struct {
	Op   Op
	Text string
}

type Diff struct {
	Lines []Line
}

// Empty reports whether the two inputs were identical.
func (d *Diff) Empty() bool {
	for i := range d.Lines {
		if d.Lines[i].Op != Equal {
			return false
		}
	}
	return true
}

// Stats returns the number of inserted and deleted lines.
func (d *Diff) Stats() (ins, del int) {
	for i := range d.Lines {
		switch d.Lines[i].Op {
		case Insert:
			ins++
		case Delete:
			del++
		}
	}
	return
}

// Print writes the diff to w with a one character op prefix per line.
// Lines further than context lines from a change are elided; a negative
// context prints everything.
func (d *Diff) Print(w io.Writer, context int, colored bool) error {
	var ins, del *color.Color
	if colored {
		ins = color.New(color.FgGreen)
		del = color.New(color.FgRed)
		ins.EnableColor()
		del.EnableColor()
	}
	keep := d.keep(context)
	skipped := false
	for i := range d.Lines {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped {
			if _, err := io.WriteString(w, "...\n"); err != nil {
				return err
			}
			skipped = false
		}
		ln := &d.Lines[i]
		s := ln.Op.String() + " " + ln.Text
		switch {
		case ln.Op == Insert && ins != nil:
			s = ins.Sprint(s)
		case ln.Op == Delete && del != nil:
			s = del.Sprint(s)
		}
		if _, err := io.WriteString(w, s+"\n"); err != nil {
			return err
		}
	}
	if skipped {
		_, err := io.WriteString(w, "...\n")
		return err
	}
	return nil
}

func (d *Diff) String() string {
	buf := bytes.NewBuffer(nil)
	_ = d.Print(buf, -1, false)
	return buf.String()
}

func (d *Diff) keep(context int) []bool {
	keep := make([]bool, len(d.Lines))
	if context < 0 {
		for i := range keep {
			keep[i] = true
		}
		return keep
	}
	for i := range d.Lines {
		if d.Lines[i].Op == Equal {
			continue
		}
		for j := max(0, i-context); j <= min(len(keep)-1, i+context); j++ {
			keep[j] = true
		}
	}
	return keep
}

// Strings diffs two texts line by line.
func Strings(from, to string) *Diff {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	res := &Diff{}
	for i := range diffs {
		op := Equal
		switch diffs[i].Type {
		case diffpatch.DiffInsert:
			op = Insert
		case diffpatch.DiffDelete:
			op = Delete
		}
		for _, ln := range splitLines(diffs[i].Text) {
			res.Lines = append(res.Lines, Line{Op: op, Text: ln})
		}
	}
	return res
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\n")
	}
	return lines
}

// Nodes diffs the serialized forms of two nodes. Options select the
// encoding; colors are ignored.
func Nodes(from, to *ir.Node, opts ...encode.EncodeOption) (*Diff, error) {
	return Values(ir.ToSerial(from), ir.ToSerial(to), opts...)
}

// Values diffs the encodings of two plain values, such as snapshots.
func Values(from, to any, opts ...encode.EncodeOption) (*Diff, error) {
	opts = append(opts[:len(opts):len(opts)], encode.EncodeColors(nil))
	a, err := encodeString(from, opts)
	if err != nil {
		return nil, fmt.Errorf("encoding from: %w", err)
	}
	b, err := encodeString(to, opts)
	if err != nil {
		return nil, fmt.Errorf("encoding to: %w", err)
	}
	return Strings(a, b), nil
}

func encodeString(v any, opts []encode.EncodeOption) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := encode.EncodeValue(v, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}
