package encode

import (
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/printer"
)

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	StringColor
	NumberColor
	BoolColor
	AnchorColor
	CommentColor
)

// Colors maps token classes to terminal colors.
type Colors struct {
	Map map[ColorAttr]*color.Color
}

// NewColors returns the default palette. Its colors are enabled
// regardless of whether the process output is a terminal.
func NewColors() *Colors {
	c := &Colors{Map: map[ColorAttr]*color.Color{
		FieldColor:   color.RGB(128, 168, 196),
		StringColor:  color.RGB(8, 196, 16),
		NumberColor:  color.RGB(128, 216, 236),
		BoolColor:    color.New(color.FgCyan),
		AnchorColor:  color.RGB(196, 168, 128),
		CommentColor: color.New(color.FgBlue),
	}}
	for _, col := range c.Map {
		col.EnableColor()
	}
	return c
}

func (c *Colors) printFunc(a ColorAttr) printer.PrintFunc {
	col := c.Map[a]
	if col == nil {
		return nil
	}
	prefix, suffix, _ := strings.Cut(col.Sprint("\x00"), "\x00")
	return func() *printer.Property {
		return &printer.Property{Prefix: prefix, Suffix: suffix}
	}
}

// Colorize colors YAML or JSON text.
func (c *Colors) Colorize(src string) string {
	p := printer.Printer{
		MapKey:  c.printFunc(FieldColor),
		String:  c.printFunc(StringColor),
		Number:  c.printFunc(NumberColor),
		Bool:    c.printFunc(BoolColor),
		Anchor:  c.printFunc(AnchorColor),
		Alias:   c.printFunc(AnchorColor),
		Comment: c.printFunc(CommentColor),
	}
	return p.PrintTokens(lexer.Tokenize(src))
}
