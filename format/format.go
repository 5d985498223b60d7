package format

import (
	"errors"
	"fmt"
	"slices"
)

type Format int

const (
	YAMLFormat Format = iota
	JSONFormat
)

var ErrBadFormat = errors.New("bad format")

type info struct {
	name     string
	aliases  []string
	suffixes []string
}

// formats is indexed by Format, in preference order.
var formats = []info{
	YAMLFormat: {name: "yaml", aliases: []string{"y", "yml"}, suffixes: []string{".yaml", ".yml"}},
	JSONFormat: {name: "json", aliases: []string{"j"}, suffixes: []string{".json"}},
}

func (f Format) info() (info, bool) {
	if f < 0 || int(f) >= len(formats) {
		return info{}, false
	}
	return formats[f], true
}

// ParseFormat accepts a format name or one of its aliases.
func ParseFormat(v string) (Format, error) {
	for i, fi := range formats {
		if v == fi.name || slices.Contains(fi.aliases, v) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// BySuffix returns the format whose files end in ext, such as ".yml".
func BySuffix(ext string) (Format, bool) {
	for i, fi := range formats {
		if slices.Contains(fi.suffixes, ext) {
			return Format(i), true
		}
	}
	return 0, false
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	fi, ok := f.info()
	if !ok {
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
	return []byte(fi.name), nil
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

// Suffix returns the preferred file extension, including the dot.
func (f Format) Suffix() string {
	fi, ok := f.info()
	if !ok {
		return ""
	}
	return fi.suffixes[0]
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	res := make([]Format, len(formats))
	for i := range formats {
		res[i] = Format(i)
	}
	return res
}
