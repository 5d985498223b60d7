package ir

import (
	"fmt"
	"slices"
	"strings"
)

// Path is a sequence of key segments. It is rendered to its dotted form
// only when displayed.
type Path []string

func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(pathString(seg))
	}
	return sb.String()
}

func pathString(f string) string {
	if f != "" && strings.IndexAny(f, "'.\\") == -1 {
		return f
	}
	r := strings.NewReplacer("\\", "\\\\", "'", "\\'")
	return "'" + r.Replace(f) + "'"
}

// Append returns a new path with segs appended.
func (p Path) Append(segs ...string) Path {
	res := make(Path, 0, len(p)+len(segs))
	res = append(res, p...)
	return append(res, segs...)
}

// Prepend returns a new path with seg in front.
func (p Path) Prepend(seg string) Path {
	res := make(Path, 0, len(p)+1)
	res = append(res, seg)
	return append(res, p...)
}

func (p Path) HasPrefix(q Path) bool {
	return len(q) <= len(p) && slices.Equal(p[:len(q)], q)
}

func (p Path) Equal(q Path) bool {
	return slices.Equal(p, q)
}

// ParsePath parses the dotted form produced by Path.String. Segments
// containing '.', '\'' or '\\' are single quoted with backslash escapes.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}
	res := Path{}
	for {
		seg, rest, err := parseField(s)
		if err != nil {
			return nil, err
		}
		res = append(res, seg)
		if rest == "" {
			return res, nil
		}
		if rest[0] != '.' || len(rest) == 1 {
			return nil, fmt.Errorf("%w: expected '.' then field at %q", ErrBadPath, rest)
		}
		s = rest[1:]
	}
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("%w: expected field at end of string", ErrBadPath)
	}
	if frag[0] != '\'' {
		i := strings.IndexByte(frag, '.')
		if i == -1 {
			return frag, "", nil
		}
		if i == 0 {
			return "", "", fmt.Errorf("%w: empty field", ErrBadPath)
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch {
		case escaped:
			escaped = false
			res = append(res, c)
		case c == '\\':
			escaped = true
		case c == '\'':
			return string(res), frag[i+1:], nil
		default:
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("%w: end of string scanning for \"'\"", ErrBadPath)
}
