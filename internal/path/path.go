package path

import (
	"errors"
	"strings"
)

// ErrInvalidPath is returned when a path string cannot be parsed
var ErrInvalidPath = errors.New("invalid path")

// Path is a validated, slash-delimited address into a nested document.
// It is parsed once at construction so malformed paths fail early rather
// than deep inside a document walk.
type Path struct {
	raw  string
	segs []string
}

// Parse validates and parses a slash-delimited path string.
// Leading and trailing slashes are tolerated; empty segments are not.
func Parse(s string) (Path, error) {
	trimmed := strings.Trim(s, "/")
	if trimmed == "" {
		return Path{}, ErrInvalidPath
	}
	segs := strings.Split(trimmed, "/")
	for _, seg := range segs {
		if seg == "" {
			return Path{}, ErrInvalidPath
		}
	}
	return Path{raw: trimmed, segs: segs}, nil
}

// MustParse parses a path and panics on failure. For compile-time-known paths.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic("path: " + s + ": " + err.Error())
	}
	return p
}

// Join builds a path from individual segments.
func Join(segs ...string) (Path, error) {
	return Parse(strings.Join(segs, "/"))
}

// String returns the canonical slash-delimited form.
func (p Path) String() string {
	return p.raw
}

// Segments returns the path's segments in order.
func (p Path) Segments() []string {
	return p.segs
}

// Root returns the first segment, which selects the namespace.
func (p Path) Root() string {
	if len(p.segs) == 0 {
		return ""
	}
	return p.segs[0]
}

// Depth returns the number of segments.
func (p Path) Depth() int {
	return len(p.segs)
}

// IsZero reports whether the path is the unparsed zero value.
func (p Path) IsZero() bool {
	return len(p.segs) == 0
}

// Child derives a sub-path by appending segments.
func (p Path) Child(segs ...string) (Path, error) {
	return Parse(p.raw + "/" + strings.Join(segs, "/"))
}

// MustChild derives a sub-path and panics on failure.
func (p Path) MustChild(segs ...string) Path {
	c, err := p.Child(segs...)
	if err != nil {
		panic("path child: " + err.Error())
	}
	return c
}

// IsAncestorOf reports whether p is a strict prefix of other.
func (p Path) IsAncestorOf(other Path) bool {
	if len(p.segs) >= len(other.segs) {
		return false
	}
	for i, seg := range p.segs {
		if other.segs[i] != seg {
			return false
		}
	}
	return true
}

// Equal reports whether two paths address the same node.
func (p Path) Equal(other Path) bool {
	return p.raw == other.raw
}

// Related reports whether a change at other is visible at p: other is an
// ancestor of, descendant of, or equal to p.
func (p Path) Related(other Path) bool {
	return p.Equal(other) || p.IsAncestorOf(other) || other.IsAncestorOf(p)
}
