// Package fieldpath models the address of a field inside a nested model graph.
//
// A Path is an ordered list of segments, each either a field name or a
// zero-based collection index. Paths render the way they are written in
// diagnostics:
//
//	name
//	name.sub
//	name[2]
//	name[2].sub
//
// Paths are immutable values. Field and Index always return a new Path and
// never share backing storage with the receiver, so sibling paths derived
// from the same parent cannot corrupt each other.
package fieldpath

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is a single step of a Path.
type Segment struct {
	Name  string // Field name, empty for index segments
	Index int    // Collection index, only meaningful when Name is empty
}

// IsIndex reports whether the segment addresses a collection element.
func (s Segment) IsIndex() bool {
	return s.Name == ""
}

// String renders the segment on its own.
func (s Segment) String() string {
	if s.IsIndex() {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Name
}

// Path is an immutable chain of segments.
type Path struct {
	segments []Segment
}

// Root returns the empty path.
func Root() Path {
	return Path{}
}

// New builds a path from field names.
func New(names ...string) Path {
	p := Root()
	for _, name := range names {
		p = p.Field(name)
	}
	return p
}

// Field returns a new path with a field segment appended.
func (p Path) Field(name string) Path {
	return p.append(Segment{Name: name})
}

// Index returns a new path with an index segment appended.
func (p Path) Index(i int) Path {
	return p.append(Segment{Index: i})
}

// Join returns a new path with all segments of other appended.
func (p Path) Join(other Path) Path {
	if len(other.segments) == 0 {
		return p
	}
	out := make([]Segment, 0, len(p.segments)+len(other.segments))
	out = append(out, p.segments...)
	out = append(out, other.segments...)
	return Path{segments: out}
}

func (p Path) append(s Segment) Path {
	out := make([]Segment, len(p.segments), len(p.segments)+1)
	copy(out, p.segments)
	return Path{segments: append(out, s)}
}

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// Segments returns a copy of the segments.
func (p Path) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// Last returns the final segment, if any.
func (p Path) Last() (Segment, bool) {
	if len(p.segments) == 0 {
		return Segment{}, false
	}
	return p.segments[len(p.segments)-1], true
}

// Equal reports whether two paths have identical segments.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// String renders the path, e.g. "members[1].user_id".
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p.segments {
		if s.IsIndex() {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Name)
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler so paths serialize as strings.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Parse is the inverse of String. The empty string parses to the root path.
func Parse(s string) (Path, error) {
	p := Root()
	i := 0
	expectName := true
	for i < len(s) {
		switch c := s[i]; {
		case c == '[':
			if expectName && !p.IsRoot() {
				return Path{}, fmt.Errorf("fieldpath: empty segment in %q", s)
			}
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return Path{}, fmt.Errorf("fieldpath: unterminated index in %q", s)
			}
			idx, err := strconv.Atoi(s[i+1 : i+end])
			if err != nil || idx < 0 {
				return Path{}, fmt.Errorf("fieldpath: invalid index %q in %q", s[i+1:i+end], s)
			}
			p = p.Index(idx)
			i += end + 1
			expectName = false
		case c == '.':
			if p.IsRoot() || expectName {
				return Path{}, fmt.Errorf("fieldpath: empty segment in %q", s)
			}
			i++
			expectName = true
			if i == len(s) {
				return Path{}, fmt.Errorf("fieldpath: trailing separator in %q", s)
			}
		default:
			if !expectName {
				return Path{}, fmt.Errorf("fieldpath: missing separator before %q in %q", s[i:], s)
			}
			end := strings.IndexAny(s[i:], ".[")
			if end < 0 {
				end = len(s) - i
			}
			p = p.Field(s[i : i+end])
			i += end
			expectName = false
		}
	}
	return p, nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and package-level constants.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}
