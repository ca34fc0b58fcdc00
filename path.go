// FILE: lixenwraith/config/path.go
package config

import (
	"strconv"
	"strings"
)

const (
	// PathDelimiter is the primary separator between path segments
	PathDelimiter = ":"
	// AltPathDelimiter is accepted when a key contains no PathDelimiter,
	// for sources such as environment variables where ':' is not legal
	AltPathDelimiter = "__"

	// edgeChars are stripped from both ends of a key before splitting
	edgeChars = "_:"
)

// Segment is one step of a Path: a mapping key or a sequence index.
type Segment struct {
	Name    string // raw segment text, also set for index segments
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	return s.Name
}

// Path is an ordered list of segments addressing a value in the tree.
type Path []Segment

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.Name
	}
	return strings.Join(parts, PathDelimiter)
}

// ParsePath splits a raw key into a Path.
// Any run of '_' and ':' characters at either end of the key is dropped, so
// "_B__C" left over from a prefix like "A_" reads as B:C. The rest is split
// on ':' or, if it contains none, on '__'. A segment made only of ASCII
// digits is an index.
func ParsePath(key string) (Path, error) {
	trimmed := strings.Trim(key, edgeChars)
	delim := AltPathDelimiter
	if strings.Contains(trimmed, PathDelimiter) {
		delim = PathDelimiter
	}

	if trimmed == "" {
		return nil, &PathError{Key: key, Reason: "key is empty", Err: ErrEmptyPath}
	}

	parts := strings.Split(trimmed, delim)
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, &PathError{Key: key, Reason: "key contains an empty segment"}
		}
		path = append(path, newSegment(part))
	}
	return path, nil
}

// newSegment classifies a raw segment as an index or a name.
func newSegment(part string) Segment {
	if isIndexSegment(part) {
		if idx, err := strconv.Atoi(part); err == nil {
			return Segment{Name: part, Index: idx, IsIndex: true}
		}
	}
	return Segment{Name: part}
}

// isIndexSegment reports whether s consists only of ASCII digits.
func isIndexSegment(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
