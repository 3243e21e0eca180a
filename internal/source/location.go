// Package source models positions inside a translation unit.
package source

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidLocation indicates a line/column pair that does not exist in the file.
var ErrInvalidLocation = errors.New("invalid source location")

// Location is a position in a source file. Line and Column are 1-based and
// Column counts bytes. Offset is the 0-based byte offset.
type Location struct {
	File   string `json:"file"`
	Offset int    `json:"offset"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Equal reports whether both locations refer to the same position.
// Only file and offset take part in the comparison.
func (l Location) Equal(other Location) bool {
	return l.File == other.File && l.Offset == other.Offset
}

// IsValid reports whether the location was resolved against a file.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0 && l.Column > 0
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Range is a half-open byte range [Begin, End).
type Range struct {
	Begin Location `json:"begin"`
	End   Location `json:"end"`
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End.Offset - r.Begin.Offset
}

// IsEmpty reports whether the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Len() <= 0
}

// Contains reports whether loc falls inside the range.
func (r Range) Contains(loc Location) bool {
	return loc.File == r.Begin.File && loc.Offset >= r.Begin.Offset && loc.Offset < r.End.Offset
}

func (r Range) String() string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", r.Begin.File, r.Begin.Line, r.Begin.Column, r.End.Line, r.End.Column)
}

// File holds the content of one translation unit together with a line table
// for converting between offsets and line/column pairs.
type File struct {
	Path    string
	Content []byte

	lineStarts []int
}

// NewFile creates a File for the given path and content.
func NewFile(path string, content []byte) *File {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &File{
		Path:       path,
		Content:    content,
		lineStarts: starts,
	}
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.lineStarts)
}

// Offset converts a 1-based line and column into a byte offset.
// A column one past the end of the line is accepted (cursor at end of line).
func (f *File) Offset(line, column int) (int, error) {
	if line < 1 || line > len(f.lineStarts) {
		return 0, fmt.Errorf("%w: line %d out of range (file has %d lines)", ErrInvalidLocation, line, len(f.lineStarts))
	}
	start := f.lineStarts[line-1]
	end := len(f.Content)
	if line < len(f.lineStarts) {
		end = f.lineStarts[line] - 1
	}
	if column < 1 || start+column-1 > end {
		return 0, fmt.Errorf("%w: column %d out of range on line %d", ErrInvalidLocation, column, line)
	}
	return start + column - 1, nil
}

// Location converts a byte offset into a Location. Offsets past the end of
// the content are clamped.
func (f *File) Location(offset int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	})
	return Location{
		File:   f.Path,
		Offset: offset,
		Line:   line,
		Column: offset - f.lineStarts[line-1] + 1,
	}
}

// Range converts a byte span into a Range.
func (f *File) Range(begin, end int) Range {
	return Range{
		Begin: f.Location(begin),
		End:   f.Location(end),
	}
}

// Text returns the content covered by r. It returns "" for ranges that do not
// belong to this file.
func (f *File) Text(r Range) string {
	if r.Begin.File != f.Path || r.Begin.Offset < 0 || r.End.Offset > len(f.Content) || r.IsEmpty() {
		return ""
	}
	return string(f.Content[r.Begin.Offset:r.End.Offset])
}
