package token

import "sort"

// File holds source text and the byte offsets at which its lines begin.
type File struct {
	name  string
	src   string
	lines []int
}

// NewFile returns a File for the given source. The line index starts with
// the first line only; the lexer records each newline with AddLine.
func NewFile(name, src string) *File {
	return &File{name: name, src: src, lines: []int{0}}
}

// Name returns the filename, which may be empty.
func (f *File) Name() string {
	return f.name
}

// Source returns the full source text.
func (f *File) Source() string {
	return f.src
}

// Size returns the length of the source in bytes.
func (f *File) Size() int {
	return len(f.src)
}

// AddLine records that a new line starts at offset. Offsets must be added
// in increasing order; out of order offsets are ignored.
func (f *File) AddLine(offset int) {
	if offset <= f.lines[len(f.lines)-1] || offset > len(f.src) {
		return
	}
	f.lines = append(f.lines, offset)
}

// LineCount returns the number of lines recorded so far.
func (f *File) LineCount() int {
	return len(f.lines)
}

// Position converts a byte offset to a Position using binary search over
// the line index.
func (f *File) Position(offset int) Position {
	line := sort.Search(len(f.lines), func(i int) bool {
		return f.lines[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	start := f.lines[line]
	return Position{
		Char:      offset,
		LineStart: start,
		Line:      line,
		Column:    offset - start,
		File:      f.name,
	}
}

// Line returns the text of the given 0-indexed line without its newline.
func (f *File) Line(line int) string {
	if line < 0 || line >= len(f.lines) {
		return ""
	}
	start := f.lines[line]
	end := len(f.src)
	if line+1 < len(f.lines) {
		end = f.lines[line+1] - 1
	} else {
		for i := start; i < len(f.src); i++ {
			if f.src[i] == '\n' {
				end = i
				break
			}
		}
	}
	if end < start {
		end = start
	}
	text := f.src[start:end]
	if n := len(text); n > 0 && text[n-1] == '\r' {
		text = text[:n-1]
	}
	return text
}
