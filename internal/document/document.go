// Package document holds the text buffer a remediation run mutates, with
// position math in both UTF-8 and UTF-16 server encodings.
package document

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"

	"remedy/internal/protocol"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// Document is an open text buffer identified by a file URI.
type Document struct {
	path    string
	uri     string
	version int
	content []byte
	lineIdx []uint32 // byte offsets of '\n'
	dirty   bool
}

// Open reads path from disk and returns a version-1 document.
func Open(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	abs := path
	if a, err := filepath.Abs(path); err == nil {
		abs = a
	}
	d := &Document{
		path:    abs,
		uri:     PathToURI(abs),
		version: 1,
		content: content,
	}
	d.reindex()
	return d, nil
}

// New builds an in-memory document, mainly for tests.
func New(uri string, content []byte) *Document {
	d := &Document{
		uri:     uri,
		version: 1,
		content: append([]byte(nil), content...),
	}
	d.reindex()
	return d
}

func (d *Document) reindex() {
	d.lineIdx = d.lineIdx[:0]
	for i, b := range d.content {
		if b == '\n' {
			d.lineIdx = append(d.lineIdx, safeUint32(i))
		}
	}
}

func (d *Document) URI() string    { return d.uri }
func (d *Document) Path() string   { return d.path }
func (d *Document) Version() int   { return d.version }
func (d *Document) Dirty() bool    { return d.dirty }
func (d *Document) Text() string   { return string(d.content) }
func (d *Document) LineCount() int { return len(d.lineIdx) + 1 }

// lineBounds returns the byte range of line (newline excluded), clamped to
// the buffer.
func (d *Document) lineBounds(line int) (uint32, uint32) {
	contentLen := safeUint32(len(d.content))
	if line < 0 {
		return 0, 0
	}
	if line >= d.LineCount() {
		return contentLen, contentLen
	}
	var start uint32
	if line > 0 {
		start = d.lineIdx[line-1] + 1
	}
	end := contentLen
	if line < len(d.lineIdx) {
		end = d.lineIdx[line]
	}
	if start > end {
		start = end
	}
	return start, end
}

// OffsetForPosition converts a protocol position in the given encoding to a
// byte offset into the buffer.
func (d *Document) OffsetForPosition(pos protocol.Position, enc protocol.PositionEncoding) uint32 {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	if pos.Line >= d.LineCount() {
		return safeUint32(len(d.content))
	}
	lineStart, lineEnd := d.lineBounds(pos.Line)
	if enc == protocol.EncodingUTF8 {
		off := lineStart + safeUint32(pos.Character)
		if off > lineEnd {
			off = lineEnd
		}
		return off
	}
	units := 0
	off := lineStart
	for off < lineEnd {
		r, size := utf8.DecodeRune(d.content[off:lineEnd])
		if r == utf8.RuneError && size == 1 {
			size = 1
		}
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		off += safeUint32(size)
		if units == pos.Character {
			break
		}
	}
	return off
}

// PositionForOffset converts a byte offset to a protocol position in the
// given encoding.
func (d *Document) PositionForOffset(offset uint32, enc protocol.PositionEncoding) protocol.Position {
	contentLen := safeUint32(len(d.content))
	if offset > contentLen {
		offset = contentLen
	}
	idx := sort.Search(len(d.lineIdx), func(i int) bool { return d.lineIdx[i] >= offset })
	line := idx
	var lineStart uint32
	if idx > 0 {
		lineStart = d.lineIdx[idx-1] + 1
	}
	if lineStart > offset {
		lineStart = offset
	}
	if enc == protocol.EncodingUTF8 {
		return protocol.Position{Line: line, Character: int(offset - lineStart)}
	}
	units := 0
	for off := lineStart; off < offset; {
		r, size := utf8.DecodeRune(d.content[off:offset])
		if r == utf8.RuneError && size == 1 {
			size = 1
		}
		if off+safeUint32(size) > offset {
			break
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		off += safeUint32(size)
	}
	return protocol.Position{Line: line, Character: units}
}

// PositionFor converts zero-based editor coordinates (line, byte column)
// into a protocol position in the given encoding.
func (d *Document) PositionFor(line, col int, enc protocol.PositionEncoding) protocol.Position {
	lineStart, lineEnd := d.lineBounds(line)
	off := lineStart + safeUint32(col)
	if off > lineEnd {
		off = lineEnd
	}
	return d.PositionForOffset(off, enc)
}

// FullRange spans the whole document: line 0 column 0 through the byte
// length of the last line. Document-wide fix queries use this range.
func (d *Document) FullRange() protocol.Range {
	lastLine := d.LineCount() - 1
	start, end := d.lineBounds(lastLine)
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: lastLine, Character: int(end - start)},
	}
}

// WriteFile writes the buffer back to its file, keeping the existing mode.
func (d *Document) WriteFile() error {
	if d.path == "" {
		return fmt.Errorf("document %s has no file path", d.uri)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(d.path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(d.path, d.content, mode); err != nil {
		return fmt.Errorf("write %s: %w", d.path, err)
	}
	d.dirty = false
	return nil
}

// PathToURI converts a filesystem path into a file:// URI.
func PathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// URIToPath converts a file:// URI back into a filesystem path.
func URIToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" && parsed.Scheme != "file" {
		return ""
	}
	path := parsed.Path
	if parsed.Scheme == "" {
		path = uri
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	path = filepath.FromSlash(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}
