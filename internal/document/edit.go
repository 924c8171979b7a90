package document

import (
	"fmt"
	"sort"

	"remedy/internal/protocol"
)

type byteEdit struct {
	start   uint32
	end     uint32
	newText string
}

// ApplyWorkspaceEdit applies every text edit the workspace edit carries for
// this document and returns the number applied. Positions are interpreted in
// the encoding the originating server declared, converted to byte spans up
// front, then applied back to front so earlier spans stay valid.
func (d *Document) ApplyWorkspaceEdit(edit *protocol.WorkspaceEdit, enc protocol.PositionEncoding) (int, error) {
	if edit == nil {
		return 0, nil
	}
	var edits []protocol.TextEdit
	if changes, ok := edit.Changes[d.uri]; ok {
		edits = append(edits, changes...)
	}
	for _, dc := range edit.DocumentChanges {
		if dc.TextDocument.URI != d.uri {
			continue
		}
		edits = append(edits, dc.Edits...)
	}
	if len(edits) == 0 {
		return 0, nil
	}

	spans := make([]byteEdit, 0, len(edits))
	for _, e := range edits {
		start := d.OffsetForPosition(e.Range.Start, enc)
		end := d.OffsetForPosition(e.Range.End, enc)
		if end < start {
			return 0, fmt.Errorf("edit range inverted at %d:%d", e.Range.Start.Line, e.Range.Start.Character)
		}
		spans = append(spans, byteEdit{start: start, end: end, newText: e.NewText})
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start == spans[j].start {
			return spans[i].end > spans[j].end
		}
		return spans[i].start > spans[j].start
	})

	working := append([]byte(nil), d.content...)
	for _, s := range spans {
		if int(s.end) > len(working) {
			return 0, fmt.Errorf("edit span %d..%d out of range", s.start, s.end)
		}
		suffix := append([]byte(nil), working[s.end:]...)
		working = append(append(working[:s.start], []byte(s.newText)...), suffix...)
	}

	d.content = working
	d.reindex()
	d.version++
	d.dirty = true
	return len(spans), nil
}
