package parser

import "sort"

// Section pairs the documentation fragments discovered for a block of source
// with the code lines they annotate. Docs keep discovery order; Code keeps
// original file order.
type Section struct {
	Docs []string
	Code []string
}

// NumberedSection is the render-ready view of a section, anchored at the
// 0-based line where the section starts.
type NumberedSection struct {
	Line int
	Docs []string
	Code []string
}

// SectionTable is an ordered mapping from section-start line numbers to
// sections. Missing entries are created on first access via At, so both
// parsing passes can populate sections without pre-registering them.
type SectionTable struct {
	sections map[int]*Section
}

// NewSectionTable creates an empty section table.
func NewSectionTable() *SectionTable {
	return &SectionTable{sections: make(map[int]*Section)}
}

// At returns the section starting at the given line, inserting an empty one
// if it does not exist yet.
func (t *SectionTable) At(line int) *Section {
	sec, ok := t.sections[line]
	if !ok {
		sec = &Section{}
		t.sections[line] = sec
	}
	return sec
}

// Has reports whether a section already starts at the given line. Unlike At,
// it never creates an entry.
func (t *SectionTable) Has(line int) bool {
	_, ok := t.sections[line]
	return ok
}

// Len returns the number of sections in the table.
func (t *SectionTable) Len() int {
	return len(t.sections)
}

// Keys returns the section-start line numbers in ascending order.
func (t *SectionTable) Keys() []int {
	keys := make([]int, 0, len(t.sections))
	for line := range t.sections {
		keys = append(keys, line)
	}
	sort.Ints(keys)
	return keys
}

// Ordered returns the sections as a sequence sorted by start line, ready to
// be handed to a renderer.
func (t *SectionTable) Ordered() []NumberedSection {
	out := make([]NumberedSection, 0, len(t.sections))
	for _, line := range t.Keys() {
		sec := t.sections[line]
		out = append(out, NumberedSection{Line: line, Docs: sec.Docs, Code: sec.Code})
	}
	return out
}
