package parser

import (
	"regexp"
	"strings"
)

var (
	commentPattern  = regexp.MustCompile(`^\s*#`)
	encodingPattern = regexp.MustCompile(`coding[:=]`)
)

// scanLines is the second parsing pass. It walks every physical source line,
// accumulating comment blocks and filing code lines into the section table.
// Lines in the skip set (docstring literals) and filtered lines (shebang,
// encoding declaration) contribute to no section.
func scanLines(src string, table *SectionTable, skip map[int]bool) {
	var (
		pending        string
		hasPending     bool
		currentSection int
		hasSection     bool
	)

	for i, line := range splitSourceLines(src) {
		if skip[i] || shouldFilter(line, i) {
			continue
		}

		// A comment line either opens a new pending comment block or
		// extends the one already underway.
		if commentPattern.MatchString(line) {
			comment := commentPattern.ReplaceAllString(line, "")
			if !hasPending {
				pending = comment
				hasPending = true
			} else {
				pending += "\n" + comment
			}
			continue
		}

		// Anything else is a code line, blank lines included.
		if hasPending && pending != "" {
			// The pending comment block starts a new section at this line.
			// If the tree walk already recorded docs here (a definition with
			// a docstring), the comment goes in front of them.
			text := strings.TrimSpace(pending)
			sec := table.At(i)
			if len(sec.Docs) > 0 {
				sec.Docs = append([]string{text}, sec.Docs...)
			} else {
				sec.Docs = append(sec.Docs, text)
			}
			pending = ""
			hasPending = false
			currentSection = i
			hasSection = true
		} else if !hasSection && line != "" {
			// First code line of the file; leading blank lines are dropped.
			currentSection = i
			hasSection = true
		}

		// A docstring target line always starts its own section, whatever
		// section was current before.
		if table.Has(i) {
			currentSection = i
			hasSection = true
		}

		if hasSection {
			sec := table.At(currentSection)
			sec.Code = append(sec.Code, line)
		}
	}
}

// shouldFilter reports whether a line is excluded from scanning entirely: a
// shebang on line 0, or an encoding declaration comment on line 0 or 1.
func shouldFilter(line string, num int) bool {
	if num == 0 && strings.HasPrefix(line, "#!") {
		return true
	}
	if num < 2 && strings.HasPrefix(line, "#") && encodingPattern.MatchString(line) {
		return true
	}
	return false
}

// splitSourceLines splits source text into physical lines without producing
// a phantom empty line for a trailing newline.
func splitSourceLines(src string) []string {
	if src == "" {
		return nil
	}
	lines := strings.Split(src, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
