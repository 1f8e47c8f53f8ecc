package parser

import "strings"

// relocateDecorators fixes up sections whose trailing lines are decorators.
// The tree walk anchors a decorated definition's section above its
// decorators, but the line scanner files decorator lines into whatever
// section precedes them. This pass pops trailing decorator lines off each
// section and pushes them onto the front of the next one, keeping their
// relative order. The last section has no successor and is left alone.
func relocateDecorators(table *SectionTable) {
	keys := table.Keys()
	for i := 0; i+1 < len(keys); i++ {
		cur := table.At(keys[i])
		next := table.At(keys[i+1])
		for len(cur.Code) > 0 {
			last := cur.Code[len(cur.Code)-1]
			if !strings.HasPrefix(strings.TrimSpace(last), "@") {
				break
			}
			cur.Code = cur.Code[:len(cur.Code)-1]
			next.Code = append([]string{last}, next.Code...)
		}
	}
}
