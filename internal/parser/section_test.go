package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionTable_AtCreatesOnce(t *testing.T) {
	table := NewSectionTable()
	assert.False(t, table.Has(3))

	sec := table.At(3)
	sec.Code = append(sec.Code, "x = 1")

	assert.True(t, table.Has(3))
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, []string{"x = 1"}, table.At(3).Code)
}

func TestSectionTable_KeysAscending(t *testing.T) {
	table := NewSectionTable()
	for _, line := range []int{9, 0, 17, 3} {
		table.At(line)
	}
	assert.Equal(t, []int{0, 3, 9, 17}, table.Keys())
}

func TestSectionTable_Ordered(t *testing.T) {
	table := NewSectionTable()
	table.At(5).Code = []string{"b"}
	table.At(1).Docs = []string{"first"}

	out := table.Ordered()
	assert.Equal(t, 1, out[0].Line)
	assert.Equal(t, []string{"first"}, out[0].Docs)
	assert.Equal(t, 5, out[1].Line)
	assert.Equal(t, []string{"b"}, out[1].Code)
}
