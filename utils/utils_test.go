package utils

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

var wrapTests = []struct {
	in  float64
	out float64
}{
	{0, 0},
	{45, 45},
	{360, 0},
	{725, 5},
	{-90, 270},
}

func TestWrapDegrees(t *testing.T) {
	for _, test := range wrapTests {
		result := WrapDegrees(test.in)
		if result != test.out {
			t.Errorf("WrapDegrees(%v)=%v; expected %v", test.in, result, test.out)
		}
	}
}

func TestRandomNameGeneratorUnique(t *testing.T) {
	var rng RandomNameGenerator
	rng.Reserve("sun")
	seen := map[string]bool{"sun": true}
	for i := 0; i < 200; i++ {
		name := rng.RandomName()
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate name %q", name)
		seen[name] = true
	}
}

func TestRandomNameGeneratorDeterministic(t *testing.T) {
	var a, b RandomNameGenerator
	first := a.RandomName()
	second := b.RandomName()
	assert.Equal(t, first, second)
}

func TestDumpMatrix(t *testing.T) {
	out := DumpMatrix(mgl32.Translate3D(1, 2, 3))
	assert.Contains(t, out, "1.0000")
	assert.Equal(t, 4, len(splitLines(out)))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return lines
}

func TestSDump(t *testing.T) {
	out := SDump(map[string]int{"b": 2, "a": 1})
	assert.Less(t, strings.Index(out, `"a"`), strings.Index(out, `"b"`))
	assert.NotContains(t, out, "0x")
}
