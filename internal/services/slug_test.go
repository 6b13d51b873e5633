package services

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugPattern = regexp.MustCompile(`^for-[a-z0-9-]*-[A-Za-z0-9]{6}$`)

func TestGenerateSlugStructure(t *testing.T) {
	inputs := []string{
		"Ananya",
		"Someone Special",
		"  spaced   out  ",
		"émilie São João",
		"!!!",
		"café-au-lait",
		"a",
		"ALLCAPS",
		"name.with.dots",
		"a-very-long-crush-name-that-goes-on-and-on-forever",
	}

	for _, input := range inputs {
		slug := GenerateSlug(input)
		assert.Regexp(t, slugPattern, slug, "input %q", input)
	}
}

func TestGenerateSlugCleansName(t *testing.T) {
	slug := GenerateSlug("Ananya!! Sharma")
	assert.True(t, strings.HasPrefix(slug, "for-ananya-sharma-"), "got %q", slug)
}

func TestGenerateSlugCollapsesSeparatorRuns(t *testing.T) {
	slug := GenerateSlug("a   b...c")
	assert.True(t, strings.HasPrefix(slug, "for-a-b-c-"), "got %q", slug)
}

func TestGenerateSlugEmptyNameDegenerates(t *testing.T) {
	// A name with no usable characters degenerates to "for--<token>".
	for _, input := range []string{"", "!!!", "   ", "💕💕"} {
		slug := GenerateSlug(input)
		assert.True(t, strings.HasPrefix(slug, "for--"), "input %q got %q", input, slug)
		assert.Regexp(t, slugPattern, slug)
	}
}

func TestGenerateSlugTruncatesLongNames(t *testing.T) {
	slug := GenerateSlug(strings.Repeat("a", 100))
	// "for-" + 30-char name + "-" + 6-char token.
	assert.Len(t, slug, len("for-")+30+1+6)
	assert.Regexp(t, slugPattern, slug)
}

func TestGenerateSlugTokensDiffer(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		slug := GenerateSlug("ananya")
		assert.False(t, seen[slug], "duplicate slug %q", slug)
		seen[slug] = true
	}
}
