package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleContent = `The Go programming language was designed at Google.
It compiles quickly.

== History ==
Work on Go started in 2007.

== Syntax ==
Go uses C-like syntax.

== See also ==
Other languages.

== References ==
Citation list.

== External links ==
Links here.

== Further reading ==
Books here.`

func TestBuildMarkdownDocument(t *testing.T) {
	md := BuildMarkdownDocument("Go (programming language)", "Go is a language.", articleContent)

	assert.Contains(t, md, "## Go (programming language)--Summary\nGo is a language.")
	assert.Contains(t, md, "## Introduction\nThe Go programming language was designed at Google.")
	assert.Contains(t, md, "## History\nWork on Go started in 2007.")
	assert.Contains(t, md, "## Syntax\nGo uses C-like syntax.")

	// Boilerplate sections are dropped.
	assert.NotContains(t, md, "See also")
	assert.NotContains(t, md, "References")
	assert.NotContains(t, md, "External links")
	assert.NotContains(t, md, "Further reading")
}

func TestBuildMarkdownDocumentNoLeadText(t *testing.T) {
	md := BuildMarkdownDocument("Title", "A summary.", "\n== Only Section ==\nBody.")

	assert.NotContains(t, md, "## Introduction")
	assert.Contains(t, md, "## Title--Summary\nA summary.")
	assert.Contains(t, md, "## Only Section\nBody.")
}

func TestSplitMarkdownSections(t *testing.T) {
	md := "## First\nbody one\n\n## Second\nbody two\nmore\n\n## Third\nbody three"

	sections := SplitMarkdownSections(md)
	require.Len(t, sections, 3)
	assert.Equal(t, "## First\nbody one", sections[0])
	assert.Equal(t, "## Second\nbody two\nmore", sections[1])
	assert.Equal(t, "## Third\nbody three", sections[2])
}

func TestSplitMarkdownSectionsKeepsHeaders(t *testing.T) {
	md := BuildMarkdownDocument("Go", "Summary text.", articleContent)
	for _, section := range SplitMarkdownSections(md) {
		assert.True(t, strings.HasPrefix(section, "## "), "section %q keeps its header", section)
	}
}

func TestSplitMarkdownSectionsEmpty(t *testing.T) {
	assert.Empty(t, SplitMarkdownSections(""))
}
