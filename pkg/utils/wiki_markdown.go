package utils

import (
	"fmt"
	"strings"
)

// Section headers that add no retrievable content.
var skippedWikiSections = map[string]bool{
	"see also":        true,
	"references":      true,
	"external links":  true,
	"further reading": true,
}

// BuildMarkdownDocument converts a raw wiki article into a structured
// markdown string suitable for chunking. The summary becomes the first
// section, text before the first "== Header ==" becomes the Introduction,
// and boilerplate sections (references, see also, ...) are dropped.
func BuildMarkdownDocument(title, summary, content string) string {
	parts := []string{
		fmt.Sprintf("## %s--Summary\n%s\n", title, strings.TrimSpace(summary)),
	}

	sections := strings.Split(content, "\n== ")
	for idx, section := range sections {
		if idx == 0 {
			if s := strings.TrimSpace(section); s != "" {
				parts = append(parts, fmt.Sprintf("## Introduction\n%s\n", s))
			}
			continue
		}
		if !strings.Contains(section, "==") {
			continue
		}

		header, body, _ := strings.Cut(section, "==")
		header = strings.Trim(strings.TrimSpace(header), "=")
		if skippedWikiSections[strings.ToLower(header)] {
			continue
		}
		parts = append(parts, fmt.Sprintf("## %s\n%s\n", header, strings.TrimSpace(body)))
	}

	return strings.Join(parts, "\n\n")
}

// SplitMarkdownSections splits a markdown document into per-header chunks.
// Every "## " heading starts a new chunk and the heading line is kept with
// its body.
func SplitMarkdownSections(markdown string) []string {
	var chunks []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunk := strings.TrimSpace(strings.Join(current, "\n"))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		current = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "## ") {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return chunks
}
