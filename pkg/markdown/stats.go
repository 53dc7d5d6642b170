package markdown

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"
)

// MaxDescriptionRunes bounds descriptions taken from the first paragraph.
const MaxDescriptionRunes = 200

// Stats summarizes a document for display.
type Stats struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	WordCount    int      `json:"word_count"`
	LineCount    int      `json:"line_count"`
	HeadingCount int      `json:"heading_count"`
	Size         int64    `json:"size"`
	SizeLabel    string   `json:"size_label"`
}

// ComputeStats derives display statistics for a document.
func ComputeStats(content []byte, relPath string, size int64) Stats {
	return analyze(content, relPath).stats(content, relPath, size)
}

func (a analysis) stats(content []byte, relPath string, size int64) Stats {
	s := Stats{
		Title:        a.frontmatter.Title,
		Description:  a.frontmatter.Description,
		Tags:         a.frontmatter.TagList(),
		WordCount:    len(strings.Fields(a.body)),
		LineCount:    countLines(content),
		HeadingCount: a.headings,
		Size:         size,
		SizeLabel:    FormatSize(size),
	}
	if s.Title == "" {
		s.Title = a.firstHeading
	}
	if s.Title == "" {
		s.Title = strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))
	}
	if s.Description == "" {
		s.Description = truncate(a.firstPara, MaxDescriptionRunes)
	}
	return s
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := strings.Count(string(content), "\n")
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max])) + "…"
}

// FormatSize renders a byte count as "512 B", "1.2 KB" or "3.4 MB".
func FormatSize(size int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case size < kb:
		return fmt.Sprintf("%d B", size)
	case size < mb:
		return fmt.Sprintf("%.1f KB", float64(size)/kb)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/mb)
	}
}
