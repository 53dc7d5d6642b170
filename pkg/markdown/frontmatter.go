package markdown

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the metadata fields read from a document header.
type Frontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Tags        any    `yaml:"tags"`
}

// TagList normalizes the tags field, which may be a YAML list or a
// comma-separated string.
func (f Frontmatter) TagList() []string {
	var raw []string
	switch v := f.Tags.(type) {
	case string:
		raw = strings.Split(v, ",")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	var tags []string
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SplitFrontmatter separates a leading YAML block from the body.
// The block is stripped even when it fails to decode; the returned
// Frontmatter is then empty.
func SplitFrontmatter(content []byte) (Frontmatter, []byte) {
	var fm Frontmatter

	first, rest, ok := cutLine(content)
	if !ok || strings.TrimSpace(string(first)) != "---" {
		return fm, content
	}

	var header bytes.Buffer
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = cutLine(rest)
		switch strings.TrimSpace(string(line)) {
		case "---", "...":
			if err := yaml.Unmarshal(header.Bytes(), &fm); err != nil {
				return Frontmatter{}, rest
			}
			return fm, rest
		}
		header.Write(line)
		header.WriteByte('\n')
	}

	// Unterminated fence: not frontmatter.
	return Frontmatter{}, content
}

func cutLine(b []byte) (line, rest []byte, found bool) {
	if len(b) == 0 {
		return nil, nil, false
	}
	line, rest, found = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, true
}
