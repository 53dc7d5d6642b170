package markdown

import (
	"net/url"
	"path"
	"regexp"
	"slices"
	"strings"
)

// DocumentExtensions are the file extensions treated as linkable documents.
var DocumentExtensions = []string{".md", ".markdown", ".mdx"}

// ExternalLink is an http(s) link leaving the document tree.
type ExternalLink struct {
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

// Links are the outgoing links of one document.
type Links struct {
	Internal []string       `json:"internal"`
	External []ExternalLink `json:"external"`
}

// IsDocument reports whether a path has a document extension.
func IsDocument(p string) bool {
	return slices.Contains(DocumentExtensions, strings.ToLower(path.Ext(p)))
}

// ParseLinks extracts internal and external links from a document located at
// relPath (root-relative, slash-separated).
func ParseLinks(content []byte, relPath string) Links {
	return analyze(content, relPath).links
}

// linkSet accumulates links with first-seen de-duplication.
type linkSet struct {
	relPath  string
	seen     map[string]bool
	seenURL  map[string]bool
	internal []string
	external []ExternalLink
}

func newLinkSet(relPath string) *linkSet {
	return &linkSet{relPath: relPath, seen: map[string]bool{}, seenURL: map[string]bool{}}
}

func (s *linkSet) add(target string) {
	target = strings.TrimSpace(target)
	if target == "" || strings.HasPrefix(target, "#") {
		return
	}
	if u, err := url.Parse(target); err == nil && (u.Scheme != "" || u.Host != "") {
		s.addExternal(u)
		return
	}
	if p, ok := ResolvePath(s.relPath, target); ok && !s.seen[p] {
		s.seen[p] = true
		s.internal = append(s.internal, p)
	}
}

func (s *linkSet) addExternal(u *url.URL) {
	if u.Scheme != "http" && u.Scheme != "https" {
		return
	}
	if u.Host == "" {
		return
	}
	raw := u.String()
	if s.seenURL[raw] {
		return
	}
	s.seenURL[raw] = true
	s.external = append(s.external, ExternalLink{URL: raw, Domain: strings.ToLower(u.Hostname())})
}

func (s *linkSet) result() Links {
	return Links{Internal: s.internal, External: s.external}
}

// ResolvePath resolves a link target written in the document at relPath to a
// root-relative path. It reports false for targets that escape the root or
// are not documents.
func ResolvePath(relPath, target string) (string, bool) {
	if i := strings.IndexAny(target, "#?"); i >= 0 {
		target = target[:i]
	}
	if target == "" {
		return "", false
	}
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}

	var p string
	if strings.HasPrefix(target, "/") {
		p = path.Clean(strings.TrimLeft(target, "/"))
	} else {
		p = path.Join(path.Dir(relPath), target)
	}
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	if path.Ext(p) == "" {
		p += ".md"
	}
	if !IsDocument(p) {
		return "", false
	}
	return p, true
}

var wikiLinkRe = regexp.MustCompile(`\[\[([^\[\]|\n]+)(?:\|[^\[\]\n]*)?\]\]`)

// wikiTargets returns [[target]] references outside fenced code blocks.
func wikiTargets(body string) []string {
	var (
		targets []string
		fence   string
	)
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
			continue
		}
		for _, m := range wikiLinkRe.FindAllStringSubmatch(line, -1) {
			targets = append(targets, strings.TrimSpace(m[1]))
		}
	}
	return targets
}
