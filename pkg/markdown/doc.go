// Package markdown extracts links and document statistics from markdown
// source.
//
// Link extraction walks the CommonMark token stream produced by
// gitlab.com/golang-commonmark/markdown, so inline links, reference links and
// autolinks are recognised the way a renderer would see them. Wiki links
// ([[target]] and [[target|alias]]) are matched separately outside fenced code.
//
// Internal targets are resolved to root-relative, slash-separated paths:
//
//	ParseLinks([]byte("[x](../b.md#top)"), "guides/a.md").Internal // ["b.md"]
//
// Targets without an extension get ".md" appended, targets escaping the root
// are dropped, and only document extensions (see [DocumentExtensions]) are
// kept. Existence is not checked here; that is the graph builder's job.
//
// YAML frontmatter between leading "---" fences is decoded with
// gopkg.in/yaml.v3 and feeds [Stats]. Malformed frontmatter is ignored.
package markdown
