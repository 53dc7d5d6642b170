package markdown

import (
	"strings"

	md "gitlab.com/golang-commonmark/markdown"
)

// Document is the result of a full parse: links plus statistics.
type Document struct {
	Links Links `json:"links"`
	Stats Stats `json:"stats"`
}

// Parse extracts links and statistics in a single pass.
func Parse(content []byte, relPath string, size int64) Document {
	a := analyze(content, relPath)
	return Document{Links: a.links, Stats: a.stats(content, relPath, size)}
}

var parser = md.New(md.HTML(true), md.Linkify(true), md.Tables(true))

type analysis struct {
	frontmatter  Frontmatter
	body         string
	links        Links
	firstHeading string
	firstPara    string
	headings     int
}

func analyze(content []byte, relPath string) analysis {
	fm, body := SplitFrontmatter(content)
	a := analysis{frontmatter: fm, body: string(body)}
	links := newLinkSet(relPath)

	tokens := parser.Parse(body)
	var inHeading, inPara bool
	for _, tok := range tokens {
		switch t := tok.(type) {
		case *md.HeadingOpen:
			a.headings++
			inHeading = true
		case *md.HeadingClose:
			inHeading = false
		case *md.ParagraphOpen:
			inPara = true
		case *md.ParagraphClose:
			inPara = false
		case *md.Inline:
			if inHeading && a.firstHeading == "" {
				a.firstHeading = inlineText(t.Children)
			}
			if inPara && a.firstPara == "" {
				a.firstPara = inlineText(t.Children)
			}
			collectLinks(t.Children, links)
		}
	}

	for _, target := range wikiTargets(a.body) {
		links.add(target)
	}
	a.links = links.result()
	return a
}

func collectLinks(children []md.Token, links *linkSet) {
	for _, tok := range children {
		switch t := tok.(type) {
		case *md.LinkOpen:
			links.add(t.Href)
		case *md.Image:
			links.add(t.Src)
		}
	}
}

// inlineText flattens inline tokens to plain text.
func inlineText(children []md.Token) string {
	var b strings.Builder
	for _, tok := range children {
		switch t := tok.(type) {
		case *md.Text:
			b.WriteString(t.Content)
		case *md.CodeInline:
			b.WriteString(t.Content)
		case *md.Softbreak, *md.Hardbreak:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
