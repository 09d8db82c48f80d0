package stream

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdown = goldmark.New()

	closingFence = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})[ \t]*(\r?\n|$)")
	openingTag   = regexp.MustCompile(`(?i)<(` + strings.Join(containerTags, "|") + `)\b[^>]*>`)
	closingTags  = func() map[string]*regexp.Regexp {
		m := make(map[string]*regexp.Regexp, len(containerTags))
		for _, tag := range containerTags {
			m[tag] = regexp.MustCompile(`(?i)</` + tag + `\s*>`)
		}
		return m
	}()
)

var containerTags = []string{"html", "body", "main", "section", "article", "header", "div"}

// ExtractHTML finds the HTML fragment in an assistant message. A closed
// fenced code block tagged html (or untagged and containing markup) wins;
// otherwise the outermost container element is used. The result depends
// only on msg, so repeated calls agree.
func ExtractHTML(msg string) (string, bool) {
	if html, ok := fencedHTML(msg); ok {
		return html, true
	}
	return containerHTML(msg)
}

func fencedHTML(src string) (string, bool) {
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var found string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		body, end, ok := blockBody(block, source)
		if !ok || !closingFence.Match(source[end:]) {
			return ast.WalkContinue, nil
		}
		switch strings.ToLower(string(block.Language(source))) {
		case "html", "htm":
		case "":
			if !strings.Contains(body, "<") {
				return ast.WalkContinue, nil
			}
		default:
			return ast.WalkContinue, nil
		}
		found = strings.TrimSpace(body)
		return ast.WalkStop, nil
	})
	return found, found != ""
}

// blockBody returns the block's content and the offset just past it.
func blockBody(block *ast.FencedCodeBlock, source []byte) (string, int, bool) {
	lines := block.Lines()
	if lines.Len() == 0 {
		return "", 0, false
	}
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	end := lines.At(lines.Len() - 1).Stop
	return b.String(), end, true
}

func containerHTML(src string) (string, bool) {
	loc := openingTag.FindStringSubmatchIndex(src)
	if loc == nil {
		return "", false
	}
	start := loc[0]
	closers := closingTags[strings.ToLower(src[loc[2]:loc[3]])]
	matches := closers.FindAllStringIndex(src[loc[1]:], -1)
	if len(matches) == 0 {
		return "", false
	}
	end := loc[1] + matches[len(matches)-1][1]
	return src[start:end], true
}
