package fetch

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var referencesRe = regexp.MustCompile(`(?is)\n\s*references\s*\n.*$`)

// ExtractText reduces an HTML document to its visible text. Script and
// style subtrees are skipped, block elements become line breaks.
func ExtractText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		// html.Parse is forgiving; treat a hard failure as plain text
		return strings.TrimSpace(rawHTML)
	}

	var b strings.Builder
	walkText(doc, &b)

	return collapseBlankLines(b.String())
}

func walkText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "nav", "header", "footer":
			return
		}
	}

	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(text)
			b.WriteString(" ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, b)
	}

	if n.Type == html.ElementNode && isBlockElement(n.Data) {
		b.WriteString("\n")
	}
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "br", "li", "tr",
		"h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre":
		return true
	}
	return false
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// StripReferences removes the trailing bibliography of a paper page.
// Citation lists add noise to retrieval without stating claims.
func StripReferences(text string) string {
	return strings.TrimSpace(referencesRe.ReplaceAllString("\n"+text+"\n", ""))
}
