package ingestion

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
	multiSpacePattern   = regexp.MustCompile(`[ \t]+`)
)

// CleanHTML reduces a page to its main content as plain text. Headings become
// "#"-prefixed lines carrying their level, paragraphs and list items become
// lines, and script/style content is discarded.
func CleanHTML(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	root := mainContent(doc)

	var lines []string
	collectBlocks(root, &lines)

	text := strings.Join(lines, "\n")
	text = multiSpacePattern.ReplaceAllString(text, " ")
	text = multiNewlinePattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}

// mainContent picks the most specific content container available.
func mainContent(doc *html.Node) *html.Node {
	for _, tag := range []string{"article", "main", "body"} {
		if n := findElement(doc, tag); n != nil {
			return n
		}
	}
	return doc
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func collectBlocks(n *html.Node, lines *[]string) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if txt := nodeText(n); txt != "" {
				level := int(n.Data[1] - '0')
				*lines = append(*lines, "\n"+strings.Repeat("#", level)+" "+txt+"\n")
			}
			return
		case "p", "li":
			if txt := nodeText(n); txt != "" {
				*lines = append(*lines, txt)
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectBlocks(c, lines)
	}
}

// nodeText joins the trimmed text pieces below n with single spaces.
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
