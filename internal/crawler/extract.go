package crawler

import (
	"strings"

	"golang.org/x/net/html"

	"aws-tutor/internal/models"
)

// extractDocument reads the page title, the main documentation block and its
// first heading. Pages without a main block yield ok=false.
func extractDocument(root *html.Node, pageURL string) (models.Document, bool) {
	content := findFirst(root, func(n *html.Node) bool {
		return isElement(n, "div") && hasClass(n, "main-content")
	})
	if content == nil {
		content = findFirst(root, func(n *html.Node) bool { return isElement(n, "article") })
	}
	if content == nil {
		return models.Document{}, false
	}

	text := textOf(content)
	if text == "" {
		return models.Document{}, false
	}

	var title string
	if t := findFirst(root, func(n *html.Node) bool { return isElement(n, "title") }); t != nil {
		title = strings.TrimSpace(textOf(t))
	}

	var section string
	if h := findFirst(content, func(n *html.Node) bool { return isElement(n, "h1") || isElement(n, "h2") }); h != nil {
		section = strings.Join(strings.Fields(textOf(h)), " ")
	}

	return models.Document{
		Title:   title,
		Content: text,
		URL:     pageURL,
		Section: section,
	}, true
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

// findFirst returns the first node in document order that matches.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// textOf joins the trimmed text nodes under n, one per line.
func textOf(n *html.Node) string {
	var lines []string
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if node.Type == html.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				lines = append(lines, t)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return strings.Join(lines, "\n")
}

// links returns every anchor href on the page.
func links(root *html.Node) []string {
	var hrefs []string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if isElement(n, "a") {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					hrefs = append(hrefs, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(root)
	return hrefs
}
