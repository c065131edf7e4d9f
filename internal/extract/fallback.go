package extract

import (
	"strings"

	"golang.org/x/net/html"

	"recipebox/internal/recipe"
)

const (
	SentinelName    = "sentinel"
	DefaultMaxSteps = 10
)

// Sentinel always matches with the "no structured recipe found" draft.
type Sentinel struct{}

func (Sentinel) Name() string { return SentinelName }

func (Sentinel) Extract(*Document) Result { return Matched(recipe.NotFoundDraft()) }

var ingredientKeywords = []string{"cup", "tsp", "tablespoon"}

// KeywordLines splits the main page text into lines and treats lines that
// mention a measuring unit as ingredients and the rest as steps. It only
// matches when at least one ingredient line is found.
type KeywordLines struct {
	// MaxSteps caps the steps kept. Zero means DefaultMaxSteps.
	MaxSteps int
}

func (KeywordLines) Name() string { return "keyword-lines" }

func (k KeywordLines) Extract(doc *Document) Result {
	limit := k.MaxSteps
	if limit <= 0 {
		limit = DefaultMaxSteps
	}

	d := recipe.NewDraft()
	for _, line := range strings.Split(mainText(doc.Root), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isIngredientLine(line) {
			d.Ingredients = append(d.Ingredients, line)
		} else if len(d.Instructions) < limit {
			d.Instructions = append(d.Instructions, line)
		}
	}
	if len(d.Ingredients) == 0 {
		return NoMatch()
	}
	if t := findFirst(findFirst(doc.Root, "head"), "title"); t != nil {
		d.Title = recipe.StringPtr(nodeText(t))
	}
	return Matched(d)
}

func isIngredientLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range ingredientKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// mainText returns the readable text of the page, preferring <main>, then
// <article>, then <body>, one block element per line.
func mainText(root *html.Node) string {
	content := findFirst(root, "main")
	if content == nil {
		content = findFirst(root, "article")
	}
	if content == nil {
		content = findFirst(root, "body")
	}
	if content == nil {
		return ""
	}
	var b strings.Builder
	collectText(&b, content)
	lines := strings.Split(foldCompat(b.String()), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "nav", "footer", "aside", "iframe", "form":
			return
		case "br", "hr", "p", "div", "section", "li", "ul", "ol", "tr",
			"h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n")
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "div", "section", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n")
		}
	}
}
