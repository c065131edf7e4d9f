package extract

import (
	"strings"

	"golang.org/x/net/html"

	"recipebox/internal/recipe"
)

var (
	ingredientMarkers  = []string{"ingredient"}
	instructionMarkers = []string{"instruction", "direction"}
)

// ClassHeuristic reads the first <h1> and list items whose class names
// mention ingredients or instructions.
type ClassHeuristic struct{}

func (ClassHeuristic) Name() string { return "class-heuristic" }

func (ClassHeuristic) Extract(doc *Document) Result {
	d := recipe.NewDraft()
	if h1 := findFirst(doc.Root, "h1"); h1 != nil {
		d.Title = recipe.StringPtr(nodeText(h1))
	}
	d.Ingredients = classItems(doc.Root, ingredientMarkers)
	d.Instructions = classItems(doc.Root, instructionMarkers)

	if d.IsEmpty() {
		return NoMatch()
	}
	return Matched(d)
}

// classItems collects the text of every <li> carrying one of markers. An item
// that wraps other marked items is skipped in favour of the inner ones.
func classItems(root *html.Node, markers []string) []string {
	out := []string{}
	for _, li := range findAll(root, "li") {
		if !hasClassContaining(li, markers...) || hasMarkedDescendant(li, markers) {
			continue
		}
		if text := nodeText(li); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func hasMarkedDescendant(n *html.Node, markers []string) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && strings.EqualFold(c.Data, "li") && hasClassContaining(c, markers...) {
			return true
		}
		if hasMarkedDescendant(c, markers) {
			return true
		}
	}
	return false
}
