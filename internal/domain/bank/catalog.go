package bank

import (
	"fmt"
	"strings"
)

// CatalogAnswerID is the synthesized answer that lists every category with courses.
const CatalogAnswerID = "general-modules"

var catalogKeywords = []string{
	"modules", "topics", "available", "what modules", "courses",
	"what topics", "catalog", "list modules", "what do you cover", "subjects",
}

var catalogNextTemplates = []string{
	"Explore the %s module",
	"What does %s cover?",
	"Dive into %s basics",
}

// addCatalog adds the module catalog answer to the global bank unless the
// content already declares one.
func addCatalog(g *Bank, labels []string) {
	if _, ok := g.Answers[CatalogAnswerID]; ok || len(labels) == 0 {
		return
	}

	lines := []string{"Here's what we cover at AWMIT:\n"}
	for i, label := range labels {
		lines = append(lines, fmt.Sprintf("<strong>%d. %s</strong>", i+1, label))
	}
	lines = append(lines, "\nPick any topic and I can tell you more about it.")

	var next []string
	for i, label := range labels {
		if i == len(catalogNextTemplates) {
			break
		}
		next = append(next, fmt.Sprintf(catalogNextTemplates[i], label))
	}

	g.addAnswer(AnswerDef{ID: CatalogAnswerID, Text: strings.Join(lines, "\n"), Next: next})
	g.Entries = append(g.Entries, Entry{Keywords: catalogKeywords, Target: AnswerRef{ID: CatalogAnswerID}})
	g.Suggestions = append(g.Suggestions, Suggestion{
		Text:     "What modules are available?",
		Keywords: []string{"modules", "available", "topics"},
	})
}
