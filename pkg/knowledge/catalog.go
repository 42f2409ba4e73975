package knowledge

import (
	"context"
	"regexp"
	"strings"
)

// Item is one curated question/answer pair.
type Item struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Catalog resolves free-text questions against a fixed answer set using
// token-set Jaccard similarity. Catalog order is significant: on tied scores
// the earlier entry wins.
type Catalog struct {
	items []Item
}

func NewCatalog(items []Item) *Catalog {
	return &Catalog{items: items}
}

// DefaultCatalog returns the built-in answer set served by the knowledge
// endpoint when no external catalog is configured.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Item{
		{
			Question: "What is the Hub Nice State app?",
			Answer:   "Hub Nice State is a framework-free SPA that hosts multiple AI containers.",
		},
		{
			Question: "How do I reset my password?",
			Answer:   "Use the reset link on the login page or contact an administrator.",
		},
		{
			Question: "Where are knowledge files stored?",
			Answer:   "Knowledge files are persisted on the backend service for all users.",
		},
	})
}

var wordPattern = regexp.MustCompile(`\w+`)

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(s), -1) {
		set[w] = struct{}{}
	}
	return set
}

// JaccardSimilarity scores two strings as |intersection| / |union| of their
// lowercase word-token sets. Two empty token sets score 0.
func JaccardSimilarity(a, b string) float64 {
	aSet := tokenSet(a)
	bSet := tokenSet(b)

	intersection := 0
	for w := range aSet {
		if _, ok := bSet[w]; ok {
			intersection++
		}
	}
	union := len(aSet) + len(bSet) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// BestAnswer returns the answer of the highest-scoring entry, but only when
// its score is strictly greater than zero.
func (c *Catalog) BestAnswer(question string) (string, bool) {
	bestScore := 0.0
	bestAnswer := ""
	for _, item := range c.items {
		score := JaccardSimilarity(question, item.Question)
		if score > bestScore {
			bestScore = score
			bestAnswer = item.Answer
		}
	}
	if bestScore > 0 {
		return bestAnswer, true
	}
	return "", false
}

// Resolve adapts the catalog to the resolver contract used by the chat flow.
func (c *Catalog) Resolve(_ context.Context, query string) (string, bool) {
	return c.BestAnswer(query)
}
