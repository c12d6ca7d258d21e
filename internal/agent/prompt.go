package agent

import (
	"fmt"
	"strings"

	"github.com/joaopdss/news-article-agent/internal/article"
)

// summaryPrompt asks the model to summarize one freshly extracted page.
func summaryPrompt(art article.Article) string {
	var b strings.Builder
	b.WriteString("You are a news assistant. Summarize the following article in a few sentences, covering the key facts and why they matter.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", art.Title)
	if art.Date != "" {
		fmt.Fprintf(&b, "Date: %s\n", art.Date)
	}
	fmt.Fprintf(&b, "URL: %s\n\n", art.URL)
	b.WriteString("Article:\n")
	b.WriteString(art.Content)
	return b.String()
}

// groundingPrompt asks the model to answer from the retrieved articles
// only. The model is told to acknowledge gaps rather than speculate.
func groundingPrompt(query string, sources []article.Source) string {
	var b strings.Builder
	b.WriteString("You are a news assistant. Answer the user's question using only the information in the articles below. ")
	b.WriteString("If the articles do not contain the answer, say so plainly instead of guessing.\n\n")
	for i, src := range sources {
		fmt.Fprintf(&b, "Article %d:\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", src.Title)
		if src.Date != "" {
			fmt.Fprintf(&b, "Date: %s\n", src.Date)
		}
		fmt.Fprintf(&b, "URL: %s\n", src.URL)
		fmt.Fprintf(&b, "Content: %s\n\n", src.Content)
	}
	fmt.Fprintf(&b, "Question: %s", query)
	return b.String()
}
