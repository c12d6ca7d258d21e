// Package article defines the core data model for extracted news content.
package article

// Article is the structured content extracted from a news page.
// It is immutable once produced by the extractor; the URL acts as the
// stable identity of the article in the vector index.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
	// Date is the publication date in YYYY-MM-DD form, or empty when
	// the page does not expose one.
	Date string `json:"date"`
}

// Source is the read view of an article returned to callers.
//
// Content is populated only while building grounding prompts and must be
// stripped before a Source leaves the process; the json tag omits it when
// empty so external responses never carry it.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Date    string `json:"date"`
	Content string `json:"content,omitempty"`
}

// Source derives the read view of the article, including content for
// internal prompt construction.
func (a Article) Source() Source {
	return Source{
		Title:   a.Title,
		URL:     a.URL,
		Date:    a.Date,
		Content: a.Content,
	}
}

// Stripped returns a copy of the source with the content field removed.
func (s Source) Stripped() Source {
	s.Content = ""
	return s
}

// StripContent removes the content field from every source in place and
// returns the slice for convenience.
func StripContent(sources []Source) []Source {
	for i := range sources {
		sources[i].Content = ""
	}
	return sources
}
