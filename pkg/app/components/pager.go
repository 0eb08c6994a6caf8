package components

import (
	"fmt"
	"strings"

	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/services"
	"github.com/kerbaras/bookshelf/pkg/sources"
)

// StatusLine renders the search status and its message, if any.
func StatusLine(state services.SearchState) string {
	status := state.Status.String()
	style := styles.StatusStyle(status)

	switch state.Status {
	case services.StatusIdle:
		if state.Message == "" {
			return styles.MutedStyle.Render("Type to search the catalog")
		}
	case services.StatusLoading:
		return style.Render("Searching...")
	case services.StatusSuccess:
		return style.Render(fmt.Sprintf("%d results", state.TotalItems))
	}
	return style.Render(state.Message)
}

// Pager renders the page indicator, greying out the directions that do
// nothing.
func Pager(state services.SearchState) string {
	var b strings.Builder

	prev := "← prev"
	if state.Offset == 0 {
		b.WriteString(styles.MutedStyle.Render(prev))
	} else {
		b.WriteString(styles.TextStyle.Render(prev))
	}

	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("  page %d  ", state.PageNumber())))
	b.WriteString(styles.TextStyle.Render("next →"))

	sortLabel := "relevance"
	if state.Sort == sources.SortNewest {
		sortLabel = "newest"
	}
	b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("   sort: %s", sortLabel)))

	return b.String()
}
