package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/data"
)

type BookListItem struct {
	Book     data.Book
	Favorite bool
}

type BookList struct {
	Items         []BookListItem
	SelectedIndex int
	Width         int
	Height        int
	// Active controls whether the selection is highlighted.
	Active        bool
	EmptyText     string
}

func NewBookList(emptyText string) *BookList {
	return &BookList{
		Items:         []BookListItem{},
		SelectedIndex: 0,
		Width:         80,
		Height:        20,
		Active:        true,
		EmptyText:     emptyText,
	}
}

func (m *BookList) SetItems(items []BookListItem) {
	m.Items = items
	if m.SelectedIndex >= len(items) && len(items) > 0 {
		m.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		m.SelectedIndex = 0
	}
}

// SetBooks replaces the items, marking those for which favorite reports true.
func (m *BookList) SetBooks(books []data.Book, favorite func(id string) bool) {
	items := make([]BookListItem, len(books))
	for i, b := range books {
		items[i] = BookListItem{Book: b}
		if favorite != nil {
			items[i].Favorite = favorite(b.ID)
		}
	}
	m.SetItems(items)
}

func (m *BookList) Next() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex++
	if m.SelectedIndex >= len(m.Items) {
		m.SelectedIndex = 0
	}
}

func (m *BookList) Prev() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex--
	if m.SelectedIndex < 0 {
		m.SelectedIndex = len(m.Items) - 1
	}
}

func (m *BookList) Selected() *BookListItem {
	if len(m.Items) == 0 || m.SelectedIndex >= len(m.Items) {
		return nil
	}
	return &m.Items[m.SelectedIndex]
}

func (m *BookList) View() string {
	if len(m.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render(m.EmptyText)
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder
	for i, item := range m.Items {
		cardStyle := styles.CardStyle
		if m.Active && i == m.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		title := item.Book.Title()
		if title == "" {
			title = item.Book.ID
		}
		heading := styles.BookTitleStyle.Render(title)
		if item.Favorite {
			heading += " " + styles.FavoriteStyle.Render("★")
		}

		authors := item.Book.AuthorList()
		if authors == "" {
			authors = "Unknown author"
		}

		lines := []string{heading, styles.TextStyle.Render(authors)}
		if date := item.Book.VolumeInfo.PublishedDate; date != "" {
			lines = append(lines, styles.MutedStyle.Render(fmt.Sprintf("Published %s", date)))
		}

		card := cardStyle.Width(max(m.Width-4, 20)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
		b.WriteString(card)
		b.WriteString("\n")
	}

	return b.String()
}

// Truncate shortens s to at most n runes, ending with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 4 {
		return s
	}
	return string(r[:n-3]) + "..."
}
