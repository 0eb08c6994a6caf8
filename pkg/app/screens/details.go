package screens

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/services"
)

type DetailsScreen struct {
	ctx        context.Context
	controller *services.BookController
	width      int
	height     int
	notice     string
	err        error
}

func NewDetailsScreen(ctx context.Context, controller *services.BookController) *DetailsScreen {
	return &DetailsScreen{
		ctx:        ctx,
		controller: controller,
	}
}

func (s *DetailsScreen) Init() tea.Cmd {
	s.notice = ""
	s.err = nil
	return nil
}

func (s *DetailsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "f":
			book, ok := s.controller.Selected()
			if !ok {
				return s, nil
			}
			if err := s.controller.AddFavorite(s.ctx, book); err != nil {
				s.err = err
			} else {
				s.err = nil
				s.notice = "Added to favorites"
			}
		case "esc", "backspace":
			s.controller.ClearSelection()
			return s, switchTo("back")
		}
	}

	return s, nil
}

func (s *DetailsScreen) View() string {
	book, ok := s.controller.Selected()
	if s.width == 0 || !ok {
		return "Loading..."
	}

	title := book.Title()
	if title == "" {
		title = book.ID
	}
	header := styles.TitleStyle.Render(fmt.Sprintf("📖 %s", title))
	if s.controller.IsFavorite(book.ID) {
		header += " " + styles.FavoriteStyle.Render("★ favorite")
	}

	authors := book.AuthorList()
	if authors == "" {
		authors = "Unknown"
	}
	published := book.VolumeInfo.PublishedDate
	if published == "" {
		published = "Unknown"
	}
	description := book.VolumeInfo.Description
	if description == "" {
		description = "No description available."
	}

	lines := []string{
		styles.LabelStyle.Render("Authors: ") + styles.TextStyle.Render(authors),
		styles.LabelStyle.Render("Published Date: ") + styles.TextStyle.Render(published),
		"",
		styles.TextStyle.Render(description),
	}
	if thumb := book.Thumbnail(); thumb != "" {
		lines = append(lines, "", styles.MutedStyle.Render(thumb))
	}

	info := styles.CardStyle.Width(max(s.width-4, 20)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	var status string
	if s.err != nil {
		status = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	} else if s.notice != "" {
		status = styles.FavoriteStyle.Render(s.notice)
	}

	help := styles.HelpStyle.Render("f: add to favorites • esc: back • q: quit")

	return fmt.Sprintf("%s\n\n%s\n%s\n%s", header, info, status, help)
}
