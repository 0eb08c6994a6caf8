package screens

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/bookshelf/pkg/app/components"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/integrations"
	"github.com/kerbaras/bookshelf/pkg/services"
)

type shelfSection int

const (
	favoritesSection shelfSection = iota
	recentSection
)

// ShelfScreen shows the persisted favorites next to the recently viewed
// history.
type ShelfScreen struct {
	ctx        context.Context
	controller *services.BookController
	opts       Options

	section   shelfSection
	favorites *components.BookList
	recent    *components.BookList
	exporting bool

	width  int
	height int
	notice string
	err    error
}

func NewShelfScreen(ctx context.Context, controller *services.BookController, opts Options) *ShelfScreen {
	recent := components.NewBookList("Nothing viewed yet")
	recent.Active = false

	return &ShelfScreen{
		ctx:        ctx,
		controller: controller,
		opts:       opts,
		favorites:  components.NewBookList("No favorites yet"),
		recent:     recent,
	}
}

func (s *ShelfScreen) Init() tea.Cmd {
	s.favorites.SetBooks(s.controller.Favorites(), nil)
	s.recent.SetBooks(s.controller.RecentlyViewed(), s.controller.IsFavorite)
	return nil
}

func (s *ShelfScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.favorites.Width = msg.Width / 2
		s.recent.Width = msg.Width / 2
		s.favorites.Height = msg.Height - 10
		s.recent.Height = msg.Height - 10

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "right", "l":
			s.toggleSection()
		case "up", "k":
			s.activeList().Prev()
		case "down", "j":
			s.activeList().Next()
		case "enter":
			if selected := s.activeList().Selected(); selected != nil {
				if err := s.controller.SelectBook(selected.Book); err != nil {
					s.err = err
					return s, nil
				}
				return s, switchTo("details")
			}
		case "e":
			if s.exporting {
				return s, nil
			}
			s.exporting = true
			s.notice = "Exporting..."
			s.err = nil
			return s, s.export()
		}

	case exportDoneMsg:
		s.exporting = false
		if msg.err != nil {
			s.notice = ""
			s.err = msg.err
			if errors.Is(msg.err, integrations.ErrNothingToExport) {
				s.err = nil
				s.notice = "Add some favorites before exporting"
			}
		} else {
			s.notice = fmt.Sprintf("Exported to %s", msg.path)
		}
	}

	return s, nil
}

func (s *ShelfScreen) toggleSection() {
	if s.section == favoritesSection {
		s.section = recentSection
	} else {
		s.section = favoritesSection
	}
	s.favorites.Active = s.section == favoritesSection
	s.recent.Active = s.section == recentSection
}

func (s *ShelfScreen) activeList() *components.BookList {
	if s.section == recentSection {
		return s.recent
	}
	return s.favorites
}

func (s *ShelfScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	favHeader := styles.SubtitleStyle.Render(fmt.Sprintf("★ Favorites (%d)", len(s.favorites.Items)))
	recentHeader := styles.SubtitleStyle.Render(fmt.Sprintf("Recently viewed (%d)", len(s.recent.Items)))

	left := favHeader + "\n\n" + s.favorites.View()
	right := recentHeader + "\n\n" + s.recent.View()
	columns := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	var status string
	if s.err != nil {
		status = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	} else if s.notice != "" {
		status = styles.FavoriteStyle.Render(s.notice)
	}

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: navigate • ←/→: switch list • enter: details • e: export EPUB • tab: search • q: quit",
	)

	return fmt.Sprintf("%s\n%s\n%s", columns, status, help)
}

type exportDoneMsg struct {
	path string
	err  error
}

// export snapshots the favorites and builds the reading list off the
// update loop.
func (s *ShelfScreen) export() tea.Cmd {
	books := s.controller.Favorites()
	opts := s.opts.Export
	name := "Reader"
	if session, ok := s.controller.Session(); ok {
		name = session.DisplayName
	}
	opts.Owner = name
	opts.Title = fmt.Sprintf("%s's favorites", name)
	out := filepath.Join(s.opts.ExportDir, integrations.SanitizeFilename(opts.Title)+".epub")
	ctx := s.ctx

	return func() tea.Msg {
		path, err := integrations.NewReadingListBuilder(opts).Build(ctx, books, out)
		return exportDoneMsg{path: path, err: err}
	}
}
