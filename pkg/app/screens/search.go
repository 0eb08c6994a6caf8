package screens

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/bookshelf/pkg/app/components"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/services"
	"github.com/kerbaras/bookshelf/pkg/sources"
)

type SearchScreen struct {
	ctx        context.Context
	controller *services.BookController
	input      textinput.Model
	results    *components.BookList
	width      int
	height     int
	notice     string
	err        error
}

func NewSearchScreen(ctx context.Context, controller *services.BookController) *SearchScreen {
	ti := textinput.New()
	ti.Placeholder = "Search by title or author..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	results := components.NewBookList("")
	results.Active = false

	return &SearchScreen{
		ctx:        ctx,
		controller: controller,
		input:      ti,
		results:    results,
	}
}

func (s *SearchScreen) Init() tea.Cmd {
	s.refresh()
	if s.input.Focused() {
		return textinput.Blink
	}
	return nil
}

func (s *SearchScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.results.Width = msg.Width - 2
		s.results.Height = msg.Height - 14
		return s, nil

	case tea.KeyMsg:
		s.notice = ""
		s.err = nil
		if s.input.Focused() {
			return s, s.handleInputKey(msg)
		}
		return s, s.handleResultsKey(msg)
	}

	var cmd tea.Cmd
	if s.input.Focused() {
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

func (s *SearchScreen) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		// An empty query is reported through the search state.
		f, _ := s.controller.SubmitSearch()
		s.refresh()
		return fetchCmd(f)
	case "esc", "down":
		if len(s.results.Items) > 0 {
			s.focusResults()
		}
		return nil
	case "pgdown", "ctrl+n":
		return s.paginate(services.Next)
	case "pgup", "ctrl+p":
		return s.paginate(services.Previous)
	case "ctrl+s":
		return s.toggleSort()
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() == before {
		return cmd
	}

	f, err := s.controller.SetQuery(s.input.Value())
	if err != nil {
		s.err = err
		return cmd
	}
	s.refresh()
	return tea.Batch(cmd, fetchCmd(f))
}

func (s *SearchScreen) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		s.results.Prev()
	case "down", "j":
		s.results.Next()
	case "right", "n", "pgdown":
		return s.paginate(services.Next)
	case "left", "p", "pgup":
		return s.paginate(services.Previous)
	case "s":
		return s.toggleSort()
	case "f":
		if selected := s.results.Selected(); selected != nil {
			if err := s.controller.AddFavorite(s.ctx, selected.Book); err != nil {
				s.err = err
			} else {
				s.notice = fmt.Sprintf("Added %q to favorites", selected.Book.Title())
			}
			s.refresh()
		}
	case "enter":
		if selected := s.results.Selected(); selected != nil {
			if err := s.controller.SelectBook(selected.Book); err != nil {
				s.err = err
				return nil
			}
			return switchTo("details")
		}
	case "esc", "/":
		s.results.Active = false
		return s.input.Focus()
	}
	return nil
}

func (s *SearchScreen) paginate(dir services.Direction) tea.Cmd {
	f, err := s.controller.Paginate(dir)
	if err != nil {
		s.err = err
		return nil
	}
	s.refresh()
	return fetchCmd(f)
}

func (s *SearchScreen) toggleSort() tea.Cmd {
	next := sources.SortNewest
	if s.controller.Search().Sort == sources.SortNewest {
		next = sources.SortRelevance
	}
	f, err := s.controller.SetSortOption(next)
	if err != nil {
		s.err = err
		return nil
	}
	s.refresh()
	return fetchCmd(f)
}

func (s *SearchScreen) focusResults() {
	s.input.Blur()
	s.results.Active = true
}

// refresh copies the current page into the result list.
func (s *SearchScreen) refresh() {
	s.results.SetBooks(s.controller.Search().Page, s.controller.IsFavorite)
}

// pageLoaded runs after a fetch result was applied.
func (s *SearchScreen) pageLoaded() {
	s.results.SelectedIndex = 0
	s.refresh()
}

func (s *SearchScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	state := s.controller.Search()

	header := styles.TitleStyle.Render("🔍 Search Books")

	inputStyle := styles.InputStyle
	if s.input.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	inputView := inputStyle.Render(s.input.View())

	status := components.StatusLine(state)
	if s.err != nil {
		status = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	} else if s.notice != "" {
		status = styles.FavoriteStyle.Render(s.notice)
	}

	var resultsView string
	if len(s.results.Items) > 0 {
		resultsView = s.results.View() + "\n" + components.Pager(state)
	}

	help := "enter: search • esc/↓: results • pgup/pgdn: page • ctrl+s: sort • tab: shelf • ctrl+c: quit"
	if !s.input.Focused() {
		help = "↑/k ↓/j: navigate • enter: details • f: favorite • ←/p →/n: page • s: sort • esc: edit query • q: quit"
		if state.Offset == 0 {
			help = "↑/k ↓/j: navigate • enter: details • f: favorite • →/n: next page • s: sort • esc: edit query • q: quit"
		}
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s\n%s",
		header,
		inputView,
		status,
		resultsView,
		styles.HelpStyle.Render(help),
	)
}

type fetchResultMsg struct {
	result services.FetchResult
}

// fetchCmd runs f off the update loop.
func fetchCmd(f *services.Fetch) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		return fetchResultMsg{result: f.Run()}
	}
}
