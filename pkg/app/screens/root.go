package screens

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/integrations"
	"github.com/kerbaras/bookshelf/pkg/services"
)

type screenType int

const (
	loginView screenType = iota
	searchView
	shelfView
	detailsView
)

type Options struct {
	// ExportDir receives reading lists exported from the shelf.
	ExportDir string
	Export    integrations.ReadingListOptions
}

type RootScreen struct {
	controller *services.BookController

	currentView  screenType
	previousView screenType
	login        *LoginScreen
	search       *SearchScreen
	shelf        *ShelfScreen
	details      *DetailsScreen

	width  int
	height int
}

func NewRootScreen(ctx context.Context, controller *services.BookController, opts Options) *RootScreen {
	return &RootScreen{
		controller:  controller,
		currentView: loginView,
		login:       NewLoginScreen(controller),
		search:      NewSearchScreen(ctx, controller),
		shelf:       NewShelfScreen(ctx, controller, opts),
		details:     NewDetailsScreen(ctx, controller),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return r.login.Init()
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		// Every screen keeps its own layout, not only the visible one.
		r.login.Update(msg)
		r.search.Update(msg)
		r.shelf.Update(msg)
		r.details.Update(msg)
		return r, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return r, tea.Quit
		case "q":
			if !r.capturesInput() {
				return r, tea.Quit
			}
		case "tab":
			switch r.currentView {
			case searchView:
				r.currentView = shelfView
				return r, r.shelf.Init()
			case shelfView:
				r.currentView = searchView
				return r, r.search.Init()
			}
		}

	case fetchResultMsg:
		if r.controller.Apply(msg.result) {
			r.search.pageLoaded()
		}
		return r, nil

	case SwitchScreenMsg:
		switch msg.Screen {
		case "search":
			r.currentView = searchView
			cmd = r.search.Init()
		case "shelf":
			r.currentView = shelfView
			cmd = r.shelf.Init()
		case "details":
			r.previousView = r.currentView
			r.currentView = detailsView
			cmd = r.details.Init()
		case "back":
			r.currentView = r.previousView
			if r.currentView == shelfView {
				cmd = r.shelf.Init()
			} else {
				cmd = r.search.Init()
			}
		}
		return r, cmd
	}

	// Forward message to active screen
	switch r.currentView {
	case loginView:
		_, cmd = r.login.Update(msg)
	case searchView:
		_, cmd = r.search.Update(msg)
	case shelfView:
		_, cmd = r.shelf.Update(msg)
	case detailsView:
		_, cmd = r.details.Update(msg)
	}

	return r, cmd
}

// capturesInput reports whether keystrokes belong to a text field.
func (r *RootScreen) capturesInput() bool {
	switch r.currentView {
	case loginView:
		return true
	case searchView:
		return r.search.input.Focused()
	}
	return false
}

func (r *RootScreen) View() string {
	var content string
	switch r.currentView {
	case loginView:
		return r.login.View()
	case searchView:
		content = r.search.View()
	case shelfView:
		content = r.shelf.View()
	case detailsView:
		return r.details.View()
	}

	return fmt.Sprintf("%s\n\n%s", r.renderTabs(), content)
}

func (r *RootScreen) renderTabs() string {
	searchTab := "Search"
	shelfTab := "Shelf"

	if r.currentView == searchView {
		searchTab = styles.ActiveTabStyle.Render(searchTab)
		shelfTab = styles.InactiveTabStyle.Render(shelfTab)
	} else {
		searchTab = styles.InactiveTabStyle.Render(searchTab)
		shelfTab = styles.ActiveTabStyle.Render(shelfTab)
	}

	tabs := lipgloss.JoinHorizontal(lipgloss.Top, searchTab, shelfTab)
	if session, ok := r.controller.Session(); ok {
		tabs = lipgloss.JoinHorizontal(lipgloss.Top, tabs,
			styles.MutedStyle.Render(fmt.Sprintf("   signed in as %s", session.DisplayName)))
	}
	return tabs
}

// SwitchScreenMsg asks the root to change the active screen.
type SwitchScreenMsg struct {
	Screen string
}

func switchTo(screen string) tea.Cmd {
	return func() tea.Msg {
		return SwitchScreenMsg{Screen: screen}
	}
}
