package screens

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/services"
)

type LoginScreen struct {
	controller *services.BookController
	input      textinput.Model
	width      int
	height     int
	err        error
}

func NewLoginScreen(controller *services.BookController) *LoginScreen {
	ti := textinput.New()
	ti.Placeholder = "Your name"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	return &LoginScreen{
		controller: controller,
		input:      ti,
	}
}

func (s *LoginScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *LoginScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			if _, err := s.controller.Login(s.input.Value()); err != nil && !errors.Is(err, services.ErrAlreadyLoggedIn) {
				s.err = err
				return s, nil
			}
			s.err = nil
			s.input.Blur()
			return s, switchTo("search")
		}
	}

	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *LoginScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("📚 Bookshelf")
	prompt := styles.SubtitleStyle.Render("Who is reading today?")
	inputView := styles.FocusedInputStyle.Render(s.input.View())

	var errorMsg string
	if s.err != nil {
		text := fmt.Sprintf("Error: %s", s.err)
		if errors.Is(s.err, services.ErrEmptyName) {
			text = "Please enter your name"
		}
		errorMsg = styles.StatusError.Render(text)
	}

	help := styles.HelpStyle.Render("enter: continue • ctrl+c: quit")

	content := lipgloss.JoinVertical(lipgloss.Left, header, prompt, "", inputView, errorMsg, help)
	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, content)
}
