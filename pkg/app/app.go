package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/bookshelf/pkg/app/screens"
	"github.com/kerbaras/bookshelf/pkg/services"
)

type App struct {
	ctx        context.Context
	controller *services.BookController
	opts       screens.Options
}

func NewApp(ctx context.Context, controller *services.BookController, opts screens.Options) *App {
	return &App{ctx: ctx, controller: controller, opts: opts}
}

func (a *App) Run() error {
	model := screens.NewRootScreen(a.ctx, a.controller, a.opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}
