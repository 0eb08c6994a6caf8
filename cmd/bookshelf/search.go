package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/bookshelf/pkg/services"
	"github.com/kerbaras/bookshelf/pkg/sources"
	"github.com/spf13/cobra"
)

var (
	searchSort string
	searchPage int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for books",
	Long:  "Search the catalog by title or author and display one page of results in a table",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sort, ok := sources.ParseSortOption(searchSort)
		if !ok {
			cobra.CheckErr(fmt.Errorf("invalid sort %q: use relevance or newest", searchSort))
		}
		if searchPage < 1 {
			cobra.CheckErr(fmt.Errorf("invalid page %d", searchPage))
		}

		cfg, err := loadConfig()
		cobra.CheckErr(err)

		query := strings.Join(args, " ")
		state, err := services.SearchOnce(cmd.Context(), newSource(cfg), query, sort, searchPage, cliLogger(cfg))
		switch {
		case errors.Is(err, services.ErrNoResults):
			fmt.Println(services.MsgNoResults)
			return
		case err != nil:
			cobra.CheckErr(fmt.Errorf("search failed: %w", err))
		}

		var (
			purple = lipgloss.Color("99")

			headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
			cellStyle   = lipgloss.NewStyle().Padding(0, 1)
		)

		t := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(purple)).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				default:
					return cellStyle
				}
			}).
			Headers("#", "Title", "Authors", "Published", "ID")

		for i, book := range state.Page {
			t.Row(
				fmt.Sprintf("%d", state.Offset+i+1),
				truncateString(book.Title(), 48),
				truncateString(book.AuthorList(), 32),
				book.VolumeInfo.PublishedDate,
				book.ID,
			)
		}

		fmt.Println(t)
		fmt.Printf("Page %d • %d results • sorted by %s\n", state.PageNumber(), state.TotalItems, state.Sort)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchSort, "sort", string(sources.SortRelevance), "result order: relevance or newest")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "page of results to show")
	rootCmd.AddCommand(searchCmd)
}
