package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/bookshelf/pkg/services"
	"github.com/spf13/cobra"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List your favorite books",
	Long:  "Display the persisted favorites in a formatted table",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		cobra.CheckErr(err)

		store, err := openStore(cmd.Context(), cfg)
		cobra.CheckErr(err)
		defer store.Close()

		favorites := services.LoadFavorites(cmd.Context(), store, services.FavoritesOptions{
			Logger: cliLogger(cfg),
		}).Books()

		if len(favorites) == 0 {
			fmt.Println("📚 No favorites yet. Use 'bookshelf' to search and add some.")
			return
		}

		columns := []table.Column{
			{Title: "#", Width: 4},
			{Title: "Title", Width: 40},
			{Title: "Authors", Width: 28},
			{Title: "Published", Width: 12},
		}

		rows := []table.Row{}
		for i, book := range favorites {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", i+1),
				truncateString(book.Title(), 38),
				truncateString(book.AuthorList(), 26),
				book.VolumeInfo.PublishedDate,
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\n★ Favorites (%d books)\n\n", len(favorites))
		fmt.Println(t.View())
	},
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
}
