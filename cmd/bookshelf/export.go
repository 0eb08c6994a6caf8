package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/kerbaras/bookshelf/pkg/integrations"
	"github.com/kerbaras/bookshelf/pkg/services"
	"github.com/spf13/cobra"
)

var (
	exportOut   string
	exportOwner string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export favorites as an EPUB reading list",
	Long:  "Write every favorite into a single EPUB, one section per book, using the first available thumbnail as the cover",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		cobra.CheckErr(err)

		store, err := openStore(cmd.Context(), cfg)
		cobra.CheckErr(err)
		defer store.Close()

		logger := cliLogger(cfg)
		favorites := services.LoadFavorites(cmd.Context(), store, services.FavoritesOptions{Logger: logger}).Books()

		title := "Favorites"
		if exportOwner != "" {
			title = fmt.Sprintf("%s's favorites", exportOwner)
		}
		out := exportOut
		if out == "" {
			out = filepath.Join(cfg.DataDir, "exports", integrations.SanitizeFilename(title)+".epub")
		}

		builder := integrations.NewReadingListBuilder(integrations.ReadingListOptions{
			Title:  title,
			Owner:  exportOwner,
			Logger: logger,
		})
		path, err := builder.Build(cmd.Context(), favorites, out)
		if errors.Is(err, integrations.ErrNothingToExport) {
			fmt.Println("📚 No favorites to export.")
			return
		}
		cobra.CheckErr(err)

		fmt.Printf("📖 Exported %d books to %s\n", len(favorites), path)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default <data-dir>/exports/<title>.epub)")
	exportCmd.Flags().StringVar(&exportOwner, "owner", "", "name shown as the reading list author")
	rootCmd.AddCommand(exportCmd)
}
