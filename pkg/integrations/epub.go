package integrations

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/bookshelf/pkg/data"
)

var ErrNothingToExport = errors.New("no favorites to export")

type ReadingListOptions struct {
	Title  string
	Owner  string
	Client *http.Client
	Cover  CoverSettings
	Logger *slog.Logger
}

// ReadingListBuilder compiles favorites into a single EPUB, one section per
// book.
type ReadingListBuilder struct {
	opts ReadingListOptions
}

func NewReadingListBuilder(opts ReadingListOptions) *ReadingListBuilder {
	if opts.Title == "" {
		opts.Title = "Favorites"
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Cover.MaxWidth == 0 {
		opts.Cover = DefaultCoverSettings
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ReadingListBuilder{opts: opts}
}

// Build writes the EPUB to outputPath and returns it.
func (b *ReadingListBuilder) Build(ctx context.Context, books []data.Book, outputPath string) (string, error) {
	if len(books) == 0 {
		return "", ErrNothingToExport
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	e, err := epub.NewEpub(b.opts.Title)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	if b.opts.Owner != "" {
		e.SetAuthor(b.opts.Owner)
	}
	e.SetDescription(fmt.Sprintf("%d books", len(books)))
	e.SetLang("en")

	workDir, err := os.MkdirTemp("", "bookshelf-epub-*")
	if err != nil {
		return "", fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := b.addCover(ctx, e, books, workDir); err != nil {
		// A missing cover never fails the export.
		b.opts.Logger.Warn("cover skipped", slog.String("error", err.Error()))
	}

	for i, book := range books {
		filename := fmt.Sprintf("book-%03d.xhtml", i+1)
		if _, err := e.AddSection(renderBook(book), sectionTitle(book), filename, ""); err != nil {
			return "", fmt.Errorf("failed to add %s: %w", book.ID, err)
		}
	}

	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}
	return outputPath, nil
}

func (b *ReadingListBuilder) addCover(ctx context.Context, e *epub.Epub, books []data.Book, workDir string) error {
	var url string
	for _, book := range books {
		if url = book.Thumbnail(); url != "" {
			break
		}
	}
	if url == "" {
		return errors.New("no thumbnail available")
	}

	img, err := FetchImage(ctx, b.opts.Client, url)
	if err != nil {
		return err
	}
	rendered, err := RenderCover(img, b.opts.Cover)
	if err != nil {
		return err
	}

	coverPath := filepath.Join(workDir, "cover.jpg")
	if err := os.WriteFile(coverPath, rendered, 0644); err != nil {
		return err
	}

	internal, err := e.AddImage(coverPath, "cover.jpg")
	if err != nil {
		return fmt.Errorf("failed to add cover image: %w", err)
	}
	e.SetCover(internal, "")
	return nil
}

func sectionTitle(book data.Book) string {
	if book.Title() != "" {
		return book.Title()
	}
	return book.ID
}

func renderBook(book data.Book) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(sectionTitle(book)))
	if authors := book.AuthorList(); authors != "" {
		fmt.Fprintf(&b, "<p><strong>Authors:</strong> %s</p>\n", html.EscapeString(authors))
	}
	if date := book.VolumeInfo.PublishedDate; date != "" {
		fmt.Fprintf(&b, "<p><strong>Published Date:</strong> %s</p>\n", html.EscapeString(date))
	}
	if desc := book.VolumeInfo.Description; desc != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(desc))
	}
	return b.String()
}

// SanitizeFilename removes characters that are invalid in filenames.
func SanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
