package data

import "strings"

// Book is a catalog volume. Only ID is interpreted; VolumeInfo is carried
// through untouched and serialized in the catalog's own shape.
type Book struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors,omitempty"`
	PublishedDate string      `json:"publishedDate,omitempty"`
	Description   string      `json:"description,omitempty"`
	ImageLinks    *ImageLinks `json:"imageLinks,omitempty"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
}

func (b Book) Title() string {
	return b.VolumeInfo.Title
}

// AuthorList joins the authors the way they are shown everywhere: "A, B".
func (b Book) AuthorList() string {
	return strings.Join(b.VolumeInfo.Authors, ", ")
}

// Thumbnail returns the best available cover URL, or "".
func (b Book) Thumbnail() string {
	links := b.VolumeInfo.ImageLinks
	if links == nil {
		return ""
	}
	if links.Thumbnail != "" {
		return links.Thumbnail
	}
	return links.SmallThumbnail
}
