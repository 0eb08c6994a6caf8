package integrations

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const maxCoverBytes = 5 << 20

// CoverSettings bounds the rendered cover; images are never upscaled.
type CoverSettings struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

var DefaultCoverSettings = CoverSettings{MaxWidth: 600, MaxHeight: 900, Quality: 85}

// FetchImage downloads and decodes a remote image.
func FetchImage(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d fetching cover", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxCoverBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover: %w", err)
	}
	return img, nil
}

// FitDimensions scales width x height down to fit within max, keeping the
// aspect ratio.
func FitDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	ws := float64(maxWidth) / float64(width)
	hs := float64(maxHeight) / float64(height)
	scale := min(ws, hs)

	w := max(int(float64(width)*scale), 1)
	h := max(int(float64(height)*scale), 1)
	return w, h
}

// RenderCover resizes img and encodes it as JPEG.
func RenderCover(img image.Image, settings CoverSettings) ([]byte, error) {
	bounds := img.Bounds()
	w, h := FitDimensions(bounds.Dx(), bounds.Dy(), settings.MaxWidth, settings.MaxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: settings.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode cover: %w", err)
	}
	return buf.Bytes(), nil
}
