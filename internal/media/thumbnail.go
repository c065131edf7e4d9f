// Package media stores resized copies of recipe images.
package media

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	// Register GIF decoding; GIFs are re-encoded as PNG.
	_ "image/gif"

	"github.com/nfnt/resize"

	"recipebox/internal/fetch"
)

const (
	// DefaultWidth is the thumbnail width when none is configured.
	DefaultWidth = 800
	// MaxPixels bounds the decoded size of a downloaded image.
	MaxPixels = 40_000_000
)

// Fetcher downloads an image.
type Fetcher interface {
	Get(ctx context.Context, url string) (*fetch.Response, error)
}

// Thumbnailer downloads recipe images, scales them to Width and writes them
// under Dir named by the hash of their URL.
type Thumbnailer struct {
	Fetcher Fetcher
	Dir     string
	Width   uint
}

// NewThumbnailer creates a Thumbnailer. The fetcher should accept image types.
func NewThumbnailer(fetcher Fetcher, dir string, width uint) *Thumbnailer {
	if width == 0 {
		width = DefaultWidth
	}
	return &Thumbnailer{Fetcher: fetcher, Dir: dir, Width: width}
}

// URLHash is the SHA256 hex digest of an image URL.
func URLHash(imageURL string) string {
	hash := sha256.Sum256([]byte(imageURL))
	return hex.EncodeToString(hash[:])
}

// Save downloads imageURL and stores a resized copy, returning its path.
func (t *Thumbnailer) Save(ctx context.Context, imageURL string) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", fmt.Errorf("empty image url")
	}
	resp, err := t.Fetcher.Get(ctx, imageURL)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	return t.saveImage(resp.Body, URLHash(imageURL))
}

func (t *Thumbnailer) saveImage(imageData []byte, name string) (string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", fmt.Errorf("image dimensions %dx%d exceed limit of %d pixels", cfg.Width, cfg.Height, MaxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	width := t.Width
	if width == 0 {
		width = DefaultWidth
	}
	if uint(img.Bounds().Dx()) > width {
		img = resize.Resize(width, 0, img, resize.Lanczos3)
	}

	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}

	ext := ".png"
	if format == "jpeg" {
		ext = ".jpg"
	}
	imagePath := filepath.Join(t.Dir, name+ext)
	out, err := os.Create(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer out.Close()

	if ext == ".jpg" {
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: 85})
	} else {
		err = png.Encode(out, img)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return imagePath, nil
}
