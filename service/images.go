package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/bookgrove/bookgrove/logger"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
)

// ImageStore persists processed images and serves them back by URL.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (url string, err error)
	Remove(ctx context.Context, url string) error
}

// Pipeline turns a raw upload into a durable, bounded-size JPEG.
type Pipeline struct {
	Store ImageStore
}

func NewPipeline(store ImageStore) *Pipeline {
	return &Pipeline{Store: store}
}

// Ingest decodes the upload, resizes it to at most maxImageWidth pixels wide
// (aspect preserved), re-encodes it as JPEG and stores it under a generated
// name. Returns the URL of the durable copy.
func (p *Pipeline) Ingest(ctx context.Context, r io.Reader) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	name := fmt.Sprintf("%d-%s.jpg", time.Now().UnixNano(), uuid.New().String())
	url, err := p.Store.Save(ctx, name, "image/jpeg", &buf)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}

// Remove deletes a superseded or orphaned image. Best effort: failures are
// logged and swallowed so a mutation never fails over file cleanup.
func (p *Pipeline) Remove(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := p.Store.Remove(ctx, url); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Str("image", url).Msg("image cleanup failed")
	}
}
