package extract

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"os"

	"github.com/disintegration/imaging"
	"github.com/v2i-cli/v2i/internal/sample"
)

// extractGIF walks the GIF once, saving a flattened PNG for every planned
// index. The cursor is strictly forward-only; planned indices are visited
// in increasing order and the walk stops as soon as the plan's limit is
// reached, even if planned indices remain.
func (e *Extractor) extractGIF(path string, plan sample.Plan, outputDir, prefix string) ([]Artifact, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from the resolved source
	if err != nil {
		return nil, fmt.Errorf("open gif: %w", err)
	}
	defer func() { _ = f.Close() }()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}

	cursor := newGIFCursor(g)
	artifacts := make([]Artifact, 0, plan.Limit)

	for _, target := range plan.Indices {
		frame, ok := cursor.seekForward(target)
		if !ok {
			break
		}

		ordinal := len(artifacts) + 1
		out := artifactPath(outputDir, prefix, ordinal)
		if err := imaging.Save(flattenWhite(frame), out); err != nil {
			return nil, fmt.Errorf("save frame %d: %w", ordinal, err)
		}
		artifacts = append(artifacts, Artifact{Path: out, Ordinal: ordinal})

		if len(artifacts) >= plan.Limit {
			break
		}
	}

	return artifacts, nil
}

// gifCursor is a monotonic forward-only view over an animated GIF. Frames
// are paletted patches that may cover only part of the logical screen, so
// the cursor keeps a coalesced canvas and applies each frame's disposal
// before the next is drawn. Backward seeks are not possible.
type gifCursor struct {
	g      *gif.GIF
	canvas *image.NRGBA
	// index of the frame currently composed on the canvas, -1 before the
	// first advance
	pos int
	// snapshot for DisposalPrevious restoration
	restore *image.NRGBA
}

func newGIFCursor(g *gif.GIF) *gifCursor {
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	return &gifCursor{
		g:      g,
		canvas: image.NewNRGBA(image.Rect(0, 0, w, h)),
		pos:    -1,
	}
}

// seekForward advances the cursor until the frame at target is composed,
// returning the coalesced frame. Advancing is the only movement the cursor
// supports; asking for an index behind the cursor returns the current
// canvas unchanged.
func (c *gifCursor) seekForward(target int) (image.Image, bool) {
	for c.pos < target {
		if !c.advance() {
			// Ran off the end of the sequence; whatever is composed is the
			// best available frame.
			break
		}
	}
	if c.pos < 0 {
		return nil, false
	}
	return c.snapshot(), true
}

// advance composes the next frame onto the canvas, honoring the previous
// frame's disposal method first.
func (c *gifCursor) advance() bool {
	next := c.pos + 1
	if next >= len(c.g.Image) {
		return false
	}

	if c.pos >= 0 {
		c.applyDisposal(c.pos)
	}

	frame := c.g.Image[next]
	if c.disposalOf(next) == gif.DisposalPrevious {
		c.restore = c.snapshot()
	}
	draw.Draw(c.canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	c.pos = next
	return true
}

// applyDisposal undoes frame i's pixels according to its disposal method.
func (c *gifCursor) applyDisposal(i int) {
	switch c.disposalOf(i) {
	case gif.DisposalBackground:
		bounds := c.g.Image[i].Bounds()
		draw.Draw(c.canvas, bounds, image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		if c.restore != nil {
			draw.Draw(c.canvas, c.canvas.Bounds(), c.restore, image.Point{}, draw.Src)
			c.restore = nil
		}
	}
}

func (c *gifCursor) disposalOf(i int) byte {
	if i >= len(c.g.Disposal) {
		return gif.DisposalNone
	}
	return c.g.Disposal[i]
}

// snapshot returns an independent copy of the current canvas.
func (c *gifCursor) snapshot() *image.NRGBA {
	cp := image.NewNRGBA(c.canvas.Bounds())
	copy(cp.Pix, c.canvas.Pix)
	return cp
}
