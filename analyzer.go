// Package main - analyzer.go
//
// Frame acquisition and the color-ratio heuristic.
//
// FrameSource is the narrow capture contract the control logic consumes:
// it owns the latest captured frame and a frame pump (Advance) that tight
// loops call to move to the next frame instead of sleeping. The production
// implementation captures the primary display; tests substitute scripted
// frames.
//
// colorPercent is the fallback detection modality: the fraction of pixels
// inside a region whose RGB values fall into a configured band. It is used
// where template confidence is unreliable (glowing echo drops).
package main

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
)

// FrameSource supplies captured frames of the game client.
type FrameSource interface {
	// Frame returns the last captured frame, capturing one if none exists.
	Frame() *image.RGBA
	// Advance captures the next frame.
	Advance() error
	// Size returns the frame dimensions in pixels.
	Size() (w, h int)
}

// WindowProbe exposes the game window title, used to pick
// language-specific text patterns.
type WindowProbe interface {
	Title() string
}

// ScreenSource captures the primary display.
type ScreenSource struct {
	display int
	frame   *image.RGBA
	w, h    int
}

// NewScreenSource creates a capture source for the given display index.
func NewScreenSource(display int) (*ScreenSource, error) {
	if display < 0 || display >= screenshot.NumActiveDisplays() {
		return nil, fmt.Errorf("display %d not available", display)
	}
	bounds := screenshot.GetDisplayBounds(display)
	s := &ScreenSource{display: display, w: bounds.Dx(), h: bounds.Dy()}
	if err := s.Advance(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ScreenSource) Frame() *image.RGBA {
	return s.frame
}

func (s *ScreenSource) Advance() error {
	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(s.display))
	if err != nil {
		return fmt.Errorf("capture display %d: %w", s.display, err)
	}
	s.frame = img
	return nil
}

func (s *ScreenSource) Size() (int, int) {
	return s.w, s.h
}

// ActiveWindowProbe reads the title of the foreground window.
type ActiveWindowProbe struct{}

func (ActiveWindowProbe) Title() string {
	return robotgo.GetTitle()
}

// colorPercent returns the fraction of pixels inside region whose color
// falls into the band. Region coordinates outside the frame are clipped.
func colorPercent(img *image.RGBA, region Box, band ColorRange) float64 {
	if img == nil {
		return 0
	}
	bounds := img.Bounds()
	x0, y0 := maxInt(region.X, bounds.Min.X), maxInt(region.Y, bounds.Min.Y)
	x1 := minInt(region.X+region.W, bounds.Max.X)
	y1 := minInt(region.Y+region.H, bounds.Max.Y)
	total := (x1 - x0) * (y1 - y0)
	if total <= 0 {
		return 0
	}
	matched := 0
	for y := y0; y < y1; y++ {
		row := img.Pix[img.PixOffset(x0, y) : img.PixOffset(x1, y) : img.PixOffset(x1, y)]
		for i := 0; i < len(row); i += 4 {
			if inBand(row[i], band.R) && inBand(row[i+1], band.G) && inBand(row[i+2], band.B) {
				matched++
			}
		}
	}
	return float64(matched) / float64(total)
}

func inBand(v uint8, r ChannelRange) bool {
	return v >= r.Lo && v <= r.Hi
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
