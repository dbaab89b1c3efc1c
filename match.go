// Package main - match.go
//
// Template/feature matcher collaborator.
//
// FeatureMatcher locates a named UI feature inside a frame region.
// TemplateMatcher implements it with OpenCV normalized cross-correlation:
// each feature name maps to a PNG under the assets folder, loaded once and
// cached as a Mat for the life of the process.
package main

import (
	"fmt"
	"image"
	"path/filepath"

	"gocv.io/x/gocv"
)

// FeatureMatcher finds named features in a frame.
type FeatureMatcher interface {
	// FindOne returns the best match of any of the names inside region
	// (the whole frame when region is nil) with at least the given
	// threshold, or nil when no name matches.
	FindOne(frame *image.RGBA, names []string, region *Box, threshold float64) *Box
}

// TemplateMatcher matches PNG templates with gocv.
type TemplateMatcher struct {
	dir       string
	templates map[string]gocv.Mat
}

// NewTemplateMatcher creates a matcher loading templates from dir.
func NewTemplateMatcher(dir string) *TemplateMatcher {
	return &TemplateMatcher{dir: dir, templates: make(map[string]gocv.Mat)}
}

// Close releases all cached template Mats.
func (m *TemplateMatcher) Close() {
	for _, t := range m.templates {
		t.Close()
	}
	m.templates = make(map[string]gocv.Mat)
}

func (m *TemplateMatcher) template(name string) (gocv.Mat, error) {
	if t, ok := m.templates[name]; ok {
		return t, nil
	}
	path := filepath.Join(m.dir, name+".png")
	t := gocv.IMRead(path, gocv.IMReadColor)
	if t.Empty() {
		return t, fmt.Errorf("feature template %s not found at %s", name, path)
	}
	m.templates[name] = t
	return t, nil
}

// FindOne tries each name in order and returns the first match at or above
// threshold. Box coordinates are frame-absolute.
func (m *TemplateMatcher) FindOne(frame *image.RGBA, names []string, region *Box, threshold float64) *Box {
	if frame == nil {
		return nil
	}
	src, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		LogWarn("template match: frame conversion: %v", err)
		return nil
	}
	defer src.Close()

	search := src
	offX, offY := 0, 0
	if region != nil {
		rect := image.Rect(region.X, region.Y, region.X+region.W, region.Y+region.H)
		rect = rect.Intersect(image.Rect(0, 0, frame.Bounds().Dx(), frame.Bounds().Dy()))
		if rect.Empty() {
			return nil
		}
		sub := src.Region(rect)
		defer sub.Close()
		search = sub
		offX, offY = rect.Min.X, rect.Min.Y
	}

	for _, name := range names {
		tpl, err := m.template(name)
		if err != nil {
			LogWarn("template match: %v", err)
			continue
		}
		if tpl.Cols() > search.Cols() || tpl.Rows() > search.Rows() {
			continue
		}
		result := gocv.NewMat()
		mask := gocv.NewMat()
		gocv.MatchTemplate(search, tpl, &result, gocv.TmCcoeffNormed, mask)
		_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)
		mask.Close()
		result.Close()
		if float64(maxVal) >= threshold {
			return &Box{
				X:          offX + maxLoc.X,
				Y:          offY + maxLoc.Y,
				W:          tpl.Cols(),
				H:          tpl.Rows(),
				Name:       name,
				Confidence: float64(maxVal),
			}
		}
	}
	return nil
}
