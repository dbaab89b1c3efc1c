// Package main - task.go
//
// Task is the single cooperative control flow the automation core runs in:
// it owns the collaborator handles (frame source, OCR, matcher, detector,
// input) and the session-scoped state (login flag, map zoom flag, monthly
// card schedule, info counters). One task advances one step at a time,
// synchronously sampling the frame, running detectors and issuing input;
// there is no parallelism below this layer.
//
// Coordinates: public collaborators take absolute pixels; the helpers here
// accept screen fractions and convert, so all tuning constants stay
// resolution independent.
//
// Clock and sleep are injected fields so state-transition tests can run on
// a fake timeline.
package main

import (
	"image"
	"regexp"
	"strings"
	"time"
)

const (
	uiClickHold    = 200 * time.Millisecond
	worldClickHold = 10 * time.Millisecond
	keySwitchPause = 20 * time.Millisecond
)

// Task drives the game through the collaborator interfaces.
type Task struct {
	cfg    *Config
	frames FrameSource
	ocr    OCREngine
	match  FeatureMatcher
	detect ObjectDetector
	input  Input
	win    WindowProbe

	// Session state, reset when the task instance is created.
	loggedIn        bool
	mapZoomed       bool
	nextMonthlyCard time.Time
	checkingCard    bool
	info            map[string]int

	now   func() time.Time
	sleep func(time.Duration)
}

// NewTask wires a task to its collaborators.
func NewTask(cfg *Config, frames FrameSource, ocr OCREngine, match FeatureMatcher,
	detect ObjectDetector, input Input, win WindowProbe) *Task {
	return &Task{
		cfg:    cfg,
		frames: frames,
		ocr:    ocr,
		match:  match,
		detect: detect,
		input:  input,
		win:    win,
		info:   make(map[string]int),
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Info returns the named session counter.
func (t *Task) Info(key string) int {
	return t.info[key]
}

func (t *Task) incrInfo(key string, by int) {
	t.info[key] += by
}

func (t *Task) width() int {
	w, _ := t.frames.Size()
	return w
}

func (t *Task) height() int {
	_, h := t.frames.Size()
	return h
}

// widthOf converts a width fraction to pixels.
func (t *Task) widthOf(f float64) int {
	return int(f * float64(t.width()))
}

// heightOf converts a height fraction to pixels.
func (t *Task) heightOf(f float64) int {
	return int(f * float64(t.height()))
}

// boxOf builds a frame-absolute box from fractional left/top/right/bottom.
func (t *Task) boxOf(x1, y1, x2, y2 float64, name string) Box {
	return Box{
		X:    t.widthOf(x1),
		Y:    t.heightOf(y1),
		W:    t.widthOf(x2 - x1),
		H:    t.heightOf(y2 - y1),
		Name: name,
	}
}

func (t *Task) frame() *image.RGBA {
	return t.frames.Frame()
}

// advance moves to the next captured frame; capture errors degrade to the
// previous frame rather than aborting the loop.
func (t *Task) advance() {
	if err := t.frames.Advance(); err != nil {
		LogWarn("frame capture: %v", err)
		t.sleep(t.cfg.PollInterval())
	}
}

// clickRelative clicks at screen fractions with the UI hold duration.
func (t *Task) clickRelative(x, y float64, after time.Duration) {
	t.input.Click(t.widthOf(x), t.heightOf(y), uiClickHold)
	if after > 0 {
		t.Sleep(after)
	}
}

// clickBox clicks the center of a located box.
func (t *Task) clickBox(b Box, after time.Duration) {
	c := b.Center()
	t.input.Click(c.X, c.Y, uiClickHold)
	if after > 0 {
		t.Sleep(after)
	}
}

// clickCenter clicks mid-screen with the short world hold.
func (t *Task) clickCenter() {
	t.input.Click(t.widthOf(0.5), t.heightOf(0.5), worldClickHold)
}

func (t *Task) middleClickRelative(x, y float64, hold time.Duration) {
	t.input.MiddleClick(t.widthOf(x), t.heightOf(y), hold)
}

func (t *Task) sendKey(key string, after time.Duration) {
	t.input.KeyTap(key)
	if after > 0 {
		t.Sleep(after)
	}
}

func (t *Task) sendKeyDown(key string) {
	t.input.KeyDown(key)
}

func (t *Task) sendKeyUp(key string) {
	t.input.KeyUp(key)
}

// back presses escape, the universal dismiss.
func (t *Task) back(after time.Duration) {
	t.sendKey("esc", after)
}

// Sleep pauses for d minus the cost of an opportunistic monthly card
// check, so reward detection replaces idle waiting instead of adding to it.
func (t *Task) Sleep(d time.Duration) {
	d -= t.checkForMonthlyCard()
	if d > 0 {
		t.sleep(d)
	}
}

// ocrRegion recognizes text inside the region and keeps boxes whose text
// matches any pattern (all boxes when no pattern is given). Box coordinates
// are frame-absolute. OCR failure is treated as "nothing found".
func (t *Task) ocrRegion(region Box, patterns ...*regexp.Regexp) []Box {
	frame := t.frame()
	if frame == nil {
		return nil
	}
	rect := image.Rect(region.X, region.Y, region.X+region.W, region.Y+region.H)
	rect = rect.Intersect(frame.Bounds())
	if rect.Empty() {
		return nil
	}
	sub := frame.SubImage(rect)
	words, err := t.ocr.Recognize(sub)
	if err != nil {
		LogWarn("ocr %s: %v", region.Name, err)
		return nil
	}
	var out []Box
	for _, w := range words {
		w.X += rect.Min.X
		w.Y += rect.Min.Y
		if len(patterns) == 0 {
			out = append(out, w)
			continue
		}
		for _, re := range patterns {
			if re.MatchString(w.Name) {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

// findOne looks for a single named feature, whole frame when region is nil.
func (t *Task) findOne(name string, region *Box, threshold float64) *Box {
	return t.match.FindOne(t.frame(), []string{name}, region, threshold)
}

// findAny looks for the first of several named features.
func (t *Task) findAny(names []string, region *Box, threshold float64) *Box {
	return t.match.FindOne(t.frame(), names, region, threshold)
}

// gameLang derives the client language from the window title.
func (t *Task) gameLang() string {
	title := t.win.Title()
	switch {
	case strings.Contains(title, "鸣潮"):
		return "zh_CN"
	case strings.Contains(title, "Wuthering"):
		return "en_US"
	default:
		return "unknown"
	}
}
