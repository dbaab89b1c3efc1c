// Package main - fakes_test.go
//
// Scripted collaborator fakes and the fake timeline the state-transition
// tests run on. Nothing here touches the screen, OCR or input devices.
package main

import (
	"image"
	"time"
)

// fakeClock backs Task.now and Task.sleep with a virtual timeline: sleeping
// advances time instantly, so timeout behavior can be tested exactly.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(d time.Duration) {
	if d > 0 {
		c.t = c.t.Add(d)
	}
}

// fakeFrames serves a fixed in-memory frame. Advance ticks the fake clock,
// standing in for real capture latency, so loops that only pump frames
// still move along the timeline and hit their timeouts.
type fakeFrames struct {
	w, h     int
	img      *image.RGBA
	clock    *fakeClock
	advanced int
}

func newFakeFrames(w, h int, clock *fakeClock) *fakeFrames {
	return &fakeFrames{
		w:     w,
		h:     h,
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		clock: clock,
	}
}

func (f *fakeFrames) Frame() *image.RGBA { return f.img }

func (f *fakeFrames) Advance() error {
	f.advanced++
	if f.clock != nil {
		f.clock.sleep(50 * time.Millisecond)
	}
	return nil
}

func (f *fakeFrames) Size() (int, int) { return f.w, f.h }

// fakeMatcher resolves feature lookups through a scripted function; nil
// means nothing ever matches.
type fakeMatcher struct {
	find func(names []string, region *Box, threshold float64) *Box
}

func (m *fakeMatcher) FindOne(_ *image.RGBA, names []string, region *Box, threshold float64) *Box {
	if m.find == nil {
		return nil
	}
	return m.find(names, region, threshold)
}

// matchNames builds a matcher that returns a fixed box for the listed
// feature names and nil for everything else.
func matchNames(boxes map[string]Box) *fakeMatcher {
	return &fakeMatcher{find: func(names []string, _ *Box, _ float64) *Box {
		for _, n := range names {
			if b, ok := boxes[n]; ok {
				out := b
				return &out
			}
		}
		return nil
	}}
}

// fakeOCR replays scripted recognition results in order, repeating the last
// one once exhausted.
type fakeOCR struct {
	results [][]Box
	calls   int
}

func (o *fakeOCR) Recognize(image.Image) ([]Box, error) {
	o.calls++
	if len(o.results) == 0 {
		return nil, nil
	}
	i := o.calls - 1
	if i >= len(o.results) {
		i = len(o.results) - 1
	}
	return o.results[i], nil
}

func (o *fakeOCR) Close() error { return nil }

// fakeDetector returns a fixed detection set.
type fakeDetector struct {
	boxes []Box
}

func (d *fakeDetector) Detect(*image.RGBA, int) ([]Box, error) {
	out := make([]Box, len(d.boxes))
	copy(out, d.boxes)
	return out, nil
}

// fakeInput records every injected event so tests can assert on exact
// sequences and on the held-key invariant.
type fakeInput struct {
	events []string
	held   map[string]bool
	clicks []Point
}

func newFakeInput() *fakeInput {
	return &fakeInput{held: make(map[string]bool)}
}

func (in *fakeInput) KeyTap(key string) {
	in.events = append(in.events, "tap "+key)
}

func (in *fakeInput) KeyDown(key string) {
	in.events = append(in.events, "down "+key)
	in.held[key] = true
}

func (in *fakeInput) KeyUp(key string) {
	in.events = append(in.events, "up "+key)
	delete(in.held, key)
}

func (in *fakeInput) MouseMove(x, y int) {
	in.events = append(in.events, "move")
}

func (in *fakeInput) Click(x, y int, _ time.Duration) {
	in.events = append(in.events, "click")
	in.clicks = append(in.clicks, Point{X: x, Y: y})
}

func (in *fakeInput) MiddleClick(x, y int, _ time.Duration) {
	in.events = append(in.events, "middle")
}

func (in *fakeInput) MouseDown(button string) {
	in.events = append(in.events, "mousedown "+button)
	in.held["mouse:"+button] = true
}

func (in *fakeInput) MouseUp(button string) {
	in.events = append(in.events, "mouseup "+button)
	delete(in.held, "mouse:"+button)
}

// heldKeys returns the keys and buttons currently held down.
func (in *fakeInput) heldKeys() []string {
	var out []string
	for k := range in.held {
		out = append(out, k)
	}
	return out
}

type fakeProbe struct {
	title string
}

func (p fakeProbe) Title() string { return p.title }

// testHarness bundles a task with its fakes.
type testHarness struct {
	task  *Task
	clock *fakeClock
	frame *fakeFrames
	match *fakeMatcher
	ocr   *fakeOCR
	det   *fakeDetector
	input *fakeInput
}

// newTestTask wires a task against fakes on a 1280x720 frame and the fake
// timeline. Callers rescript the fakes per scenario.
func newTestTask() *testHarness {
	clock := newFakeClock()
	h := &testHarness{
		clock: clock,
		frame: newFakeFrames(1280, 720, clock),
		match: &fakeMatcher{},
		ocr:   &fakeOCR{},
		det:   &fakeDetector{},
		input: newFakeInput(),
	}
	cfg := DefaultConfig()
	h.task = NewTask(cfg, h.frame, h.ocr, h.match, h.det, h.input, fakeProbe{title: "Wuthering Waves"})
	h.task.now = clock.now
	h.task.sleep = clock.sleep
	return h
}
