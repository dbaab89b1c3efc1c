package main

import (
	"testing"
	"time"
)

func TestDirectionTo(t *testing.T) {
	// 800x600 screen: strip spans [133.3, 666.7].
	tests := []struct {
		name string
		x, y float64
		want Direction
	}{
		{"left of strip", 50, 300, DirLeft},
		{"right of strip", 750, 300, DirRight},
		{"center top is forward", 400, 100, DirForward},
		{"center bottom is backward", 400, 500, DirBackward},
		{"right wedge", 600, 300, DirRight},
		{"left wedge", 200, 300, DirLeft},
		{"strip edge exactly", 133.3, 300, DirLeft},
		{"exact diagonal crossing is backward", 400, 300, DirBackward},
		{"origin corner", 0, 0, DirLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := directionTo(tt.x, tt.y, 800, 600); got != tt.want {
				t.Errorf("directionTo(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestDirectionToScaleInvariant(t *testing.T) {
	points := [][2]float64{
		{400, 100}, {400, 500}, {600, 300}, {200, 300}, {50, 300}, {750, 300},
		{300, 150}, {500, 450},
	}
	for _, p := range points {
		small := directionTo(p[0], p[1], 800, 600)
		large := directionTo(p[0]*2, p[1]*2, 1600, 1200)
		if small != large {
			t.Errorf("point (%v, %v): %v at 800x600 but %v at 1600x1200", p[0], p[1], small, large)
		}
	}
}

func TestDirectionToDegenerateScreen(t *testing.T) {
	if got := directionTo(-1, 0, 0, 0); got != DirLeft {
		t.Errorf("degenerate left half = %v, want left", got)
	}
	if got := directionTo(1, 0, 0, 0); got != DirRight {
		t.Errorf("degenerate right half = %v, want right", got)
	}
}

// scriptedBoxes replays a detection sequence, repeating the last element.
func scriptedBoxes(seq ...*Box) func() *Box {
	i := 0
	return func() *Box {
		if i >= len(seq) {
			return seq[len(seq)-1]
		}
		b := seq[i]
		i++
		return b
	}
}

func TestWalkToBoxNoTargetNoWalk(t *testing.T) {
	h := newTestTask()
	got := h.task.walkToBox(func() *Box { return nil }, 5*time.Second, nil)
	if got {
		t.Fatal("walkToBox reported walking with no target")
	}
	if len(h.input.events) != 0 {
		t.Fatalf("input events issued without a target: %v", h.input.events)
	}
}

func TestWalkToBoxReleasesKeyOnTimeout(t *testing.T) {
	h := newTestTask()
	// Right of the strip on 1280x720, constant.
	target := &Box{X: 1200, Y: 400, W: 10, H: 10}
	got := h.task.walkToBox(func() *Box { return target }, time.Second, nil)
	if !got {
		t.Fatal("walkToBox = false, want true after holding a direction")
	}
	if held := h.input.heldKeys(); len(held) != 0 {
		t.Fatalf("keys still held after walk: %v", held)
	}
	last := h.input.events[len(h.input.events)-1]
	if last != "up d" {
		t.Fatalf("last event = %q, want the held key released", last)
	}
}

func TestWalkToBoxSwitchesDirection(t *testing.T) {
	h := newTestTask()
	right := &Box{X: 1200, Y: 400, W: 10, H: 10}
	forward := &Box{X: 635, Y: 95, W: 10, H: 10}
	find := scriptedBoxes(right, right, forward)
	h.task.walkToBox(find, time.Second, nil)

	var downs []string
	for _, e := range h.input.events {
		if e == "down d" || e == "down w" || e == "up d" || e == "up w" {
			downs = append(downs, e)
		}
	}
	want := []string{"down d", "up d", "down w", "up w"}
	if len(downs) != len(want) {
		t.Fatalf("key events = %v, want %v", downs, want)
	}
	for i := range want {
		if downs[i] != want[i] {
			t.Fatalf("key events = %v, want %v", downs, want)
		}
	}
	if held := h.input.heldKeys(); len(held) != 0 {
		t.Fatalf("keys still held: %v", held)
	}
}

func TestWalkToBoxStopsWhenTargetLost(t *testing.T) {
	h := newTestTask()
	target := &Box{X: 1200, Y: 400, W: 10, H: 10}
	find := scriptedBoxes(target, target, nil)
	got := h.task.walkToBox(find, 10*time.Second, nil)
	if !got {
		t.Fatal("walkToBox = false, want true (a direction was held)")
	}
	if held := h.input.heldKeys(); len(held) != 0 {
		t.Fatalf("keys still held after target loss: %v", held)
	}
	// Well short of the timeout: the loss aborts the loop.
	if elapsed := h.clock.now().Sub(newFakeClock().now()); elapsed >= 10*time.Second {
		t.Fatalf("walk ran to timeout (%v) instead of stopping on loss", elapsed)
	}
}

func TestWalkToBoxEndCondition(t *testing.T) {
	h := newTestTask()
	target := &Box{X: 1200, Y: 400, W: 10, H: 10}
	calls := 0
	end := func() bool {
		calls++
		return calls >= 3
	}
	got := h.task.walkToBox(func() *Box { return target }, 10*time.Second, end)
	if !got {
		t.Fatal("walkToBox = false, want true when end fires")
	}
	if held := h.input.heldKeys(); len(held) != 0 {
		t.Fatalf("keys still held after end: %v", held)
	}
}

func TestWalkToBoxEndConditionTimeout(t *testing.T) {
	h := newTestTask()
	got := h.task.walkToBox(func() *Box { return nil }, time.Second, func() bool { return false })
	if got {
		t.Fatal("walkToBox = true, want false when end never fires")
	}
	if held := h.input.heldKeys(); len(held) != 0 {
		t.Fatalf("keys still held: %v", held)
	}
}

func TestRunUntil(t *testing.T) {
	h := newTestTask()
	ok, err := h.task.runUntil(func() bool { return true }, "w", 5*time.Second, false, false)
	if err != nil || !ok {
		t.Fatalf("runUntil = (%v, %v), want success", ok, err)
	}
	if held := h.input.heldKeys(); len(held) != 0 {
		t.Fatalf("keys still held: %v", held)
	}

	h = newTestTask()
	ok, err = h.task.runUntil(func() bool { return false }, "w", time.Second, true, true)
	if ok {
		t.Fatal("runUntil = true, want timeout")
	}
	if _, isNF := err.(*NotFoundError); !isNF {
		t.Fatalf("err = %v, want *NotFoundError", err)
	}
	if held := h.input.heldKeys(); len(held) != 0 {
		t.Fatalf("keys or buttons still held: %v", held)
	}
}
