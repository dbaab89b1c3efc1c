// Package main - movement.go
//
// Directional navigation: turning a detected screen point into a movement
// command, and the closed loop that walks the character toward a target.
//
// directionTo splits the screen into a central strip spanning the middle
// two thirds of the width. Points outside the strip strafe (left/right).
// Inside the strip two diagonals connect the strip's own corners (an X
// scaled to the strip, not the full screen) and the point's position
// relative to both diagonals selects one of four wedges. Scaling the X to
// the strip avoids over-triggering strafe for targets inside the playable
// center column, where screen perspective makes "near the bottom" mean
// "close ahead".
//
// walkToBox holds at most one movement key at a time and always releases
// it on exit, whatever path the loop takes out.
package main

import (
	"time"
)

// directionTo maps a screen point to a movement command.
//
// The inequality table is load-bearing for navigation consistency and must
// not be "simplified": inside the strip, below diagonal 1 and above
// diagonal 2 is the right wedge, the mirror case is the left wedge, below
// both is forward, at or above both is backward.
func directionTo(x, y, screenW, screenH float64) Direction {
	if screenW <= 0 || screenH <= 0 {
		if x < screenW/2 {
			return DirLeft
		}
		return DirRight
	}

	stripW := screenW * 2 / 3
	xStart := (screenW - stripW) / 2
	xEnd := xStart + stripW

	if x < xStart {
		return DirLeft
	}
	if x > xEnd {
		return DirRight
	}
	if stripW < 1e-9 {
		if x < screenW/2 {
			return DirLeft
		}
		return DirRight
	}

	slope := screenH / stripW
	// Diagonal 1 runs from (xStart, 0) to (xEnd, screenH), diagonal 2 from
	// (xEnd, 0) to (xStart, screenH); both evaluated at the point's x.
	diag1 := slope * (x - xStart)
	diag2 := -slope * (x - xEnd)

	switch {
	case y < diag1 && y > diag2:
		return DirRight
	case y > diag1 && y < diag2:
		return DirLeft
	case y < diag1 && y < diag2:
		return DirForward
	default:
		return DirBackward
	}
}

// walkToBox repeatedly re-detects a target with find and holds the
// movement key toward it until end fires, the target is lost, or timeout.
//
// Aborts immediately when the first detection fails and no end condition
// exists. With an end condition, a lost target only advances a frame and
// retries. The target anchor is its center nudged up five percent of the
// screen height to aim ahead of the target's base.
//
// Returns whether end fired when one was given, otherwise whether any
// direction was ever held. The held key is released on every exit path.
func (t *Task) walkToBox(find func() *Box, timeout time.Duration, end func() bool) bool {
	if find() == nil && end == nil {
		LogInfo("walk target not found, not walking")
		return false
	}

	last := DirNone
	defer func() {
		if last != DirNone {
			t.sendKeyUp(last.Key())
			t.sleep(keySwitchPause)
		}
	}()

	start := t.now()
	ended := false
	for t.now().Sub(start) < timeout {
		if end != nil {
			if ended = end(); ended {
				break
			}
		}
		target := find()
		if target == nil {
			if end == nil {
				LogInfo("walk target lost, stopping")
				break
			}
			t.advance()
			continue
		}

		c := target.Center()
		y := c.Y - t.heightOf(0.05)
		if y < 0 {
			y = 0
		}
		next := directionTo(float64(c.X), float64(y), float64(t.width()), float64(t.height()))
		if next != last {
			if last != DirNone {
				t.sendKeyUp(last.Key())
				t.sleep(keySwitchPause)
			}
			last = next
			t.sendKeyDown(next.Key())
		}
		t.advance()
	}

	if end != nil {
		return ended
	}
	return last != DirNone
}

// runUntil holds a directional key (optionally with the sprint mouse
// button) until cond succeeds or timeout.
func (t *Task) runUntil(cond func() bool, dir string, timeout time.Duration, raise, running bool) (bool, error) {
	if timeout <= 0 {
		return false, nil
	}
	t.sendKeyDown(dir)
	if running {
		t.Sleep(500 * time.Millisecond)
		t.input.MouseDown("right")
	}
	t.Sleep(time.Second)
	ok, err := t.waitBool("run condition", cond, waitOpts{timeout: timeout, raise: raise})
	t.sendKeyUp(dir)
	if running {
		t.input.MouseUp("right")
	}
	return ok, err
}
