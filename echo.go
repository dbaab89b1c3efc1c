// Package main - echo.go
//
// Echo pickup: the multi-modal detection fusion and the interaction loop
// around the F pickup prompt.
//
// Decision policy, cheapest and most specific first:
//  1. the F prompt with the absorb text already on screen;
//  2. up to four camera-rotation samples, each checking the object
//     detector's best box against a vertical threshold (an echo lying on
//     the ground reads low in the frame), then the color-ratio heuristic
//     over the center-front region;
//  3. a default walk-forward-and-retry.
// Every branch exits early on a positive pickup.
package main

import (
	"regexp"
	"time"
)

var absorbRe = regexp.MustCompile(`(吸收|Absorb)`)

// absorbPattern returns the absorb-prompt pattern for the client language,
// nil when the language has no reliable OCR pattern (template-only mode).
func (t *Task) absorbPattern() *regexp.Regexp {
	switch t.gameLang() {
	case "zh_CN", "en_US":
		return absorbRe
	default:
		return nil
	}
}

// fSearchBox derives the search region for the F prompt from the anchored
// feature box: widened left, stretched upward to cover the stacked prompt
// list.
func (t *Task) fSearchBox() *Box {
	f := t.findOne("pick_up_f_hcenter_vcenter", nil, t.cfg.MatchThreshold)
	if f == nil {
		return nil
	}
	box := f.Offset(
		-int(float64(f.W)*0.3),
		-f.H*5,
		int(float64(f.W)*0.65),
		f.H*6,
		"search_dialog",
	)
	return &box
}

// findFWithText locates the F prompt and, when a pattern is given, requires
// matching text in the label region to its right.
func (t *Task) findFWithText(pattern *regexp.Regexp) *Box {
	region := t.fSearchBox()
	f := t.findOne("pick_up_f_hcenter_vcenter", region, 0.8)
	if f == nil || pattern == nil {
		return f
	}
	textBox := f.Offset(
		f.W*5,
		-int(float64(f.H)*0.8),
		f.W*7,
		int(float64(f.H)*1.5),
		"search_text_box",
	)
	if len(t.ocrRegion(textBox, pattern)) == 0 {
		return nil
	}
	return f
}

// handleClaimButton dismisses the claim/cancel dialog that some F
// interactions open instead of a pickup. Returns whether one was found.
func (t *Task) handleClaimButton() bool {
	found, _ := t.waitFeature("claim_cancel_button_hcenter_vcenter", nil, 0.8,
		waitOpts{timeout: 1500 * time.Millisecond})
	if found == nil {
		return false
	}
	t.Sleep(500 * time.Millisecond)
	t.back(500 * time.Millisecond)
	LogInfo("dismissed a claim dialog")
	return true
}

// findEcho asks the object detector for echo boxes and returns the top one
// by confidence.
func (t *Task) findEcho() *Box {
	frame := t.frame()
	if frame == nil {
		return nil
	}
	boxes, err := t.detect.Detect(frame, t.cfg.EchoLabel)
	if err != nil {
		LogWarn("echo detect: %v", err)
		return nil
	}
	return topByConfidence(boxes)
}

// pickEcho absorbs when the prompt with the absorb text is up. Returns
// whether the pickup went through (a claim dialog in the way counts as a
// miss).
func (t *Task) pickEcho() bool {
	if t.findFWithText(t.absorbPattern()) == nil {
		return false
	}
	t.sendKey("f", 0)
	if t.handleClaimButton() {
		return false
	}
	return true
}

// yoloFindEcho is the full fusion policy described in the file header.
func (t *Task) yoloFindEcho(useColor bool) bool {
	if t.pickEcho() {
		t.Sleep(500 * time.Millisecond)
		return true
	}

	frontBox := t.boxOf(0.35, 0.35, 0.65, 0.53, "echo_front")
	for i := 0; i < 4; i++ {
		// Center the camera behind the character before sampling.
		t.middleClickRelative(0.5, 0.5, uiClickHold)
		t.Sleep(400 * time.Millisecond)

		echo := t.findEcho()
		if echo != nil && echo.Center().Y > t.heightOf(0.55) {
			LogInfo("detector found echo %+v, walking", *echo)
			return t.walkToBox(t.findEcho, 15*time.Second, t.pickEcho)
		}
		if useColor {
			percent := colorPercent(t.frame(), frontBox, t.cfg.EchoColor)
			LogDebug("echo color percent %.4f", percent)
			if percent > t.cfg.EchoColorThreshold {
				saveDebugImage(t.cfg.DebugDir, "echo_color", t.frame())
				return t.walkFindEcho(500 * time.Millisecond)
			}
		}
		// Rotate a step and sample again.
		t.sendKeyDown("a")
		t.sleep(40 * time.Millisecond)
		t.sendKeyUp("a")
		t.Sleep(600 * time.Millisecond)
	}

	t.middleClickRelative(0.5, 0.5, uiClickHold)
	return t.walkFindEcho(time.Second)
}

// walkFindEcho walks forward probing for the absorb prompt.
func (t *Task) walkFindEcho(backward time.Duration) bool {
	ok, _ := t.walkUntilF("w", 4*time.Second, false, backward, t.absorbPattern(), true)
	if ok {
		LogDebug("found echo while walking")
	}
	return ok
}

// walkUntilF presses F when the prompt is already up, otherwise probes
// backward (when backward > 0) and then holds the direction until the
// prompt appears or timeout.
func (t *Task) walkUntilF(dir string, timeout time.Duration, raise bool, backward time.Duration,
	pattern *regexp.Regexp, cancel bool) (bool, error) {
	if t.findFWithText(pattern) == nil {
		if backward > 0 {
			if ok, _ := t.sendKeyAndWaitF("s", false, backward, false, pattern, cancel); ok {
				LogInfo("found the F prompt walking backward")
				return true, nil
			}
		}
		ok, err := t.sendKeyAndWaitF(dir, raise, timeout, false, pattern, cancel)
		if ok {
			t.Sleep(500 * time.Millisecond)
		}
		return ok, err
	}
	t.sendKey("f", 0)
	if cancel && t.handleClaimButton() {
		return false, nil
	}
	t.Sleep(500 * time.Millisecond)
	return true, nil
}

// sendKeyAndWaitF holds a directional key (optionally sprinting with the
// right mouse button) until the F prompt appears, presses F and releases
// everything. When a claim dialog was opened instead, it backs the
// character out along the same direction for the time already walked.
func (t *Task) sendKeyAndWaitF(dir string, raise bool, timeout time.Duration, running bool,
	pattern *regexp.Regexp, cancel bool) (bool, error) {
	if timeout <= 0 {
		return false, nil
	}
	start := t.now()
	if running {
		t.input.MouseDown("right")
	}
	t.sendKeyDown(dir)
	found, _ := t.waitBox("pickup F prompt", func() *Box {
		return t.findFWithText(pattern)
	}, waitOpts{timeout: timeout})
	if found != nil {
		t.sendKey("f", 100*time.Millisecond)
	}
	t.sendKeyUp(dir)
	if running {
		t.input.MouseUp("right")
	}
	if found == nil {
		if raise {
			return false, &NotFoundError{What: "the F prompt to enter"}
		}
		LogWarn("cannot find the F prompt to enter")
		return false, nil
	}

	walked := t.now().Sub(start)
	if cancel && t.handleClaimButton() {
		t.Sleep(500 * time.Millisecond)
		t.sendKeyDown(dir)
		if running {
			t.input.MouseDown("right")
		}
		t.sleep(walked + 200*time.Millisecond)
		if running {
			t.input.MouseUp("right")
		}
		t.sendKeyUp(dir)
		return false, nil
	}
	return true, nil
}

// incrDrop bumps the echo counter when a pickup succeeded.
func (t *Task) incrDrop(dropped bool) {
	if dropped {
		t.incrInfo("echo_count", 1)
	}
}
