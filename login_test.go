package main

import (
	"errors"
	"testing"
	"time"
)

// slotMatcher scripts the three team slot markers.
func slotMatcher(present ...int) *fakeMatcher {
	boxes := map[string]Box{}
	for _, i := range present {
		name := []string{"char_1_text", "char_2_text", "char_3_text"}[i]
		boxes[name] = Box{X: 1100, Y: 200 + 60*i, W: 30, H: 20, Name: name}
	}
	return matchNames(boxes)
}

func TestTeamStatus(t *testing.T) {
	tests := []struct {
		name    string
		present []int
		want    TeamStatus
	}{
		{"one empty slot in the middle", []int{0, 2}, TeamStatus{InTeam: true, EmptyIndex: 1, Members: 2}},
		{"single member", []int{1}, TeamStatus{InTeam: true, EmptyIndex: 0, Members: 1}},
		{"last slot empty", []int{0, 1}, TeamStatus{InTeam: true, EmptyIndex: 2, Members: 2}},
		{"no slots detected", nil, TeamStatus{InTeam: false, EmptyIndex: -1, Members: 0}},
		// Three simultaneous detections are ambiguous and do not count as
		// in-team.
		{"all three detected", []int{0, 1, 2}, TeamStatus{InTeam: false, EmptyIndex: -1, Members: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestTask()
			h.task.match = slotMatcher(tt.present...)
			if got := h.task.teamStatus(); got != tt.want {
				t.Errorf("teamStatus = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTeamStatusSetsLoggedIn(t *testing.T) {
	h := newTestTask()
	h.task.match = slotMatcher(0)
	h.task.teamStatus()
	if !h.task.loggedIn {
		t.Fatal("loggedIn not latched on a positive team detection")
	}
}

func TestCheckMainInTeam(t *testing.T) {
	h := newTestTask()
	h.task.match = slotMatcher(0, 1)
	if err := h.task.checkMain(); err != nil {
		t.Fatalf("checkMain err = %v", err)
	}
	if len(h.input.events) != 0 {
		t.Fatalf("input issued while already in team: %v", h.input.events)
	}
}

func TestCheckMainRecoversWithEsc(t *testing.T) {
	h := newTestTask()
	// First poll sees nothing; after the esc press the slots are back.
	lookups := 0
	h.task.match = &fakeMatcher{find: func(names []string, _ *Box, _ float64) *Box {
		lookups++
		if lookups <= 3 {
			return nil
		}
		if names[0] == "char_1_text" {
			return &Box{X: 1100, Y: 200, W: 30, H: 20, Name: "char_1_text"}
		}
		return nil
	}}
	if err := h.task.checkMain(); err != nil {
		t.Fatalf("checkMain err = %v, want recovery after esc", err)
	}
	escSeen := false
	for _, e := range h.input.events {
		if e == "tap esc" {
			escSeen = true
		}
	}
	if !escSeen {
		t.Fatal("no esc pressed during recovery")
	}
}

func TestCheckMainFails(t *testing.T) {
	h := newTestTask()
	err := h.task.checkMain()
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("checkMain err = %v, want *ConfigError", err)
	}
}

func TestEnsureMainTimesOut(t *testing.T) {
	h := newTestTask()
	err := h.task.ensureMain(false, 3*time.Second)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("ensureMain err = %v, want *ConfigError", err)
	}
}

func TestEnsureMainInWorld(t *testing.T) {
	h := newTestTask()
	h.task.match = slotMatcher(0, 2)
	if err := h.task.ensureMain(true, 3*time.Second); err != nil {
		t.Fatalf("ensureMain err = %v", err)
	}
	if !h.task.loggedIn {
		t.Fatal("loggedIn not set after reaching the main state")
	}
}

func TestWaitLoginClicksLoginButton(t *testing.T) {
	h := newTestTask()
	h.ocr.results = [][]Box{{{Name: "Log In", X: 100, Y: 50, W: 80, H: 20}}}
	if h.task.waitLogin() {
		t.Fatal("waitLogin = true, want false until the login completes")
	}
	if len(h.input.clicks) != 1 {
		t.Fatalf("clicks = %d, want the login button clicked once", len(h.input.clicks))
	}
}

func TestWaitLoginSkipsWhenLoggedIn(t *testing.T) {
	h := newTestTask()
	h.task.loggedIn = true
	if h.task.waitLogin() {
		t.Fatal("waitLogin = true for a logged-in session")
	}
	if h.ocr.calls != 0 {
		t.Fatalf("OCR invoked %d times for a logged-in session", h.ocr.calls)
	}
}
