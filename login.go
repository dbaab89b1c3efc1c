// Package main - login.go
//
// Login and team-presence state machine.
//
// World presence is inferred from the three team slot markers: exactly one
// or two present means "in team and in world". Zero means some other
// screen; three simultaneous detections are treated as ambiguous and count
// as not in team (pinned by test, pending product confirmation).
//
// ensureMain is the hard gate every task starts from: an automation loop
// must not act blindly outside a known game state, so failing to reach the
// main state within its timeout is fatal rather than retried.
package main

import (
	"regexp"
	"time"
)

var loginTextRe = regexp.MustCompile(`(登录|Log\s?In)`)

// TeamStatus is the result of one team-presence poll.
type TeamStatus struct {
	InTeam     bool
	EmptyIndex int
	Members    int
}

// teamStatus samples the three slot markers independently and derives
// presence. EmptyIndex is the first absent slot, -1 when none.
func (t *Task) teamStatus() TeamStatus {
	slots := []*Box{
		t.findOne("char_1_text", nil, 0.75),
		t.findOne("char_2_text", nil, 0.75),
		t.findOne("char_3_text", nil, 0.75),
	}
	empty := -1
	present := 0
	for i, s := range slots {
		if s == nil {
			if empty == -1 {
				empty = i
			}
		} else {
			present++
		}
	}
	if present == 1 || present == 2 {
		t.loggedIn = true
		return TeamStatus{InTeam: true, EmptyIndex: empty, Members: present}
	}
	return TeamStatus{InTeam: false, EmptyIndex: -1, Members: present}
}

// inTeamAndWorld reports whether the client shows the in-world team HUD.
func (t *Task) inTeamAndWorld() bool {
	return t.teamStatus().InTeam
}

// waitInTeamAndWorld polls for world presence, optionally dismissing a
// dialog once found.
func (t *Task) waitInTeamAndWorld(timeout time.Duration, raise, esc bool) (bool, error) {
	opts := waitOpts{timeout: timeout, raise: raise}
	if esc {
		opts.post = func() { t.back(2 * time.Second) }
	}
	return t.waitBool("in team and world", t.inTeamAndWorld, opts)
}

// waitLogin advances the logged-out states: click the login button when the
// OCR finds one, or drive the account screen until either the monthly card
// popup or world presence shows up. Returns true once a full auto-login
// completed.
func (t *Task) waitLogin() bool {
	if t.loggedIn {
		return false
	}
	if logins := t.ocrRegion(t.boxOf(0.3, 0.3, 0.7, 0.7, "login_area"), loginTextRe); len(logins) > 0 {
		t.clickBox(logins[0], 0)
		LogInfo("clicked login button")
		return false
	}
	if t.findOne("login_account", nil, 0.7) == nil {
		return false
	}
	t.waitBool("login account screen gone", func() bool {
		return t.findOne("login_account", nil, 0.7) == nil
	}, waitOpts{
		timeout: 30 * time.Second,
		pre:     func() { t.clickRelative(0.5, 0.9, 3 * time.Second) },
	})
	t.waitBool("monthly card or world", func() bool {
		return t.findOne("monthly_card", nil, 0.7) != nil || t.inTeamAndWorld()
	}, waitOpts{
		timeout: 120 * time.Second,
		pre:     func() { t.clickRelative(0.5, 0.9, 3 * time.Second) },
	})
	t.waitBool("world after login", t.inTeamAndWorld, waitOpts{
		timeout: 5 * time.Second,
		post:    func() { t.clickRelative(0.5, 0.9, 3 * time.Second) },
	})
	LogInfo("auto login success")
	t.loggedIn = true
	t.Sleep(3 * time.Second)
	return true
}

// isMain is one poll of the main-state machine: world presence, a claimed
// monthly card, or login progress all count as forward motion; anything
// else optionally presses back to peel off an unknown dialog.
func (t *Task) isMain(esc bool) bool {
	if t.inTeamAndWorld() {
		t.loggedIn = true
		return true
	}
	if t.handleMonthlyCard() {
		return true
	}
	if t.waitLogin() {
		return true
	}
	if esc {
		t.back(1500 * time.Millisecond)
	}
	return false
}

// ensureMain polls isMain until the terminal state is reached. Timeout is a
// deliberate hard stop: the surrounding task must not continue blindly.
func (t *Task) ensureMain(esc bool, timeout time.Duration) error {
	ok, _ := t.waitBool("main state", func() bool { return t.isMain(esc) },
		waitOpts{timeout: timeout})
	if !ok {
		return &ConfigError{Msg: "not in game world and in team, start in the open world"}
	}
	LogInfo("in main state")
	return nil
}

// checkMain is the cheap variant used between loop iterations: one retry
// with an esc press before giving up.
func (t *Task) checkMain() error {
	if t.teamStatus().InTeam {
		return nil
	}
	t.clickRelative(0, 0, 0)
	t.back(time.Second)
	if !t.teamStatus().InTeam {
		return &ConfigError{Msg: "must be in game world and in team"}
	}
	return nil
}
