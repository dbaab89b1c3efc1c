// Package main - monthlycard.go
//
// Periodic reward scheduling. The monthly card popup appears once per day
// around a fixed hour; the scheduler computes the next eligible window and
// generic sleeps poll it opportunistically, so the claim never adds
// uncompensated latency to a running task.
package main

import (
	"time"
)

const (
	monthlyCardLead   = 30 * time.Second
	monthlyCardWindow = 120 * time.Second
)

// scheduleMonthlyCard computes the next eligible check time: the coming
// occurrence of the configured hour, rolled a day forward when already past
// or when nextDay forces it, minus a fixed lead. Disabled config clears the
// schedule.
func (t *Task) scheduleMonthlyCard(nextDay bool) {
	if !t.cfg.MonthlyCardEnabled {
		t.nextMonthlyCard = time.Time{}
		return
	}
	now := t.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), t.cfg.MonthlyCardHour, 0, 0, 0, now.Location())
	if !now.Before(next) || nextDay {
		next = next.AddDate(0, 0, 1)
	}
	t.nextMonthlyCard = next.Add(-monthlyCardLead)
	LogInfo("next monthly card check at %s", t.nextMonthlyCard.Format(time.RFC3339))
}

// shouldCheckMonthlyCard reports whether now falls inside the polling
// window after the eligible start. The window is deliberately wide (0-120s)
// because detection takes time and the surrounding loop polls irregularly.
func (t *Task) shouldCheckMonthlyCard() bool {
	if t.nextMonthlyCard.IsZero() {
		return false
	}
	since := t.now().Sub(t.nextMonthlyCard)
	return since > 0 && since < monthlyCardWindow
}

// checkForMonthlyCard runs an opportunistic claim attempt when inside the
// window and returns the time it consumed, to be subtracted from the sleep
// that triggered it.
func (t *Task) checkForMonthlyCard() time.Duration {
	if t.checkingCard || !t.shouldCheckMonthlyCard() {
		return 0
	}
	t.checkingCard = true
	defer func() { t.checkingCard = false }()

	start := t.now()
	LogInfo("monthly card window open, checking")
	if !t.inTeamAndWorld() {
		return t.now().Sub(start)
	}
	ok, _ := t.waitBool("monthly card popup", t.handleMonthlyCard,
		waitOpts{timeout: monthlyCardWindow})
	LogInfo("monthly card wait finished, claimed=%v", ok)
	return t.now().Sub(start)
}

// handleMonthlyCard claims the popup when present: two confirm clicks with
// settle sleeps, wait for return to team-and-world, reschedule for the next
// day. No state changes when the popup is absent.
func (t *Task) handleMonthlyCard() bool {
	card := t.findOne("monthly_card", nil, 0.8)
	if card == nil {
		return false
	}
	t.clickRelative(0.50, 0.89, 0)
	t.Sleep(2 * time.Second)
	t.clickRelative(0.50, 0.89, 0)
	t.Sleep(2 * time.Second)
	t.waitBool("world after monthly card", t.inTeamAndWorld, waitOpts{
		timeout: 10 * time.Second,
		post:    func() { t.clickRelative(0.50, 0.89, time.Second) },
	})
	t.scheduleMonthlyCard(true)
	t.incrInfo("monthly_cards_claimed", 1)
	return true
}
