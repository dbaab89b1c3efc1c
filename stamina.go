// Package main - stamina.go
//
// Stamina accounting: reading the current/reserve pair from the top-right
// readout and deciding how much reserve to convert to reach the policy
// thresholds.
//
// The replenishment click sequence is not transactional: if the dialog
// breaks mid-way the resource state is left inconsistent and the session
// must be recovered at task level.
package main

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numberRe  = regexp.MustCompile(`^(\d+)$`)
	staminaRe = regexp.MustCompile(`^(\d+)/(\d+)$`)
)

// StaminaPlan is the outcome of ensureStamina: the stamina target reached,
// reserve left over beyond the target, stamina above the target that will
// be spent from the current pool, and whether reserve was converted.
type StaminaPlan struct {
	Target      int
	Leftover    int
	Consumed    int
	Replenished bool
}

// getStamina reads (current, reserve) via OCR of the readout band.
// Returns (-1, -1) when the readout is unreadable.
func (t *Task) getStamina() (int, int) {
	boxes, err := t.waitOCRBoxes(0.49, 0.01, 0.92, 0.10, waitOpts{timeout: 5 * time.Second}, numberRe, staminaRe)
	if err != nil || len(boxes) == 0 {
		return -1, -1
	}
	currents := findBoxesByName(boxes, staminaRe)
	reserves := findBoxesByName(boxes, numberRe)
	if len(currents) == 0 || len(reserves) == 0 {
		return -1, -1
	}
	current, err := strconv.Atoi(strings.SplitN(currents[0].Name, "/", 2)[0])
	if err != nil {
		return -1, -1
	}
	reserve, err := strconv.Atoi(reserves[0].Name)
	if err != nil {
		return -1, -1
	}
	t.incrInfo("stamina_reads", 1)
	LogDebug("stamina read current=%d reserve=%d", current, reserve)
	return current, reserve
}

// waitOCRBoxes polls OCR of a fractional region until any pattern matches.
func (t *Task) waitOCRBoxes(x1, y1, x2, y2 float64, opts waitOpts, patterns ...*regexp.Regexp) ([]Box, error) {
	region := t.boxOf(x1, y1, x2, y2, "ocr_wait")
	boxes, _, err := waitUntil(t, "ocr text", func() ([]Box, bool) {
		b := t.ocrRegion(region, patterns...)
		return b, len(b) > 0
	}, opts)
	return boxes, err
}

// planStamina applies the threshold policy, in order: already at max; can
// reach max from reserve; already at min; can reach min from reserve.
// Unreachable minimum is an explicit error rather than a silent nil.
func planStamina(current, reserve, minSt, maxSt int) (StaminaPlan, error) {
	switch {
	case current >= maxSt:
		return StaminaPlan{Target: maxSt, Leftover: current + reserve - maxSt, Consumed: current - maxSt}, nil
	case current+reserve >= maxSt:
		return StaminaPlan{Target: maxSt, Leftover: current + reserve - maxSt, Replenished: true}, nil
	case current >= minSt:
		return StaminaPlan{Target: minSt, Leftover: current + reserve - minSt, Consumed: current - minSt}, nil
	case current+reserve >= minSt:
		return StaminaPlan{Target: minSt, Leftover: current + reserve - minSt, Replenished: true}, nil
	default:
		return StaminaPlan{}, ErrInsufficientStamina
	}
}

// ensureStamina reads the pool and replenishes from reserve as needed to
// reach the policy target. A replenishment never draws more than the
// reserve holds.
func (t *Task) ensureStamina(minSt, maxSt int) (StaminaPlan, error) {
	current, reserve := t.getStamina()
	if current < 0 {
		return StaminaPlan{}, &NotFoundError{What: "stamina readout"}
	}
	plan, err := planStamina(current, reserve, minSt, maxSt)
	if err != nil {
		return StaminaPlan{}, err
	}
	if plan.Replenished {
		if err := t.addStamina(plan.Target - current); err != nil {
			return StaminaPlan{}, err
		}
	}
	return plan, nil
}

// addStamina converts toAdd units of reserve through the resource dialog:
// open it, read the reserve total, issue reserve-toAdd decrement clicks on
// the stepper, confirm and back out of the two nested dialogs.
func (t *Task) addStamina(toAdd int) error {
	t.clickRelative(0.83, 0.05, time.Second)
	if _, err := t.waitOCRBoxes(0.41, 0.47, 0.45, 0.54, waitOpts{timeout: 10 * time.Second, raise: true}, numberRe); err != nil {
		return err
	}
	t.clickRelative(0.7, 0.7, time.Second)
	boxes, err := t.waitOCRBoxes(0.6, 0.53, 0.66, 0.62, waitOpts{timeout: 10 * time.Second, raise: true}, numberRe)
	if err != nil {
		return err
	}
	reserve, err := strconv.Atoi(boxes[0].Name)
	if err != nil {
		return &NotFoundError{What: "reserve total in dialog"}
	}
	toMinus := reserve - toAdd
	LogInfo("add stamina: to_add=%d reserve=%d decrements=%d", toAdd, reserve, toMinus)
	for i := 0; i < toMinus; i++ {
		t.clickRelative(0.24, 0.58, 10*time.Millisecond)
	}
	t.clickRelative(0.69, 0.71, 2*time.Second)
	t.incrInfo("stamina_added", toAdd)
	t.back(time.Second)
	t.back(time.Second)
	return nil
}
