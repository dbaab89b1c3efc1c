// Package main - wait.go
//
// The bounded polling primitive all higher control logic builds on.
//
// waitUntil repeatedly evaluates a probe until it reports success or the
// timeout elapses. After each failed evaluation an optional pre-action runs
// (e.g. a click that might reveal the target) before the next frame is
// sampled. On success an optional post-action runs once. A settle time
// requires the probe to hold continuously before success is declared,
// suppressing detection flicker.
//
// All waiting in the core is expressed through this loop; there is no
// unbounded blocking call anywhere.
package main

import (
	"errors"
	"fmt"
	"time"
)

// NotFoundError is the raised form of a detection timeout.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cannot find %s", e.What)
}

// ConfigError marks a fatal misconfiguration (a hard-required anchor that
// never appears). It is not retried.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Msg
}

// ErrInsufficientStamina is returned when even the minimum stamina target
// cannot be reached from current plus reserve.
var ErrInsufficientStamina = errors.New("insufficient stamina for minimum target")

type waitOpts struct {
	timeout time.Duration
	raise   bool
	pre     func()
	post    func()
	settle  time.Duration
}

// waitUntil polls probe until it succeeds or opts.timeout elapses. Returns
// the probe result and whether it succeeded; on timeout the error is a
// *NotFoundError only when opts.raise is set.
func waitUntil[T any](t *Task, what string, probe func() (T, bool), opts waitOpts) (T, bool, error) {
	var zero T
	start := t.now()
	var settledSince time.Time
	var settled T

	for {
		v, ok := probe()
		if ok {
			if opts.settle <= 0 {
				if opts.post != nil {
					opts.post()
				}
				return v, true, nil
			}
			if settledSince.IsZero() {
				settledSince = t.now()
				settled = v
			} else if t.now().Sub(settledSince) >= opts.settle {
				if opts.post != nil {
					opts.post()
				}
				return settled, true, nil
			}
		} else {
			settledSince = time.Time{}
			if opts.pre != nil {
				opts.pre()
			}
		}
		if t.now().Sub(start) >= opts.timeout {
			break
		}
		t.advance()
		t.sleep(t.cfg.PollInterval())
	}

	if opts.raise {
		return zero, false, &NotFoundError{What: what}
	}
	return zero, false, nil
}

// waitBool adapts a boolean condition to the wait engine.
func (t *Task) waitBool(what string, cond func() bool, opts waitOpts) (bool, error) {
	_, ok, err := waitUntil(t, what, func() (struct{}, bool) {
		return struct{}{}, cond()
	}, opts)
	return ok, err
}

// waitBox adapts a box-producing probe to the wait engine.
func (t *Task) waitBox(what string, probe func() *Box, opts waitOpts) (*Box, error) {
	b, _, err := waitUntil(t, what, func() (*Box, bool) {
		v := probe()
		return v, v != nil
	}, opts)
	return b, err
}

// waitFeature waits for a named template feature on screen.
func (t *Task) waitFeature(name string, region *Box, threshold float64, opts waitOpts) (*Box, error) {
	return t.waitBox(name, func() *Box {
		return t.findOne(name, region, threshold)
	}, opts)
}
