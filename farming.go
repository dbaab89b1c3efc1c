// Package main - farming.go
//
// Runnable tasks built on the automation core, each a small state machine
// in the style of the rest of the control logic.
//
// FarmEchoTask:
//   EnsureMain -> Search -> Pick -> Search ... until stopped
//
// FarmWorldBossTask:
//   EnsureMain -> Stamina -> Teleport -> WaitFight -> Loot -> next boss
//
// Combat itself is external; WaitFight is a bounded idle during which the
// monthly card window keeps being polled through Task.Sleep.
package main

import (
	"errors"
	"time"
)

// FarmState enumerates the farm loop states.
type FarmState int

const (
	FarmStateEnsureMain FarmState = iota
	FarmStateStamina
	FarmStateTeleport
	FarmStateWaitFight
	FarmStateLoot
	FarmStateDone
)

// String returns the state name.
func (s FarmState) String() string {
	switch s {
	case FarmStateEnsureMain:
		return "EnsureMain"
	case FarmStateStamina:
		return "Stamina"
	case FarmStateTeleport:
		return "Teleport"
	case FarmStateWaitFight:
		return "WaitFight"
	case FarmStateLoot:
		return "Loot"
	case FarmStateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// FarmEchoTask roams the current area picking up echoes until stopped.
type FarmEchoTask struct {
	*Task
	stop chan struct{}
}

// NewFarmEchoTask wires the echo farm on an existing task session.
func NewFarmEchoTask(t *Task) *FarmEchoTask {
	return &FarmEchoTask{Task: t, stop: make(chan struct{})}
}

// Stop requests a cooperative stop at the next loop boundary.
func (ft *FarmEchoTask) Stop() {
	select {
	case <-ft.stop:
	default:
		close(ft.stop)
	}
}

func (ft *FarmEchoTask) stopped() bool {
	select {
	case <-ft.stop:
		return true
	default:
		return false
	}
}

// Run drives the pickup loop. Fatal errors (unknown game state) abort;
// soft misses just continue the search.
func (ft *FarmEchoTask) Run() error {
	ft.scheduleMonthlyCard(false)
	if err := ft.ensureMain(true, 30*time.Second); err != nil {
		return err
	}
	LogInfo("echo farm started")
	for !ft.stopped() {
		if err := ft.checkMain(); err != nil {
			return err
		}
		dropped := ft.yoloFindEcho(true)
		ft.incrDrop(dropped)
		if dropped {
			LogInfo("echo count %d", ft.Info("echo_count"))
		}
		ft.Sleep(time.Second)
		ft.advance()
	}
	LogInfo("echo farm stopped, %d picked", ft.Info("echo_count"))
	return nil
}

// FarmWorldBossTask cycles the configured bosses, teleporting to each and
// looting the echo drop after the (external) fight window.
type FarmWorldBossTask struct {
	*Task
	state FarmState
	boss  int
	stop  chan struct{}
}

// NewFarmWorldBossTask wires the boss farm on an existing task session.
func NewFarmWorldBossTask(t *Task) *FarmWorldBossTask {
	return &FarmWorldBossTask{Task: t, state: FarmStateEnsureMain, stop: make(chan struct{})}
}

// Stop requests a cooperative stop at the next state boundary.
func (bt *FarmWorldBossTask) Stop() {
	select {
	case <-bt.stop:
	default:
		close(bt.stop)
	}
}

func (bt *FarmWorldBossTask) stopped() bool {
	select {
	case <-bt.stop:
		return true
	default:
		return false
	}
}

// Run executes the state machine until the boss list is exhausted, stamina
// runs out, or a stop is requested.
func (bt *FarmWorldBossTask) Run() error {
	if len(bt.cfg.FarmBosses) == 0 {
		return &ConfigError{Msg: "no bosses configured to farm"}
	}
	bt.scheduleMonthlyCard(false)
	for bt.state != FarmStateDone && !bt.stopped() {
		next, err := bt.step()
		if err != nil {
			return err
		}
		LogDebug("boss farm %s -> %s", bt.state, next)
		bt.state = next
	}
	LogInfo("boss farm finished, %d echoes", bt.Info("echo_count"))
	return nil
}

func (bt *FarmWorldBossTask) step() (FarmState, error) {
	switch bt.state {
	case FarmStateEnsureMain:
		if err := bt.ensureMain(true, 30*time.Second); err != nil {
			return FarmStateDone, err
		}
		return FarmStateStamina, nil

	case FarmStateStamina:
		plan, err := bt.ensureStamina(bt.cfg.MinStamina, bt.cfg.MaxStamina)
		if errors.Is(err, ErrInsufficientStamina) {
			LogInfo("stamina exhausted, stopping boss farm")
			return FarmStateDone, nil
		}
		if err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				LogWarn("stamina readout unreadable, continuing without plan")
				return FarmStateTeleport, nil
			}
			return FarmStateDone, err
		}
		LogInfo("stamina plan target=%d leftover=%d replenished=%v",
			plan.Target, plan.Leftover, plan.Replenished)
		return FarmStateTeleport, nil

	case FarmStateTeleport:
		name := bt.cfg.FarmBosses[bt.boss]
		pos := bt.cfg.Bosses[name]
		if err := bt.teleportToBoss(name, pos.Dungeon, false); err != nil {
			return FarmStateDone, err
		}
		return FarmStateWaitFight, nil

	case FarmStateWaitFight:
		bt.Sleep(time.Duration(bt.cfg.BossWaitSec) * time.Second)
		return FarmStateLoot, nil

	case FarmStateLoot:
		dropped := bt.yoloFindEcho(true)
		bt.incrDrop(dropped)
		bt.boss++
		if bt.boss >= len(bt.cfg.FarmBosses) {
			return FarmStateDone, nil
		}
		return FarmStateStamina, nil

	default:
		return FarmStateDone, nil
	}
}
