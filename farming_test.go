package main

import (
	"errors"
	"testing"
)

func TestFarmStateString(t *testing.T) {
	tests := []struct {
		state FarmState
		want  string
	}{
		{FarmStateEnsureMain, "EnsureMain"},
		{FarmStateStamina, "Stamina"},
		{FarmStateTeleport, "Teleport"},
		{FarmStateWaitFight, "WaitFight"},
		{FarmStateLoot, "Loot"},
		{FarmStateDone, "Done"},
		{FarmState(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("FarmState(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

func TestFarmStopIdempotent(t *testing.T) {
	h := newTestTask()
	ft := NewFarmEchoTask(h.task)
	ft.Stop()
	ft.Stop()
	if !ft.stopped() {
		t.Fatal("stopped = false after Stop")
	}

	bt := NewFarmWorldBossTask(h.task)
	bt.Stop()
	bt.Stop()
	if !bt.stopped() {
		t.Fatal("boss task stopped = false after Stop")
	}
}

func TestFarmWorldBossNoBosses(t *testing.T) {
	h := newTestTask()
	h.task.cfg.FarmBosses = nil
	err := NewFarmWorldBossTask(h.task).Run()
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("Run err = %v, want *ConfigError", err)
	}
}

func TestFarmWorldBossStopsOnExhaustedStamina(t *testing.T) {
	h := newTestTask()
	// In world and in team, but the pool cannot reach the minimum.
	h.task.match = slotMatcher(0)
	h.ocr.results = [][]Box{{{Name: "10/240"}, {Name: "0"}}}

	bt := NewFarmWorldBossTask(h.task)
	if err := bt.Run(); err != nil {
		t.Fatalf("Run err = %v, want a clean stop", err)
	}
	if bt.state != FarmStateDone {
		t.Fatalf("final state = %v, want Done", bt.state)
	}
	if h.task.Info("echo_count") != 0 {
		t.Fatalf("echo_count = %d, want no loot attempts", h.task.Info("echo_count"))
	}
}

func TestFarmWorldBossAbortsOutsideWorld(t *testing.T) {
	h := newTestTask()
	err := NewFarmWorldBossTask(h.task).Run()
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("Run err = %v, want *ConfigError from the main-state gate", err)
	}
}
