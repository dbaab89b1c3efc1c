// Package main - tray.go
//
// System tray UI: pick a task, watch the counters, quit. One task runs at
// a time; starting another stops the current one first.
package main

import (
	"fmt"

	"github.com/getlantern/systray"
)

type runnable interface {
	Run() error
	Stop()
}

// TrayApp owns the tray menu and the lifecycle of the running task.
type TrayApp struct {
	newTask func() *Task
	current runnable
	done    chan struct{}

	statusItem *systray.MenuItem
	echoItem   *systray.MenuItem
	bossItem   *systray.MenuItem
	stopItem   *systray.MenuItem
	quitItem   *systray.MenuItem
}

// NewTrayApp creates the tray controller. newTask builds a fresh task
// session per start, so session state never leaks between runs.
func NewTrayApp(newTask func() *Task) *TrayApp {
	return &TrayApp{newTask: newTask}
}

// Run starts the tray loop; blocks until quit.
func (a *TrayApp) Run() {
	systray.Run(a.onReady, a.onExit)
}

func (a *TrayApp) onReady() {
	systray.SetTitle("wuwabot")
	systray.SetTooltip("WuWa automation")

	a.statusItem = systray.AddMenuItem("Status: idle", "Current task state")
	a.statusItem.Disable()
	systray.AddSeparator()
	a.echoItem = systray.AddMenuItem("Farm Echoes", "Roam and absorb echoes")
	a.bossItem = systray.AddMenuItem("Farm World Bosses", "Teleport through the boss list")
	a.stopItem = systray.AddMenuItem("Stop", "Stop the running task")
	systray.AddSeparator()
	a.quitItem = systray.AddMenuItem("Quit", "Exit")

	go a.handleEvents()
}

func (a *TrayApp) handleEvents() {
	for {
		select {
		case <-a.echoItem.ClickedCh:
			a.start("echo", func(t *Task) runnable { return NewFarmEchoTask(t) })
		case <-a.bossItem.ClickedCh:
			a.start("boss", func(t *Task) runnable { return NewFarmWorldBossTask(t) })
		case <-a.stopItem.ClickedCh:
			a.stopCurrent()
			a.statusItem.SetTitle("Status: idle")
		case <-a.quitItem.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (a *TrayApp) start(name string, build func(*Task) runnable) {
	a.stopCurrent()
	task := build(a.newTask())
	a.current = task
	a.done = make(chan struct{})
	a.statusItem.SetTitle(fmt.Sprintf("Status: running %s", name))
	LogInfo("tray starting %s task", name)
	go func(done chan struct{}) {
		defer close(done)
		if err := task.Run(); err != nil {
			LogError("%s task: %v", name, err)
			a.statusItem.SetTitle(fmt.Sprintf("Status: %s failed", name))
			return
		}
		a.statusItem.SetTitle(fmt.Sprintf("Status: %s finished", name))
	}(a.done)
}

func (a *TrayApp) stopCurrent() {
	if a.current == nil {
		return
	}
	a.current.Stop()
	<-a.done
	a.current = nil
}

func (a *TrayApp) onExit() {
	a.stopCurrent()
	LogInfo("tray exiting")
}
