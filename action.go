// Package main - action.go
//
// Synthetic input injection.
//
// Input is the narrow contract the control logic uses for keys and mouse;
// RobotInput implements it with native events via robotgo. Coordinates are
// absolute pixels; the Task layer converts screen fractions before calling
// in here.
//
// Timing Strategy:
// Click-and-hold durations are expressed by the caller, not hidden in this
// layer, because the game registers some clicks only with a longer press
// (0.2s on UI buttons vs 0.01s on world clicks).
package main

import (
	"time"

	"github.com/go-vgo/robotgo"
)

// Input injects keyboard and mouse events into the game client.
type Input interface {
	KeyTap(key string)
	KeyDown(key string)
	KeyUp(key string)
	MouseMove(x, y int)
	Click(x, y int, hold time.Duration)
	MiddleClick(x, y int, hold time.Duration)
	MouseDown(button string)
	MouseUp(button string)
}

// RobotInput drives the real client through robotgo.
type RobotInput struct{}

func (RobotInput) KeyTap(key string) {
	robotgo.KeyTap(key)
}

func (RobotInput) KeyDown(key string) {
	robotgo.KeyToggle(key, "down")
}

func (RobotInput) KeyUp(key string) {
	robotgo.KeyToggle(key, "up")
}

func (RobotInput) MouseMove(x, y int) {
	robotgo.Move(x, y)
}

// Click moves to (x, y), presses the left button, holds it for the given
// duration and releases.
func (RobotInput) Click(x, y int, hold time.Duration) {
	robotgo.Move(x, y)
	robotgo.Toggle("left")
	time.Sleep(hold)
	robotgo.Toggle("left", "up")
}

func (RobotInput) MiddleClick(x, y int, hold time.Duration) {
	robotgo.Move(x, y)
	robotgo.Toggle("center")
	time.Sleep(hold)
	robotgo.Toggle("center", "up")
}

func (RobotInput) MouseDown(button string) {
	robotgo.Toggle(button)
}

func (RobotInput) MouseUp(button string) {
	robotgo.Toggle(button, "up")
}
