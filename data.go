// Package main - data.go
//
// Core data structures shared by the perception and control code.
//
// Major Data Categories:
//
// 1. Geometric Types:
//    - Point: 2D screen coordinates
//    - Box: a located region with optional OCR text, detector label and
//      confidence; produced by OCR, template matching and object detection
//      alike so the fusion logic can treat all three uniformly
//
// 2. Control Types:
//    - Direction: one of the four movement commands mapped to WASD
//
// Box values are immutable after creation; derived search regions are built
// with Offset, which returns a copy shifted and resized by pixel amounts.
package main

import "regexp"

// Point represents a 2D coordinate in screen space.
type Point struct {
	X int
	Y int
}

// Box is a located screen region. Depending on the producer it carries an
// OCR word or feature name (Name), a detector class (Label) and a match or
// detection confidence.
type Box struct {
	X          int
	Y          int
	W          int
	H          int
	Name       string
	Label      int
	Confidence float64
}

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Offset returns a copy of the box moved by (dx, dy) and grown by (dw, dh),
// renamed to name. Width and height are clamped to at least 1 so a derived
// search region is never empty.
func (b Box) Offset(dx, dy, dw, dh int, name string) Box {
	nb := Box{
		X:    b.X + dx,
		Y:    b.Y + dy,
		W:    b.W + dw,
		H:    b.H + dh,
		Name: name,
	}
	if nb.X < 0 {
		nb.X = 0
	}
	if nb.Y < 0 {
		nb.Y = 0
	}
	if nb.W < 1 {
		nb.W = 1
	}
	if nb.H < 1 {
		nb.H = 1
	}
	return nb
}

// Contains reports whether the point lies inside the box.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// findBoxesByName returns the boxes whose Name matches the pattern,
// preserving input order.
func findBoxesByName(boxes []Box, re *regexp.Regexp) []Box {
	var out []Box
	for _, b := range boxes {
		if re.MatchString(b.Name) {
			out = append(out, b)
		}
	}
	return out
}

// Direction is one of the four movement commands.
type Direction int

const (
	DirNone Direction = iota
	DirForward
	DirBackward
	DirLeft
	DirRight
)

// String returns the command name.
func (d Direction) String() string {
	switch d {
	case DirForward:
		return "forward"
	case DirBackward:
		return "backward"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Key returns the movement key held for this direction.
func (d Direction) Key() string {
	switch d {
	case DirForward:
		return "w"
	case DirBackward:
		return "s"
	case DirLeft:
		return "a"
	case DirRight:
		return "d"
	default:
		return ""
	}
}
