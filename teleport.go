// Package main - teleport.go
//
// Multi-step teleport navigation through the in-game book:
// open menu -> locate boss listing -> page scroll -> row select -> confirm
// travel -> wait for world presence. Each transition is a click-and-settle
// step driven by the wait engine. The book anchor never appearing after the
// open step is a configuration error (wrong hotkey), not a transient miss.
package main

import (
	"fmt"
	"time"
)

// Fractional click coordinates of the book flow, calibrated on 16:9.
var bossPageScroll = map[int][2]float64{
	1: {1136.0 / 2560.0, 455.0 / 2160.0},
	2: {1136.0 / 2560.0, 550.0 / 2160.0},
	3: {1136.0 / 2560.0, 640.0 / 2160.0},
}

// zoomMap zooms the world map to maximum once per session, so later
// fractional coordinates land where the calibration expects.
func (t *Task) zoomMap() {
	if t.mapZoomed {
		return
	}
	LogInfo("zooming map to max")
	t.mapZoomed = true
	t.sendKey("m", time.Second)
	for i := 0; i < 11; i++ {
		t.clickRelative(0.95, 0.29, 100*time.Millisecond)
	}
	t.back(time.Second)
}

// waitBook waits for the book's boss-listing anchor with a settle time, as
// the page fades in over several frames.
func (t *Task) waitBook(feature string) *Box {
	b, _ := t.waitBox(feature, func() *Box {
		return t.findOne(feature, nil, 0.3)
	}, waitOpts{timeout: 3 * time.Second, settle: 2 * time.Second})
	return b
}

// openBook opens the in-game book via the alt+click hotkey sequence and
// returns the boss-listing anchor. A missing anchor is fatal: it means the
// hotkey binding does not match the configuration.
func (t *Task) openBook(feature string) (*Box, error) {
	LogInfo("opening the book")
	t.sendKeyDown("alt")
	t.sleep(50 * time.Millisecond)
	t.clickRelative(0.77, 0.05, 0)
	t.sendKeyUp("alt")
	anchor := t.waitBook(feature)
	if anchor == nil {
		LogError("book anchor %s not found, check the book hotkey binding", feature)
		return nil, &ConfigError{Msg: fmt.Sprintf("cannot find %s, make sure the book hotkey is bound", feature)}
	}
	return anchor, nil
}

// clickTravelButton performs one attempt at the travel confirmation: the
// button differs between plain waypoints and custom/dungeon entries.
func (t *Task) clickTravelButton(useCustom bool) bool {
	if feature := t.findAny([]string{"fast_travel_custom", "remove_custom", "gray_teleport"}, nil, 0.6); feature != nil {
		if feature.Name == "gray_teleport" {
			if useCustom {
				t.clickRelative(0.5, 0.5, time.Second)
				t.clickRelative(0.68, 0.6, time.Second)
			}
			t.clickRelative(0.74, 0.92, time.Second)
			return true
		}
		t.clickRelative(0.74, 0.92, time.Second)
		confirm, _ := t.waitBox("travel confirm", func() *Box {
			return t.findAny([]string{"confirm_btn_hcenter_vcenter", "confirm_btn_highlight_hcenter_vcenter"}, nil, 0.7)
		}, waitOpts{timeout: 4 * time.Second})
		if confirm != nil {
			t.clickBox(*confirm, 0)
			// A second confirm shows on some waypoints; best effort.
			if again, _ := t.waitBox("travel confirm 2", func() *Box {
				return t.findAny([]string{"confirm_btn_hcenter_vcenter", "confirm_btn_highlight_hcenter_vcenter"}, nil, 0.7)
			}, waitOpts{timeout: time.Second}); again != nil {
				t.clickBox(*again, 0)
			}
			return true
		}
		return false
	}
	if btn := t.findOne("gray_teleport", nil, 0.7); btn != nil {
		t.clickBox(*btn, 0)
		return true
	}
	return false
}

// waitClickTravel drives clickTravelButton under the wait engine with a
// settle so an animating page is not half-clicked.
func (t *Task) waitClickTravel(useCustom bool) error {
	_, err := t.waitBool("travel button", func() bool {
		return t.clickTravelButton(useCustom)
	}, waitOpts{timeout: 10 * time.Second, raise: true, settle: time.Second})
	return err
}

// teleportToBoss runs the full travel sequence to the named boss entry.
// dead selects the respawn travel sub-flow used after a wipe.
func (t *Task) teleportToBoss(name string, useCustom, dead bool) error {
	pos, ok := t.cfg.Bosses[name]
	if !ok {
		return &ConfigError{Msg: fmt.Sprintf("unknown boss %q", name)}
	}
	t.zoomMap()
	LogInfo("teleport to %s page %d index %d dungeon %v", name, pos.Page, pos.Index, pos.Dungeon)
	t.Sleep(time.Second)

	anchor, err := t.openBook("gray_book_all_monsters")
	if err != nil {
		return err
	}
	t.clickBox(*anchor, 0)
	t.Sleep(2 * time.Second)

	if scroll, ok := bossPageScroll[pos.Page]; ok {
		LogInfo("scrolling to page %d", pos.Page)
		t.clickRelative(scroll[0], scroll[1], time.Second)
	}

	// Seven rows per page, evenly spaced down the listing column.
	const rowX, rowTop, rowBottom = 0.24, 0.17, 0.75
	step := (rowBottom - rowTop) / 6
	t.clickRelative(rowX, rowTop+step*float64(pos.Index), time.Second)
	t.clickRelative(0.89, 0.91, time.Second)

	if dead {
		t.clickRelative(0.92, 0.91, time.Second)
		t.clickRelative(0.68, 0.6, 0)
	} else {
		if err := t.waitClickTravel(useCustom); err != nil {
			return err
		}
	}

	// Travel includes a loading transition, hence the long bound.
	if _, err := t.waitInTeamAndWorld(120*time.Second, true, false); err != nil {
		return err
	}
	t.Sleep(time.Second)
	return nil
}
