package main

import (
	"testing"
)

func TestCursorFor(t *testing.T) {
	testCases := map[string]struct {
		mode      dragMode
		hovered   bool
		selected  bool
		capturing bool
		expected  cursor
	}{
		"Idle":             {expected: cursorAuto},
		"Hovered":          {hovered: true, expected: cursorPointer},
		"HoveredSelected":  {hovered: true, selected: true, expected: cursorAuto},
		"HoveredCapturing": {hovered: true, capturing: true, expected: cursorAuto},
		"Rotate":           {mode: dragRotate, hovered: true, expected: cursorGrab},
		"Pan":              {mode: dragPan, selected: true, expected: cursorMove},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			if c := cursorFor(tt.mode, tt.hovered, tt.selected, tt.capturing); c != tt.expected {
				t.Errorf("Expected cursor %s, got %s", tt.expected, c)
			}
		})
	}
}
