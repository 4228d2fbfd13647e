package main

type cursor string

const (
	cursorAuto    cursor = "auto"
	cursorPointer cursor = "pointer"
	cursorMove    cursor = "move"
	cursorGrab    cursor = "grabbing"
)

// cursorFor returns the cursor for the drag mode. The pointer cursor marks a
// hovered point and is not shown while a point is selected or a capture is pending.
func cursorFor(mode dragMode, hovered, selected, capturing bool) cursor {
	switch mode {
	case dragRotate:
		return cursorGrab
	case dragPan:
		return cursorMove
	}
	if hovered && !selected && !capturing {
		return cursorPointer
	}
	return cursorAuto
}
