package main

func (a *app) SetCursor(c cursor) {
	if a.cursor == c {
		return
	}
	a.cursor = c
	a.canvas.Get("style").Set("cursor", string(c))
}

func (a *app) updateCursor() {
	_, hovered := a.scene.Hover()
	_, selected := a.scene.Selection()
	a.SetCursor(cursorFor(a.view.mode, hovered, selected, a.scene.CapturePending()))
}
