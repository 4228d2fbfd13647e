package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"syscall/js"
	"time"

	webgl "github.com/seqsense/webgl-go"

	"github.com/seqsense/pcscatter/blob"
	"github.com/seqsense/pcscatter/capture"
	"github.com/seqsense/pcscatter/config"
	"github.com/seqsense/pcscatter/ingest"
	"github.com/seqsense/pcscatter/internal/logging"
	"github.com/seqsense/pcscatter/marker"
	"github.com/seqsense/pcscatter/scene"
	"github.com/seqsense/pcscatter/style"
)

const (
	canvasID   = "pcscatterCanvas"
	overlayID  = "pointInfo"
	configPath = "config.yaml"
	frameRate  = 60

	overlayOffsetPx = 12
)

type app struct {
	canvas  js.Value
	overlay js.Value
	gl      *webgl.WebGL

	renderer *renderer
	scene    *scene.Scene
	palette  style.Palette
	view     *view
	gesture  *gesture
	console  *console
	cursor   cursor

	width, height int
	overlayShown  bool
	overlayText   string

	// chCall runs closures on the render loop.
	chCall chan func()
}

func main() {
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
	log := logging.Logger()

	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", canvasID)
	if canvas.IsNull() {
		log.Error("canvas not found", "id", canvasID)
		return
	}
	// Frames must stay readable after compositing to be captured.
	canvas.Call("getContext", "webgl2", map[string]interface{}{
		"preserveDrawingBuffer": true,
		"antialias":             true,
	})
	gl, err := webgl.New(canvas)
	if err != nil {
		log.Error("initializing WebGL", "error", err)
		return
	}
	showDebugInfo(gl)

	cfg := loadConfig()
	r, err := newRenderer(gl)
	if err != nil {
		log.Error("initializing renderer", "error", err)
		return
	}

	s := scene.New(cfg)
	v := newView(s)
	a := &app{
		canvas:   canvas,
		overlay:  doc.Call("getElementById", overlayID),
		gl:       gl,
		renderer: r,
		scene:    s,
		palette:  s.Palette(),
		view:     v,
		gesture:  newGesture(v, time.Now),
		console:  &console{scene: s, now: time.Now},
		chCall:   make(chan func()),
	}
	a.exportAPI()
	if err := a.run(); err != nil {
		log.Error("render loop stopped", "error", err)
	}
}

func loadConfig() config.Config {
	log := logging.Logger()
	b, err := fetchGet(context.Background(), configPath)
	if err != nil {
		if !errors.Is(err, errNotFound) {
			log.Warn("loading config", "path", configPath, "error", err)
		}
		return config.Default()
	}
	cfg, err := config.Parse(b)
	if err != nil {
		log.Warn("parsing config", "path", configPath, "error", err)
		return config.Default()
	}
	log.Info("config loaded", "path", configPath)
	return cfg
}

// call runs fn on the render loop and waits for it.
// It must not be called from the render loop.
func (a *app) call(fn func() (interface{}, error)) (interface{}, error) {
	type result struct {
		v   interface{}
		err error
	}
	ch := make(chan result, 1)
	a.chCall <- func() {
		v, err := fn()
		ch <- result{v, err}
	}
	res := <-ch
	return res.v, res.err
}

func (a *app) exportAPI() {
	api := map[string]interface{}{
		"load": js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			if len(args) != 1 {
				return errorToJS(errArgumentNumber)
			}
			var src interface{} = args[0]
			if args[0].Type() == js.TypeString {
				src = args[0].String()
			}
			palette := a.palette
			return newPromise(func() (interface{}, error) {
				points, err := importPoints(src, palette)
				if err != nil {
					return nil, err
				}
				return a.call(func() (interface{}, error) {
					return len(points), a.scene.SetPoints(points)
				})
			})
		}),
		"loadURL": js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			if len(args) != 1 {
				return errorToJS(errArgumentNumber)
			}
			url := args[0].String()
			palette := a.palette
			return newPromise(func() (interface{}, error) {
				b, err := fetchGet(context.Background(), url)
				if err != nil {
					return nil, err
				}
				points, err := ingest.ParseAny(bytes.NewReader(b), palette)
				if err != nil {
					return nil, err
				}
				logging.Logger().Info("fetched points", "url", url, "points", len(points))
				return a.call(func() (interface{}, error) {
					return len(points), a.scene.SetPoints(points)
				})
			})
		}),
		"styles": js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			return newPromise(func() (interface{}, error) {
				return a.call(func() (interface{}, error) {
					var out []interface{}
					for _, e := range a.scene.Styles() {
						out = append(out, map[string]interface{}{
							"label":   e.Label,
							"color":   e.Color,
							"shape":   e.Shape.String(),
							"visible": e.Visible,
						})
					}
					return out, nil
				})
			})
		}),
		"setStyle": js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			if len(args) != 2 {
				return errorToJS(errArgumentNumber)
			}
			label := args[0].String()
			p, err := stylePatch(args[1])
			if err != nil {
				return errorToJS(err)
			}
			return newPromise(func() (interface{}, error) {
				return a.call(func() (interface{}, error) {
					return nil, a.scene.UpdateStyle(label, p)
				})
			})
		}),
		"setAxes": js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			if len(args) != 1 {
				return errorToJS(errArgumentNumber)
			}
			visible := args[0].Truthy()
			return newPromise(func() (interface{}, error) {
				return a.call(func() (interface{}, error) {
					a.scene.SetAxesVisible(visible)
					return nil, nil
				})
			})
		}),
		"setGrid": js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			if len(args) != 1 {
				return errorToJS(errArgumentNumber)
			}
			visible := args[0].Truthy()
			return newPromise(func() (interface{}, error) {
				return a.call(func() (interface{}, error) {
					a.scene.SetGridVisible(visible)
					return nil, nil
				})
			})
		}),
		"capture": js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			return newPromise(func() (interface{}, error) {
				f, err := a.call(func() (interface{}, error) {
					return a.scene.Capture(time.Now())
				})
				if err != nil {
					return nil, err
				}
				res, err := f.(*capture.Future).Wait(context.Background())
				if err != nil {
					logging.Logger().Warn("capture failed", "error", err)
					return nil, err
				}
				b := blob.New(res.PNG, "image/png")
				b.Download(res.Name)
				return b.JS(), nil
			})
		}),
		"exportPCD": js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			return newPromise(func() (interface{}, error) {
				b, err := a.call(func() (interface{}, error) {
					return exportPCD(a.scene)
				})
				if err != nil {
					return nil, err
				}
				return b.(blob.Blob).JS(), nil
			})
		}),
		"command": js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			if len(args) != 1 {
				return errorToJS(errArgumentNumber)
			}
			line := args[0].String()
			return newPromise(func() (interface{}, error) {
				return a.call(func() (interface{}, error) {
					return a.console.Run(line)
				})
			})
		}),
	}
	js.Global().Set("pcscatter", js.ValueOf(api))
}

func stylePatch(obj js.Value) (style.Patch, error) {
	var p style.Patch
	if obj.Type() != js.TypeObject {
		return p, errors.New("style must be an object")
	}
	if c := obj.Get("color"); c.Type() == js.TypeString {
		s := c.String()
		p.Color = &s
	}
	if sh := obj.Get("shape"); sh.Type() == js.TypeString {
		s, err := marker.ParseShape(sh.String())
		if err != nil {
			return p, err
		}
		p.Shape = &s
	}
	if v := obj.Get("visible"); v.Type() == js.TypeBoolean {
		b := v.Bool()
		p.Visible = &b
	}
	return p, nil
}

func (a *app) run() error {
	gl := a.gl

	chWheel := make(chan webgl.WheelEvent)
	gl.Canvas.OnWheel(func(e webgl.WheelEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chWheel <- e
	})
	chClick := make(chan webgl.MouseEvent)
	gl.Canvas.OnClick(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chClick <- e
	})
	chMouseDown := make(chan webgl.MouseEvent)
	gl.Canvas.OnMouseDown(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chMouseDown <- e
	})
	chMouseMove := make(chan webgl.MouseEvent)
	gl.Canvas.OnMouseMove(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chMouseMove <- e
	})
	chMouseUp := make(chan webgl.MouseEvent)
	gl.Canvas.OnMouseUp(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chMouseUp <- e
	})
	chLeave := make(chan struct{})
	gl.Canvas.OnPointerOut(func(e webgl.PointerEvent) {
		chLeave <- struct{}{}
	})
	gl.Canvas.OnContextMenu(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
	})
	chKey := make(chan webgl.KeyboardEvent)
	gl.Canvas.OnKeyDown(func(e webgl.KeyboardEvent) {
		chKey <- e
	})
	chContextLost := make(chan struct{}, 1)
	gl.Canvas.OnWebGLContextLost(func(e webgl.WebGLContextEvent) {
		e.PreventDefault()
		select {
		case chContextLost <- struct{}{}:
		default:
		}
	})
	chTouch := a.onTouch()

	tick := time.NewTicker(time.Second / frameRate)
	defer tick.Stop()

	for {
		select {
		case fn := <-a.chCall:
			fn()
		case e := <-chWheel:
			a.view.zoom(e.DeltaY, time.Now())
		case e := <-chMouseDown:
			a.view.mouseDown(float32(e.OffsetX), float32(e.OffsetY), int(e.Button))
		case e := <-chMouseMove:
			a.view.mouseMove(float32(e.OffsetX), float32(e.OffsetY))
		case <-chMouseUp:
			a.view.mouseUp(time.Now())
		case <-chLeave:
			a.view.mouseLeave(time.Now())
		case e := <-chClick:
			if e.Button == buttonLeft {
				a.view.click(float32(e.OffsetX), float32(e.OffsetY), time.Now())
			}
			gl.Canvas.Focus()
		case t := <-chTouch:
			t.apply(a.gesture)
		case e := <-chKey:
			switch e.Code {
			case "Escape":
				a.scene.ClearSelection()
			case "Home":
				a.scene.Orbit().Reset()
			}
		case <-chContextLost:
			return errContextLostEvent
		case now := <-tick.C:
			a.frame(now)
		}
	}
}

type touchEvent struct {
	typ string
	touch
}

func (t touchEvent) apply(g *gesture) {
	switch t.typ {
	case "pointerdown":
		g.pointerDown(t.touch)
	case "pointermove":
		g.pointerMove(t.touch)
	default:
		g.pointerUp(t.touch)
	}
}

// onTouch forwards touch pointer events. Mouse pointers are handled
// by the mouse event handlers.
func (a *app) onTouch() <-chan touchEvent {
	ch := make(chan touchEvent)
	a.canvas.Get("style").Set("touchAction", "none")
	for _, name := range []string{"pointerdown", "pointermove", "pointerup", "pointercancel"} {
		name := name
		a.canvas.Call("addEventListener", name,
			js.FuncOf(func(this js.Value, args []js.Value) interface{} {
				e := args[0]
				if e.Get("pointerType").String() != "touch" {
					return nil
				}
				e.Call("preventDefault")
				ch <- touchEvent{
					typ: name,
					touch: touch{
						id:      e.Get("pointerId").Int(),
						x:       float32(e.Get("offsetX").Float()),
						y:       float32(e.Get("offsetY").Float()),
						primary: e.Get("isPrimary").Bool(),
					},
				}
				return nil
			}),
		)
	}
	return ch
}

func (a *app) frame(now time.Time) {
	w, h := a.gl.Canvas.ClientWidth(), a.gl.Canvas.ClientHeight()
	if w != a.width || h != a.height {
		a.width, a.height = w, h
		a.gl.Canvas.SetWidth(w)
		a.gl.Canvas.SetHeight(h)
		a.scene.Resize(w, h)
	}

	fs := a.scene.Frame(now)
	if a.scene.Updated() {
		a.renderer.Draw(fs)
		a.scene.Rendered(a.renderer, now)
		a.updateOverlay(fs)
	}
	a.updateCursor()
}

func (a *app) updateOverlay(fs scene.FrameState) {
	if a.overlay.IsNull() {
		return
	}
	st := a.overlay.Get("style")
	if !fs.OverlayVisible {
		if a.overlayShown {
			st.Set("display", "none")
			a.overlayShown = false
		}
		return
	}
	if text := overlayText(fs.Overlay); text != a.overlayText {
		a.overlay.Set("innerText", text)
		a.overlayText = text
	}
	st.Set("left", strconv.Itoa(int(fs.Overlay.X)+overlayOffsetPx)+"px")
	st.Set("top", strconv.Itoa(int(fs.Overlay.Y)+overlayOffsetPx)+"px")
	if !a.overlayShown {
		st.Set("display", "block")
		a.overlayShown = true
	}
}
