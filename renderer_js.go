package main

import (
	"image"
	"syscall/js"

	"github.com/seqsense/pcgol/mat"
	webgl "github.com/seqsense/webgl-go"

	"github.com/seqsense/pcscatter/capture"
	"github.com/seqsense/pcscatter/scene"
)

const (
	aVertexPosition = 0

	ringSegments   = 48
	labelSizePx    = 24
	starSizePx     = 1.5
	starBrightness = 0.8
	gridBrightness = 0.35
)

var gridColor = mat.Vec3{0.5, 0.5, 0.55}

type markerProgram struct {
	program webgl.Program

	modelView, projection           webgl.Location
	pointSize, viewportHeight       webgl.Location
	fixedSize                       webgl.Location
	lightPosition, lightColor       webgl.Location
	lightDistance                   webgl.Location
	marker, color, ambient, diffuse webgl.Location
}

type plainProgram struct {
	program webgl.Program

	modelView, projection webgl.Location
	pointSize             webgl.Location
	color, intensity      webgl.Location
}

// renderer draws scene.FrameState with WebGL2.
type renderer struct {
	gl *webgl.WebGL

	marker markerProgram
	plain  plainProgram

	version  int
	buffers  map[string]webgl.Buffer
	textures map[*image.NRGBA]webgl.Texture

	starBuf, gridBuf, axisBuf, labelBuf, ringBuf webgl.Buffer
	nStars, nGrid                                int
}

func newRenderer(gl *webgl.WebGL) (*renderer, error) {
	mp, err := buildProgram(gl, vsMarkerSource, fsMarkerSource)
	if err != nil {
		return nil, err
	}
	pp, err := buildProgram(gl, vsPlainSource, fsPlainSource)
	if err != nil {
		return nil, err
	}
	r := &renderer{
		gl: gl,
		marker: markerProgram{
			program:        mp,
			modelView:      gl.GetUniformLocation(mp, "uModelViewMatrix"),
			projection:     gl.GetUniformLocation(mp, "uProjectionMatrix"),
			pointSize:      gl.GetUniformLocation(mp, "uPointSize"),
			viewportHeight: gl.GetUniformLocation(mp, "uViewportHeight"),
			fixedSize:      gl.GetUniformLocation(mp, "uFixedSize"),
			lightPosition:  gl.GetUniformLocation(mp, "uLightPosition"),
			lightColor:     gl.GetUniformLocation(mp, "uLightColor"),
			lightDistance:  gl.GetUniformLocation(mp, "uLightDistance"),
			marker:         gl.GetUniformLocation(mp, "uMarker"),
			color:          gl.GetUniformLocation(mp, "uColor"),
			ambient:        gl.GetUniformLocation(mp, "uAmbient"),
			diffuse:        gl.GetUniformLocation(mp, "uDiffuse"),
		},
		plain: plainProgram{
			program:    pp,
			modelView:  gl.GetUniformLocation(pp, "uModelViewMatrix"),
			projection: gl.GetUniformLocation(pp, "uProjectionMatrix"),
			pointSize:  gl.GetUniformLocation(pp, "uPointSize"),
			color:      gl.GetUniformLocation(pp, "uColor"),
			intensity:  gl.GetUniformLocation(pp, "uIntensity"),
		},
		version:  -1,
		buffers:  make(map[string]webgl.Buffer),
		textures: make(map[*image.NRGBA]webgl.Texture),
		starBuf:  gl.CreateBuffer(),
		gridBuf:  gl.CreateBuffer(),
		axisBuf:  gl.CreateBuffer(),
		labelBuf: gl.CreateBuffer(),
		ringBuf:  gl.CreateBuffer(),
	}

	gl.ClearDepth(1.0)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.EnableVertexAttribArray(aVertexPosition)
	return r, nil
}

func (r *renderer) upload(buf webgl.Buffer, data []float32) {
	r.gl.BindBuffer(r.gl.ARRAY_BUFFER, buf)
	r.gl.BufferData(r.gl.ARRAY_BUFFER, webgl.Float32ArrayBuffer(data), r.gl.STATIC_DRAW)
}

func (r *renderer) bind(buf webgl.Buffer) {
	r.gl.BindBuffer(r.gl.ARRAY_BUFFER, buf)
	r.gl.VertexAttribPointer(aVertexPosition, 3, r.gl.FLOAT, false, 3*4, 0)
}

// batchBuffer returns the coordinate buffer of the category,
// uploading it on first use after the point data changed.
func (r *renderer) batchBuffer(b scene.Batch) webgl.Buffer {
	if buf, ok := r.buffers[b.Label]; ok {
		return buf
	}
	buf := r.gl.CreateBuffer()
	r.upload(buf, b.Group.Coords())
	r.buffers[b.Label] = buf
	return buf
}

func (r *renderer) texture(img *image.NRGBA) webgl.Texture {
	if tex, ok := r.textures[img]; ok {
		return tex
	}
	gl := r.gl
	tex := gl.CreateTexture()
	gl.BindTexture(gl.TEXTURE_2D, tex)

	b := img.Bounds()
	array := js.Global().Get("Uint8Array").New(len(img.Pix))
	js.CopyBytesToJS(array, img.Pix)
	gl.JS().Call("texImage2D",
		int(gl.TEXTURE_2D), 0, int(gl.RGBA), b.Dx(), b.Dy(), 0,
		int(gl.RGBA), int(gl.UNSIGNED_BYTE), array,
	)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	r.textures[img] = tex
	return tex
}

func (r *renderer) resetBuffers(version int) {
	for l, buf := range r.buffers {
		r.gl.JS().Call("deleteBuffer", js.Value(buf))
		delete(r.buffers, l)
	}
	r.version = version
}

func (r *renderer) setStatic(fs *scene.FrameState) {
	if n := len(fs.Stars) / 3; n != r.nStars {
		r.upload(r.starBuf, fs.Stars)
		r.nStars = n
	}
	if fs.Grid != nil && r.nGrid == 0 {
		r.upload(r.gridBuf, fs.Grid)
		r.nGrid = len(fs.Grid) / 3
	}
}

// Draw renders a frame.
func (r *renderer) Draw(fs scene.FrameState) {
	gl := r.gl
	if fs.DataVersion != r.version {
		r.resetBuffers(fs.DataVersion)
	}
	r.setStatic(&fs)

	w, h := fs.Camera.Width, fs.Camera.Height
	gl.Viewport(0, 0, w, h)
	gl.ClearColor(fs.Background[0], fs.Background[1], fs.Background[2], 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view, proj := fs.Camera.View, fs.Camera.Projection

	gl.UseProgram(r.plain.program)
	gl.UniformMatrix4fv(r.plain.modelView, false, view)
	gl.UniformMatrix4fv(r.plain.projection, false, proj)
	gl.Uniform1f(r.plain.pointSize, starSizePx)

	if r.nStars > 0 {
		gl.Disable(gl.DEPTH_TEST)
		r.bind(r.starBuf)
		gl.Uniform3fv(r.plain.color, mat.Vec3{1, 1, 1})
		gl.Uniform1f(r.plain.intensity, starBrightness)
		gl.DrawArrays(gl.POINTS, 0, r.nStars)
		gl.Enable(gl.DEPTH_TEST)
	}
	if fs.Grid != nil {
		r.bind(r.gridBuf)
		gl.Uniform3fv(r.plain.color, gridColor)
		gl.Uniform1f(r.plain.intensity, gridBrightness/gridColor[0])
		gl.DrawArrays(gl.LINES, 0, r.nGrid)
	}
	if len(fs.Axes) > 0 {
		buf := make([]float32, 0, len(fs.Axes)*6)
		for _, a := range fs.Axes {
			buf = append(buf, a.From[0], a.From[1], a.From[2], a.To[0], a.To[1], a.To[2])
		}
		r.upload(r.axisBuf, buf)
		r.bind(r.axisBuf)
		gl.Uniform1f(r.plain.intensity, 1)
		for i, a := range fs.Axes {
			gl.Uniform3fv(r.plain.color, mat.Vec3(a.Color))
			gl.DrawArrays(gl.LINES, i*2, 2)
		}
	}
	if fs.HighlightVisible {
		ind := fs.Highlight
		ring := ind.Mesh(ringSegments)
		r.upload(r.ringBuf, ring)
		r.bind(r.ringBuf)
		gl.Uniform3fv(r.plain.color, mat.Vec3(ind.Color))
		gl.Uniform1f(r.plain.intensity, ind.Light.Intensity)
		gl.DrawArrays(gl.TRIANGLE_STRIP, 0, len(ring)/3)
	}

	r.drawMarkers(&fs)
}

func (r *renderer) drawMarkers(fs *scene.FrameState) {
	gl := r.gl
	p := &r.marker

	gl.UseProgram(p.program)
	gl.UniformMatrix4fv(p.modelView, false, fs.Camera.View)
	gl.UniformMatrix4fv(p.projection, false, fs.Camera.Projection)
	gl.Uniform1f(p.viewportHeight, float32(fs.Camera.Height))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(p.marker, 0)

	amb := fs.Ambient
	gl.Uniform3fv(p.ambient, mat.Vec3(amb.Color).Mul(amb.Intensity))
	dir := fs.Directional
	// Sprites always face the camera.
	facing := fs.Camera.ViewDir().Mul(-1)
	lambert := facing.Dot(dir.Direction.Mul(-1))
	if lambert < 0 {
		lambert = 0
	}
	gl.Uniform3fv(p.diffuse, mat.Vec3(dir.Color).Mul(dir.Intensity*lambert))

	if fs.HighlightVisible {
		l := fs.Highlight.Light
		gl.Uniform3fv(p.lightPosition, l.Position)
		gl.Uniform3fv(p.lightColor, mat.Vec3(l.Color).Mul(l.Intensity))
		gl.Uniform1f(p.lightDistance, l.Distance)
	} else {
		gl.Uniform1f(p.lightDistance, 0)
	}

	gl.Uniform1i(p.fixedSize, 0)
	gl.Uniform1f(p.pointSize, fs.PointSize)
	for _, b := range fs.Batches {
		if b.Group.Len() == 0 {
			continue
		}
		r.bind(r.batchBuffer(b))
		gl.BindTexture(gl.TEXTURE_2D, r.texture(b.Texture))
		gl.Uniform3fv(p.color, mat.Vec3(b.Color))
		gl.DrawArrays(gl.POINTS, 0, b.Group.Len())
	}

	if len(fs.Axes) == 0 {
		return
	}
	gl.Uniform1i(p.fixedSize, 1)
	gl.Uniform1f(p.pointSize, labelSizePx)
	gl.Uniform3fv(p.ambient, mat.Vec3{1, 1, 1})
	gl.Uniform3fv(p.diffuse, mat.Vec3{})
	gl.Uniform1f(p.lightDistance, 0)
	buf := make([]float32, 0, len(fs.Axes)*3)
	for _, a := range fs.Axes {
		pos := a.To.Sub(a.From).Mul(1.08).Add(a.From)
		buf = append(buf, pos[0], pos[1], pos[2])
	}
	r.upload(r.labelBuf, buf)
	r.bind(r.labelBuf)
	for i, a := range fs.Axes {
		gl.BindTexture(gl.TEXTURE_2D, r.texture(a.Texture))
		gl.Uniform3fv(p.color, mat.Vec3(a.Color))
		gl.DrawArrays(gl.POINTS, i, 1)
	}
}

// ReadFrame implements capture.FrameReader.
func (r *renderer) ReadFrame() (*image.NRGBA, error) {
	gl := r.gl
	w, h := gl.Canvas.Width(), gl.Canvas.Height()
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil
	}
	array := js.Global().Get("Uint8Array").New(w * h * 4)
	gl.JS().Call("readPixels", 0, 0, w, h, int(gl.RGBA), int(gl.UNSIGNED_BYTE), array)
	if err := gl.GetError(); err != nil {
		return nil, err
	}
	raw := make([]byte, w*h*4)
	js.CopyBytesToGo(raw, array)

	// GL rows start at the bottom.
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	stride := w * 4
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], raw[(h-1-y)*stride:(h-y)*stride])
	}
	return img, nil
}

// Retained implements capture.FrameReader.
func (r *renderer) Retained() bool {
	attr := r.gl.JS().Call("getContextAttributes")
	if attr.IsNull() || attr.IsUndefined() {
		return false
	}
	return attr.Get("preserveDrawingBuffer").Bool()
}

var _ capture.FrameReader = (*renderer)(nil)
