package main

import (
	webgl "github.com/seqsense/webgl-go"

	"github.com/seqsense/pcscatter/internal/logging"
)

func showDebugInfo(gl *webgl.WebGL) {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger().Warn("failed to get debug info", "error", r)
		}
	}()

	log := logging.Logger()
	ri, ok := gl.GetExtension("WEBGL_debug_renderer_info")
	if !ok {
		log.Info("GPU info: hidden by the browser privacy setting")
	} else {
		log.Info("GPU",
			"vendor", gl.GetParameter(ri.Get("UNMASKED_VENDOR_WEBGL").Int()).String(),
			"renderer", gl.GetParameter(ri.Get("UNMASKED_RENDERER_WEBGL").Int()).String(),
		)
	}
	log.Info("limits",
		"max_texture_size", gl.GetParameter(gl.JS().Get("MAX_TEXTURE_SIZE").Int()).Int(),
		"point_size_range", gl.GetParameter(gl.JS().Get("ALIASED_POINT_SIZE_RANGE").Int()).Index(1).Float(),
	)
}
