package main

// Markers are drawn as point sprites textured with the marker silhouette.
// uPointSize is in world units if uFixedSize is 0, otherwise in pixels.
const vsMarkerSource = `#version 300 es
	layout (location = 0) in vec4 aVertexPosition;
	uniform mat4 uModelViewMatrix;
	uniform mat4 uProjectionMatrix;
	uniform float uPointSize;
	uniform float uViewportHeight;
	uniform int uFixedSize;
	uniform vec3 uLightPosition;
	uniform vec3 uLightColor;
	uniform float uLightDistance;
	out vec3 vLight;

	void main(void) {
		vec4 viewPosition = uModelViewMatrix * aVertexPosition;
		gl_Position = uProjectionMatrix * viewPosition;

		vLight = vec3(0.0);
		if (uLightDistance > 0.0) {
			float d = distance(aVertexPosition.xyz, uLightPosition);
			vLight = uLightColor * max(0.0, 1.0 - d / uLightDistance);
		}

		if (uFixedSize != 0) {
			gl_PointSize = uPointSize;
			return;
		}
		gl_PointSize = clamp(
			uPointSize * uProjectionMatrix[1][1] * uViewportHeight / (2.0 * -viewPosition.z),
			1.0, 128.0);
	}
`

const fsMarkerSource = `#version 300 es
	precision mediump float;
	uniform sampler2D uMarker;
	uniform vec3 uColor;
	uniform vec3 uAmbient;
	uniform vec3 uDiffuse;
	in vec3 vLight;
	out vec4 outColor;

	void main(void) {
		if (texture(uMarker, gl_PointCoord).a < 0.5) {
			discard;
		}
		outColor = vec4(min(uColor * (uAmbient + uDiffuse + vLight), vec3(1.0)), 1.0);
	}
`

// Unlit geometry: grid, axes, highlight ring and stars.
const vsPlainSource = `#version 300 es
	layout (location = 0) in vec4 aVertexPosition;
	uniform mat4 uModelViewMatrix;
	uniform mat4 uProjectionMatrix;
	uniform float uPointSize;

	void main(void) {
		gl_Position = uProjectionMatrix * uModelViewMatrix * aVertexPosition;
		gl_PointSize = uPointSize;
	}
`

const fsPlainSource = `#version 300 es
	precision mediump float;
	uniform vec3 uColor;
	uniform float uIntensity;
	out vec4 outColor;

	void main(void) {
		outColor = vec4(min(uColor * uIntensity, vec3(1.0)), 1.0);
	}
`
