package main

import (
	"time"
)

const (
	wheelWarmup     = 4
	wheelStepRepeat = 4
	wheelInitRate   = 10
	wheelMaxDt      = 100 * time.Millisecond
	wheelScale      = 250
)

type wheelKind int

const (
	wheelUnknown wheelKind = iota
	// wheelStep devices report a fixed delta per notch.
	wheelStep
	// wheelSmooth devices (touchpads, free-spinning wheels) report varying deltas.
	wheelSmooth
)

// wheelNormalizer converts wheel deltas of any device into zoom steps of
// roughly unit size.
type wheelNormalizer struct {
	events int

	kind    wheelKind
	lastAbs float64
	repeats int

	rate    float64
	pending float64
	last    time.Time
}

// Ready reports whether enough events are seen to classify the device.
func (n *wheelNormalizer) Ready() bool {
	return n.events > wheelWarmup
}

// Normalize returns the zoom step for the wheel delta d received at now.
func (n *wheelNormalizer) Normalize(d float64, now time.Time) float64 {
	if n.events <= wheelWarmup {
		n.events++
	}
	abs := d
	if abs < 0 {
		abs = -d
	}
	if abs == 0 {
		return 0
	}

	if n.classify(abs) {
		n.rate = wheelInitRate
	}
	n.track(d, now)

	if n.kind == wheelStep {
		if d < 0 {
			return -1
		}
		return 1
	}
	return d * wheelScale / n.rate
}

// classify updates the device kind and returns true if it changed.
func (n *wheelNormalizer) classify(abs float64) bool {
	if abs == n.lastAbs {
		n.repeats++
	} else {
		n.repeats = 0
	}
	n.lastAbs = abs

	prev := n.kind
	if n.repeats > wheelStepRepeat {
		n.kind = wheelStep
	} else {
		n.kind = wheelSmooth
	}
	return n.kind != prev
}

// track updates the decaying peak of the delta per second.
func (n *wheelNormalizer) track(d float64, now time.Time) {
	n.pending += d
	dt := now.Sub(n.last)
	if dt <= 0 {
		n.clampRate()
		return
	}
	if dt > wheelMaxDt {
		dt = wheelMaxDt
	}
	rate := n.pending / dt.Seconds()
	if rate < 0 {
		rate = -rate
	}
	n.pending = 0
	n.last = now

	if n.rate < rate {
		// Low-pass filter to suppress spikes.
		n.rate = (n.rate + rate) / 2
	}
	n.rate *= 0.95
	n.clampRate()
}

func (n *wheelNormalizer) clampRate() {
	if n.rate < 1 {
		n.rate = 1
	}
}
