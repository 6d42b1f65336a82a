package chat

import (
	"context"
	"sync"
	"time"
)

// Indicator colors and pulse scales mirror the web client's voice icon.
const (
	idleColor      = "#000000"
	altColor       = "#AECED2"
	listeningPulse = "#D1B8A0"
	speakingPulse  = "#FF8830"
)

// IndicatorState is a point-in-time snapshot for the API.
type IndicatorState struct {
	Color      string  `json:"color"`
	PulseColor string  `json:"pulseColor"`
	Scale      float64 `json:"scale"`
	Listening  bool    `json:"listening"`
	Speaking   bool    `json:"speaking"`
}

// Indicator drives the listening/speaking visual state: while listening or
// speaking the icon color alternates every 500ms and the pulse scale every
// 150ms; otherwise both sit at their static values.
type Indicator struct {
	mu        sync.Mutex
	color     string
	pulse     string
	scale     float64
	listening bool
	speaking  bool
}

func NewIndicator() *Indicator {
	return &Indicator{color: idleColor, pulse: altColor, scale: 1}
}

// Run cycles the indicator until ctx is done.
func (in *Indicator) Run(ctx context.Context) {
	colorTick := time.NewTicker(500 * time.Millisecond)
	pulseTick := time.NewTicker(150 * time.Millisecond)
	defer colorTick.Stop()
	defer pulseTick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-colorTick.C:
			in.mu.Lock()
			if in.listening || in.speaking {
				if in.color == idleColor {
					in.color = altColor
				} else {
					in.color = idleColor
				}
			} else {
				in.color = idleColor
			}
			in.mu.Unlock()
		case <-pulseTick.C:
			in.mu.Lock()
			if in.listening || in.speaking {
				if in.listening {
					in.pulse = listeningPulse
				} else {
					in.pulse = speakingPulse
				}
				if in.scale == 1 {
					in.scale = 1.1
				} else {
					in.scale = 1
				}
			} else {
				in.pulse = altColor
				in.scale = 1
			}
			in.mu.Unlock()
		}
	}
}

// SetListening toggles the listening flag.
func (in *Indicator) SetListening(on bool) {
	in.mu.Lock()
	in.listening = on
	if !on && !in.speaking {
		in.reset()
	}
	in.mu.Unlock()
}

// SetSpeaking toggles the speaking flag.
func (in *Indicator) SetSpeaking(on bool) {
	in.mu.Lock()
	in.speaking = on
	if !on && !in.listening {
		in.reset()
	}
	in.mu.Unlock()
}

func (in *Indicator) reset() {
	in.color = idleColor
	in.pulse = altColor
	in.scale = 1
}

// State returns a snapshot of the indicator.
func (in *Indicator) State() IndicatorState {
	in.mu.Lock()
	defer in.mu.Unlock()
	return IndicatorState{
		Color:      in.color,
		PulseColor: in.pulse,
		Scale:      in.scale,
		Listening:  in.listening,
		Speaking:   in.speaking,
	}
}
