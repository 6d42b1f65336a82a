package speech

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/nirazp1/asha/internal/style"
)

// Synthesizer converts prepared text plus tone tags into an audio payload.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, emotion, voiceStyle string) ([]byte, error)
}

// Speaker runs synthesis and playback for one utterance at a time. A watchdog
// forcibly cancels playback that has not completed in time; that is a safety
// cutoff, not an error.
type Speaker struct {
	synth    Synthesizer
	player   Player
	rnd      style.Rand
	onState  func(speaking bool)
	Watchdog time.Duration

	mu       sync.Mutex
	speaking bool
}

// NewSpeaker wires a synthesizer and player. onState observes the speaking
// flag (nil allowed); rnd feeds the speech-preparation pacing (nil allowed).
func NewSpeaker(synth Synthesizer, player Player, rnd style.Rand, onState func(bool)) *Speaker {
	if player == nil {
		player = NopPlayer{}
	}
	return &Speaker{
		synth:    synth,
		player:   player,
		rnd:      rnd,
		onState:  onState,
		Watchdog: 30 * time.Second,
	}
}

// Speak prepares the text and starts synthesis and playback in the
// background. A request arriving while another is playing is dropped.
func (s *Speaker) Speak(text, emotion, voiceStyle string) {
	s.mu.Lock()
	if s.speaking {
		s.mu.Unlock()
		log.Printf("speaker: busy, dropping utterance")
		return
	}
	s.speaking = true
	s.mu.Unlock()
	if s.onState != nil {
		s.onState(true)
	}
	go s.run(text, emotion, voiceStyle)
}

func (s *Speaker) run(text, emotion, voiceStyle string) {
	defer s.clear()

	prepared := s.prepare(text)
	if prepared == "" {
		return
	}
	deadline := time.Now().Add(s.Watchdog)

	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	audio, err := s.synth.Synthesize(ctx, prepared, emotion, voiceStyle)
	cancel()
	if err != nil {
		log.Printf("speaker: synthesis failed: %v", err)
		return
	}

	done, stop, err := s.player.Play(audio)
	if err != nil {
		log.Printf("speaker: playback failed: %v", err)
		return
	}
	select {
	case <-done:
	case <-time.After(time.Until(deadline)):
		stop()
		log.Printf("speaker: speech cancelled after watchdog timeout")
	}
}

func (s *Speaker) prepare(text string) string {
	rnd := s.rnd
	if rnd == nil {
		rnd = noPauses{}
	}
	return style.PrepareForSpeech(text, rnd)
}

func (s *Speaker) clear() {
	s.mu.Lock()
	s.speaking = false
	s.mu.Unlock()
	if s.onState != nil {
		s.onState(false)
	}
}

// IsSpeaking reports whether an utterance is being synthesized or played.
func (s *Speaker) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// noPauses disables the random pacing ellipses.
type noPauses struct{}

func (noPauses) Float64() float64 { return 1 }
func (noPauses) Intn(n int) int   { return 0 }
