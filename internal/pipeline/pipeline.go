package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nirazp1/asha/internal/stt"
)

// Mode is the pipeline's single active state.
type Mode string

const (
	ModeAwaitingWakeWord   Mode = "awaiting_wake_word"
	ModeCapturingQuery     Mode = "capturing_query"
	ModeGeneratingResponse Mode = "generating_response"
	ModeSpeaking           Mode = "speaking"
)

const (
	statusAwaitingWake = "Listening for wake word..."
	statusCapturing    = "Listening for your question..."
)

// Recognizer is the minimal interface to a streaming recognition session.
type Recognizer interface {
	Connect() error
	Start() error
	Stop() error
	Transcripts() <-chan string
	Errors() <-chan string
	Ends() <-chan struct{}
	Close() error
}

// Responder turns a finalized query into a reply. It never fails; backend
// errors collapse to an apology string inside.
type Responder interface {
	Respond(ctx context.Context, query string) string
}

// SpeakerState reports whether synthesized speech is still playing.
type SpeakerState interface {
	IsSpeaking() bool
}

var defaultWakePhrases = []string{"hey asha", "hey aasha", "hello"}

// Pipeline is the wake-word / capture / dispatch state machine. It owns at
// most one recognition session and serializes capture -> generate -> speak ->
// re-arm, so a new capture can never start while a response is in flight.
type Pipeline struct {
	rec         Recognizer
	responder   Responder
	speaker     SpeakerState
	onListening func(bool)

	WakePhrases   []string
	SilenceWindow time.Duration
	RearmDelay    time.Duration
	RestartDelay  time.Duration

	mu         sync.Mutex
	mode       Mode
	transcript string
	queryBuf   string
	lastQuery  string
	listening  bool
	silence    *time.Timer
}

// Snapshot is the observable pipeline state for the API.
type Snapshot struct {
	Mode       Mode   `json:"mode"`
	Transcript string `json:"transcript"`
	LastQuery  string `json:"lastQuery"`
	Listening  bool   `json:"listening"`
}

// New wires the pipeline. speaker and onListening may be nil.
func New(rec Recognizer, responder Responder, speaker SpeakerState, onListening func(bool)) *Pipeline {
	return &Pipeline{
		rec:           rec,
		responder:     responder,
		speaker:       speaker,
		onListening:   onListening,
		WakePhrases:   defaultWakePhrases,
		SilenceWindow: 3 * time.Second,
		RearmDelay:    time.Second,
		RestartDelay:  time.Second,
		mode:          ModeAwaitingWakeWord,
		transcript:    statusAwaitingWake,
	}
}

// Run connects the recognizer and processes its events until ctx is done.
// A connect failure means recognition is unavailable; the caller logs it and
// the rest of the service keeps working.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.rec.Connect(); err != nil {
		return fmt.Errorf("speech recognition unavailable: %w", err)
	}
	defer p.rec.Close()
	p.startListening()

	for {
		select {
		case <-ctx.Done():
			p.setListening(false)
			return nil
		case text, ok := <-p.rec.Transcripts():
			if !ok {
				return nil
			}
			p.handleFragment(ctx, text)
		case code, ok := <-p.rec.Errors():
			if !ok {
				return nil
			}
			p.handleError(code)
		case _, ok := <-p.rec.Ends():
			if !ok {
				return nil
			}
			p.handleEnd()
		}
	}
}

// handleFragment runs the mode transitions for one transcript fragment.
func (p *Pipeline) handleFragment(ctx context.Context, raw string) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return
	}

	p.mu.Lock()
	switch p.mode {
	case ModeAwaitingWakeWord:
		p.transcript = text
		if p.matchesWake(text) {
			log.Printf("pipeline: wake phrase detected")
			p.mode = ModeCapturingQuery
			p.queryBuf = ""
			p.transcript = statusCapturing
		}
		p.mu.Unlock()
	case ModeCapturingQuery:
		// each fragment replaces the buffer and pushes the silence window out
		p.queryBuf = text
		p.transcript = text
		p.resetSilenceLocked(ctx)
		p.mu.Unlock()
	default:
		// speech during generation or playback is not pipeline input
		p.mu.Unlock()
	}
}

func (p *Pipeline) matchesWake(text string) bool {
	for _, phrase := range p.WakePhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// resetSilenceLocked supersedes any pending silence timer with a fresh one.
func (p *Pipeline) resetSilenceLocked(ctx context.Context) {
	if p.silence != nil {
		p.silence.Stop()
	}
	p.silence = time.AfterFunc(p.SilenceWindow, func() { p.finalize(ctx) })
}

// finalize ends capture after the silence window and hands the buffered
// query to the responder. An empty buffer keeps capturing.
func (p *Pipeline) finalize(ctx context.Context) {
	p.mu.Lock()
	if p.mode != ModeCapturingQuery {
		p.mu.Unlock()
		return
	}
	query := strings.TrimSpace(p.queryBuf)
	if query == "" {
		p.mu.Unlock()
		return
	}
	p.mode = ModeGeneratingResponse
	p.lastQuery = query
	p.mu.Unlock()

	// recognition pauses while the response is generated and spoken;
	// generate re-arms it afterwards
	if err := p.rec.Stop(); err != nil {
		log.Printf("pipeline: stop recognition: %v", err)
	}
	p.setListening(false)

	log.Printf("pipeline: final user query: %s", query)
	go p.generate(ctx, query)
}

// generate runs the responder, waits out playback, then re-arms the wake
// word listener after a short delay.
func (p *Pipeline) generate(ctx context.Context, query string) {
	reply := p.responder.Respond(ctx, query)
	p.setTranscript("AI Response: " + reply)

	if p.speaker != nil && p.speaker.IsSpeaking() {
		p.setMode(ModeSpeaking)
		for p.speaker.IsSpeaking() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(50 * time.Millisecond):
			}
		}
	}

	p.mu.Lock()
	p.mode = ModeAwaitingWakeWord
	p.queryBuf = ""
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return
	case <-time.After(p.RearmDelay):
	}
	p.setTranscript(statusAwaitingWake)
	p.startListening()
}

// handleEnd restarts listening after the session ends, unless a query is
// being captured or a response is in flight.
func (p *Pipeline) handleEnd() {
	p.setListening(false)
	log.Printf("pipeline: recognition session ended")
	p.mu.Lock()
	busy := p.mode != ModeAwaitingWakeWord
	p.mu.Unlock()
	if busy {
		return
	}
	time.AfterFunc(p.RestartDelay, p.startListening)
}

// handleError logs the code and restarts after a delay unless the error was
// an intentional abort.
func (p *Pipeline) handleError(code string) {
	log.Printf("pipeline: recognition error: %s", code)
	p.setListening(false)
	if code == stt.ErrCodeAborted {
		return
	}
	p.mu.Lock()
	busy := p.mode != ModeAwaitingWakeWord
	p.mu.Unlock()
	if busy {
		return
	}
	time.AfterFunc(p.RestartDelay, p.startListening)
}

func (p *Pipeline) startListening() {
	p.mu.Lock()
	if p.listening {
		p.mu.Unlock()
		return
	}
	if err := p.rec.Start(); err != nil {
		p.mu.Unlock()
		log.Printf("pipeline: failed to start recognition: %v", err)
		return
	}
	p.listening = true
	switch p.mode {
	case ModeAwaitingWakeWord:
		p.transcript = statusAwaitingWake
	case ModeCapturingQuery:
		p.transcript = statusCapturing
	}
	p.mu.Unlock()
	if p.onListening != nil {
		p.onListening(true)
	}
}

func (p *Pipeline) setListening(on bool) {
	p.mu.Lock()
	changed := p.listening != on
	p.listening = on
	p.mu.Unlock()
	if changed && p.onListening != nil {
		p.onListening(on)
	}
}

func (p *Pipeline) setMode(m Mode) {
	p.mu.Lock()
	p.mode = m
	p.mu.Unlock()
}

func (p *Pipeline) setTranscript(text string) {
	p.mu.Lock()
	p.transcript = text
	p.mu.Unlock()
}

// Mode returns the currently active mode.
func (p *Pipeline) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Snapshot returns the observable state in one shot.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Mode:       p.mode,
		Transcript: p.transcript,
		LastQuery:  p.lastQuery,
		Listening:  p.listening,
	}
}
