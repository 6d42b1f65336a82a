package assistant

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/nirazp1/asha/internal/chat"
	"github.com/nirazp1/asha/internal/style"
)

// apologyReply replaces any uncaught generation error. No retry is attempted.
const apologyReply = "I'm sorry, I encountered an error. Can we try that again?"

// LLM generates a single completion for a prompt.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Calendar books an appointment and returns the endpoint's confirmation text.
type Calendar interface {
	Book(ctx context.Context, dateTime, timeZone string) (string, error)
}

// Mail returns the raw reply text for a category query.
type Mail interface {
	Query(ctx context.Context, query string) (string, error)
}

// Speaker starts asynchronous speech for a styled reply.
type Speaker interface {
	Speak(text, emotion, voiceStyle string)
}

// Responder routes a finalized query to the appointment, email or general
// chat handler and appends the exchange to the active conversation. The
// emotional tone and voice style it carries are ambient state that persists
// across turns.
type Responder struct {
	llm        LLM
	calendar   Calendar
	mail       Mail
	speaker    Speaker
	store      *chat.Store
	classifier style.Classifier
	styler     *style.Styler
	summaries  *cache.Cache
	now        func() time.Time
	loc        *time.Location

	mu         sync.Mutex
	emotion    string
	voiceStyle string
}

// NewResponder wires the handlers. speaker may be nil for silent operation.
func NewResponder(llm LLM, cal Calendar, mail Mail, speaker Speaker, store *chat.Store, styler *style.Styler) *Responder {
	return &Responder{
		llm:        llm,
		calendar:   cal,
		mail:       mail,
		speaker:    speaker,
		store:      store,
		classifier: style.KeywordClassifier{},
		styler:     styler,
		summaries:  cache.New(10*time.Minute, 30*time.Minute),
		now:        time.Now,
		loc:        time.Local,
		emotion:    style.DefaultEmotion,
		voiceStyle: "default",
	}
}

// WithLocation sets the time zone used for appointment parsing.
func (r *Responder) WithLocation(loc *time.Location) *Responder {
	if loc != nil {
		r.loc = loc
	}
	return r
}

// StyleContext returns the ambient emotional tone and voice style.
func (r *Responder) StyleContext() (emotion, voiceStyle string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emotion, r.voiceStyle
}

func (r *Responder) setEmotion(emotion string) {
	r.mu.Lock()
	r.emotion = emotion
	r.voiceStyle = style.VoiceStyleFor(emotion)
	r.mu.Unlock()
}

// Respond handles one finalized query end to end: dispatch, compose, append
// the user/ai turn pair, and trigger speech. Errors collapse to a fixed
// apology so a failed backend never kills the pipeline.
func (r *Responder) Respond(ctx context.Context, query string) string {
	reply, err := r.dispatch(ctx, query)
	if err != nil {
		log.Printf("assistant: %v", err)
		reply = apologyReply
	}
	r.store.AppendExchange(query, reply)
	r.speak(reply)
	return reply
}

// dispatch picks the handler, first match wins: booking keywords, then
// email keywords, then general chat.
func (r *Responder) dispatch(ctx context.Context, query string) (string, error) {
	switch {
	case isAppointmentQuery(query):
		return r.respondAppointment(ctx, query)
	case isEmailQuery(query):
		return r.respondEmail(ctx, query)
	default:
		return r.respondGeneral(ctx, query)
	}
}

// isAppointmentQuery matches explicit booking verbs, or "make" when the
// query also mentions an appointment.
func isAppointmentQuery(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(q, "book") || strings.Contains(q, "schedule") {
		return true
	}
	return strings.Contains(q, "make") && strings.Contains(q, "appointment")
}

func isEmailQuery(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(q, "email") || strings.Contains(q, "mail") || strings.Contains(q, "inbox")
}

func (r *Responder) speak(reply string) {
	if r.speaker == nil {
		return
	}
	emotion, voiceStyle := r.StyleContext()
	r.speaker.Speak(reply, emotion, voiceStyle)
}
