package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nirazp1/asha/internal/chat"
	"github.com/nirazp1/asha/internal/style"
)

type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int32
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeCalendar struct {
	message     string
	err         error
	calls       int
	gotDateTime string
	gotTimeZone string
}

func (f *fakeCalendar) Book(ctx context.Context, dateTime, timeZone string) (string, error) {
	f.calls++
	f.gotDateTime = dateTime
	f.gotTimeZone = timeZone
	return f.message, f.err
}

type fakeMail struct {
	reply    string
	err      error
	gotQuery string
}

func (f *fakeMail) Query(ctx context.Context, query string) (string, error) {
	f.gotQuery = query
	return f.reply, f.err
}

type fakeSpeaker struct {
	texts     []string
	emotions  []string
	voiceTags []string
}

func (f *fakeSpeaker) Speak(text, emotion, voiceStyle string) {
	f.texts = append(f.texts, text)
	f.emotions = append(f.emotions, emotion)
	f.voiceTags = append(f.voiceTags, voiceStyle)
}

// highRoll keeps decoration deterministic: first-sentence cue only, no
// endearment or supportive prefixes.
type highRoll struct{}

func (highRoll) Float64() float64 { return 0.99 }
func (highRoll) Intn(n int) int   { return 0 }

func newTestResponder(llm *fakeLLM, cal *fakeCalendar, m *fakeMail) *Responder {
	r := NewResponder(llm, cal, m, nil, chat.NewStore(), style.NewStyler(highRoll{}))
	r.now = fixedNow
	r.loc = time.UTC
	return r
}

func TestRespond_RoutesBookingKeywords(t *testing.T) {
	cases := []struct {
		query       string
		appointment bool
	}{
		{"book an appointment tomorrow at 5 pm", true},
		{"schedule a checkup tomorrow at 5 pm", true},
		{"can you make an appointment for 5 pm", true},
		{"make me a playlist", false},
		{"what's the weather like", false},
	}
	for _, tc := range cases {
		if got := isAppointmentQuery(tc.query); got != tc.appointment {
			t.Fatalf("isAppointmentQuery(%q) = %v, want %v", tc.query, got, tc.appointment)
		}
	}
}

func TestRespond_RoutesEmailKeywords(t *testing.T) {
	for _, q := range []string{"check my email", "any new mail", "what's in my inbox"} {
		if !isEmailQuery(q) {
			t.Fatalf("expected email route for %q", q)
		}
	}
	if isEmailQuery("what's the weather like") {
		t.Fatalf("unexpected email route")
	}
}

func TestRespond_GeneralChatAppendsExchange(t *testing.T) {
	llm := &fakeLLM{reply: "[thinking] I am happy to help.\n• item"}
	r := newTestResponder(llm, &fakeCalendar{}, &fakeMail{})

	out := r.Respond(context.Background(), "hello there")
	if strings.Contains(out, "•") || strings.Contains(out, "[thinking]") {
		t.Fatalf("expected cleaned reply, got %q", out)
	}

	turns := r.store.Active().Turns
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != chat.RoleUser || turns[0].Content != "hello there" {
		t.Fatalf("unexpected user turn %+v", turns[0])
	}
	if turns[1].Role != chat.RoleAI || turns[1].Content != out {
		t.Fatalf("unexpected ai turn %+v", turns[1])
	}
}

func TestRespond_PromptCarriesPersonaAndHistory(t *testing.T) {
	llm := &fakeLLM{reply: "sure"}
	r := newTestResponder(llm, &fakeCalendar{}, &fakeMail{})
	for i := 0; i < 4; i++ {
		r.store.AppendExchange("old question", "old answer")
	}

	r.Respond(context.Background(), "newest question")
	if len(llm.prompts) != 1 {
		t.Fatalf("expected one model call, got %d", len(llm.prompts))
	}
	prompt := llm.prompts[0]
	if !strings.Contains(prompt, "You are Asha") {
		t.Fatalf("missing persona preamble in %q", prompt)
	}
	// window is five turns: 2 user + 3 ai or vice versa from 8 total
	if got := strings.Count(prompt, "old"); got != 5 {
		t.Fatalf("expected 5 history turns, got %d in %q", got, prompt)
	}
	if !strings.HasSuffix(prompt, "Human: newest question\nAsha:") {
		t.Fatalf("prompt must end with the new query, got %q", prompt)
	}
}

func TestRespond_UpdatesStyleContext(t *testing.T) {
	llm := &fakeLLM{reply: "take a breath"}
	r := newTestResponder(llm, &fakeCalendar{}, &fakeMail{})

	r.Respond(context.Background(), "I'm so anxious about this")
	emotion, voiceStyle := r.StyleContext()
	if emotion != "anxious" || voiceStyle != "concerned" {
		t.Fatalf("unexpected style context %q/%q", emotion, voiceStyle)
	}

	r.Respond(context.Background(), "thanks, that was pleasant")
	emotion, voiceStyle = r.StyleContext()
	if emotion != "warm" || voiceStyle != "default" {
		t.Fatalf("style context should persist and update, got %q/%q", emotion, voiceStyle)
	}
}

func TestRespond_ApologyOnError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("model offline")}
	r := newTestResponder(llm, &fakeCalendar{}, &fakeMail{})

	out := r.Respond(context.Background(), "hello")
	if out != apologyReply {
		t.Fatalf("expected apology, got %q", out)
	}
	if llm.calls != 1 {
		t.Fatalf("expected no retry, got %d calls", llm.calls)
	}
	turns := r.store.Active().Turns
	if len(turns) != 2 || turns[1].Content != apologyReply {
		t.Fatalf("apology must still be recorded, got %+v", turns)
	}
}

func TestRespond_TriggersSpeechWithStyleContext(t *testing.T) {
	llm := &fakeLLM{reply: "take a breath"}
	sp := &fakeSpeaker{}
	r := NewResponder(llm, &fakeCalendar{}, &fakeMail{}, sp, chat.NewStore(), style.NewStyler(highRoll{}))
	r.now = fixedNow
	r.loc = time.UTC

	out := r.Respond(context.Background(), "I'm so anxious about this")
	if len(sp.texts) != 1 || sp.texts[0] != out {
		t.Fatalf("expected the reply to be spoken, got %+v", sp.texts)
	}
	if sp.emotions[0] != "anxious" || sp.voiceTags[0] != "concerned" {
		t.Fatalf("unexpected speech tags %q/%q", sp.emotions[0], sp.voiceTags[0])
	}
}
