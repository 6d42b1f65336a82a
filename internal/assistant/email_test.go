package assistant

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
)

func TestClassifyEmailQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"do I have any unread emails", "unread"},
		{"any new mail for me", "unread"},
		{"show my important emails", "important"},
		{"what did I send, check sent mail", "sent"},
		{"open my email drafts", "draft"},
		{"check my inbox", "recent"},
	}
	for _, tc := range cases {
		if got := classifyEmailQuery(tc.in); got != tc.want {
			t.Fatalf("classifyEmailQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractEmailItems(t *testing.T) {
	reply := `Here are your emails: [{"subject":"Lab results","from":"Clinic <lab@clinic.org>","snippet":"Your results are in"}] anything else?`
	items := extractEmailItems(reply)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Subject != "Lab results" {
		t.Fatalf("unexpected item %+v", items[0])
	}
}

func TestExtractEmailItems_MalformedFallsBackToEmpty(t *testing.T) {
	if items := extractEmailItems("sorry [not json here]"); items != nil {
		t.Fatalf("expected nil for malformed payload, got %+v", items)
	}
	if items := extractEmailItems("no brackets at all"); items != nil {
		t.Fatalf("expected nil without brackets, got %+v", items)
	}
}

func TestSenderOf(t *testing.T) {
	if got := senderOf(emailItem{From: "Clinic <lab@clinic.org>"}); got != "lab@clinic.org" {
		t.Fatalf("expected bracketed address, got %q", got)
	}
	if got := senderOf(emailItem{From: "lab@clinic.org"}); got != "lab@clinic.org" {
		t.Fatalf("expected raw sender, got %q", got)
	}
}

func TestRespondEmail_SummarizesAtMostThree(t *testing.T) {
	llm := &fakeLLM{reply: "A short summary."}
	m := &fakeMail{reply: `ok [
		{"subject":"one","from":"a <a@x.com>","snippet":"s1"},
		{"subject":"two","from":"b <b@x.com>","snippet":"s2"},
		{"subject":"three","from":"c <c@x.com>","snippet":"s3"},
		{"subject":"four","from":"d <d@x.com>","snippet":"s4"}
	]`}
	r := newTestResponder(llm, &fakeCalendar{}, m)

	out, err := r.respondEmail(context.Background(), "read my unread emails")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.gotQuery != "unread" {
		t.Fatalf("expected unread category, got %q", m.gotQuery)
	}
	if got := atomic.LoadInt32(&llm.calls); got != 3 {
		t.Fatalf("expected 3 summarization calls, got %d", got)
	}
	for _, want := range []string{"Email 1 was sent by a@x.com", "Email 2 was sent by b@x.com", "Email 3 was sent by c@x.com"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "Email 4") {
		t.Fatalf("expected at most three items, got %q", out)
	}
}

func TestRespondEmail_ApologyWhenEmpty(t *testing.T) {
	llm := &fakeLLM{}
	m := &fakeMail{reply: "nothing found []"}
	r := newTestResponder(llm, &fakeCalendar{}, m)

	out, err := r.respondEmail(context.Background(), "check my inbox")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "couldn't find any recent emails") {
		t.Fatalf("expected apology for empty list, got %q", out)
	}
	if llm.calls != 0 {
		t.Fatalf("no summarization expected, got %d calls", llm.calls)
	}
}

func TestRespondEmail_CachesSummaries(t *testing.T) {
	llm := &fakeLLM{reply: "A short summary."}
	m := &fakeMail{reply: `[{"subject":"one","from":"a@x.com","snippet":"s1"}]`}
	r := newTestResponder(llm, &fakeCalendar{}, m)

	if _, err := r.respondEmail(context.Background(), "unread email"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := r.respondEmail(context.Background(), "unread email"); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if got := atomic.LoadInt32(&llm.calls); got != 1 {
		t.Fatalf("expected cached summary to skip the second model call, got %d", got)
	}
}
