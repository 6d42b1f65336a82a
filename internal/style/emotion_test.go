package style

import "testing"

func TestKeywordClassifier_Classify(t *testing.T) {
	var c KeywordClassifier
	cases := []struct {
		in   string
		want string
	}{
		{"I'm so anxious about this", "anxious"},
		{"I love spending time with you", "affectionate"},
		{"the weather report for tuesday", "warm"},
		{"I am SO EXCITED today", "joyful"},
		{"feeling pretty down lately", "sad"},
		{"that joke was great", "playful"},
		{"", "warm"},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.in); got != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestKeywordClassifier_FirstMatchWins(t *testing.T) {
	var c KeywordClassifier
	// contains both an affectionate and a sad keyword; affectionate is listed first
	if got := c.Classify("I love him but I'm upset"); got != "affectionate" {
		t.Fatalf("expected affectionate, got %q", got)
	}
}

func TestVoiceStyleFor(t *testing.T) {
	if got := VoiceStyleFor("anxious"); got != "concerned" {
		t.Fatalf("expected concerned, got %q", got)
	}
	if got := VoiceStyleFor("warm"); got != "default" {
		t.Fatalf("expected default, got %q", got)
	}
	if got := VoiceStyleFor("nonsense"); got != "default" {
		t.Fatalf("expected default for unknown emotion, got %q", got)
	}
}
