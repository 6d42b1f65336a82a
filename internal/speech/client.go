package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TTSClient fetches synthesized audio from the text-to-speech endpoint.
type TTSClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

type speakRequest struct {
	Text       string `json:"text"`
	Emotion    string `json:"emotion"`
	VoiceStyle string `json:"voiceStyle"`
}

func NewTTSClient(baseURL string) *TTSClient {
	return &TTSClient{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Synthesize posts the prepared text with its emotion and voice-style tags
// and returns the binary audio payload.
func (c *TTSClient) Synthesize(ctx context.Context, text, emotion, voiceStyle string) ([]byte, error) {
	reqBody, _ := json.Marshal(speakRequest{Text: text, Emotion: emotion, VoiceStyle: voiceStyle})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/text-to-speech", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts error: status=%d body=%s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}
