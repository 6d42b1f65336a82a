package mail

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

// Client queries the external mail endpoint. The reply message embeds a
// bracket-delimited list of items; parsing that is the caller's concern.
type Client struct {
	HTTPClient  *http.Client
	BaseURL     string
	AccessToken string
}

type queryRequest struct {
	AccessToken string `json:"accessToken"`
	Query       string `json:"query"`
}

type queryResponse struct {
	Message string `json:"message"`
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
		BaseURL:     strings.TrimRight(baseURL, "/"),
		AccessToken: accessToken,
	}
}

// Query asks the mail endpoint for messages matching the category query
// (unread, important, sent, draft, recent) and returns the raw reply text.
func (c *Client) Query(ctx context.Context, query string) (string, error) {
	reqBody, _ := json.Marshal(queryRequest{AccessToken: c.AccessToken, Query: query})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/google/gmail", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("mail error: status=%d body=%s", resp.StatusCode, string(b))
	}
	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return "", err
	}
	return qr.Message, nil
}
