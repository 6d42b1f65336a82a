package calendar

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

// Client books appointments through the external calendar endpoint.
type Client struct {
	HTTPClient  *http.Client
	BaseURL     string
	AccessToken string
}

type bookRequest struct {
	AccessToken string `json:"accessToken"`
	DateTime    string `json:"dateTime"`
	TimeZone    string `json:"timeZone"`
}

type bookResponse struct {
	Message string `json:"message"`
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
		BaseURL:     strings.TrimRight(baseURL, "/"),
		AccessToken: accessToken,
	}
}

// Book sends an ISO 8601 date-time and time zone to the booking endpoint and
// returns its confirmation message.
func (c *Client) Book(ctx context.Context, dateTime, timeZone string) (string, error) {
	reqBody, _ := json.Marshal(bookRequest{AccessToken: c.AccessToken, DateTime: dateTime, TimeZone: timeZone})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/google/calendar", bytes.NewReader(reqBody))
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
		return "", fmt.Errorf("calendar error: status=%d body=%s", resp.StatusCode, string(b))
	}
	var br bookResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return "", err
	}
	return br.Message, nil
}
