package bridgemessenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"remindbot/internal/core/domain/reminder"
	"time"
)

type bridgeMessage struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// BridgeMessenger posts messages to the WhatsApp bridge send endpoint.
type BridgeMessenger struct {
	httpClient http.Client
	baseURL    url.URL
}

func New(baseURL url.URL, timeout time.Duration) *BridgeMessenger {
	return &BridgeMessenger{
		baseURL:    baseURL,
		httpClient: http.Client{Timeout: timeout},
	}
}

func (m *BridgeMessenger) Deliver(ctx context.Context, userID reminder.UserID, text string) error {
	url := m.baseURL.JoinPath("send")
	var body bytes.Buffer
	encoder := json.NewEncoder(&body)
	err := encoder.Encode(bridgeMessage{UserID: string(userID), Message: text})
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url.String(), &body)
	if err != nil {
		return err
	}
	request.Header.Add("content-type", "application/json")
	resp, err := m.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return fmt.Errorf("got unsuccessful response from bridge (%d): %s", resp.StatusCode, string(body))
	}
	return nil
}
