package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ctrm-fit/internal/model"
	"github.com/sells-group/ctrm-fit/internal/resilience"
)

// maxAckBytes bounds how much of the endpoint's reply is read.
const maxAckBytes = 64 << 10

// WebhookSink posts records as JSON to a sheet-append endpoint such as a
// Google Apps Script web app. The endpoint maps payload keys onto its header
// row and answers {"status":"success"} or {"status":"error","message":...}.
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhook returns a WebhookSink with its own HTTP client.
func NewWebhook(url string, timeout time.Duration) *WebhookSink {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewWebhookWithClient(url, &http.Client{Timeout: timeout})
}

// NewWebhookWithClient returns a WebhookSink using client.
func NewWebhookWithClient(url string, client *http.Client) *WebhookSink {
	return &WebhookSink{url: url, client: client}
}

func (s *WebhookSink) Name() string { return KindWebhook }

type webhookAck struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *WebhookSink) Persist(ctx context.Context, r model.Record) error {
	payload, err := json.Marshal(r.Values())
	if err != nil {
		return eris.Wrap(err, "webhook: marshal record")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "webhook: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return eris.Wrapf(err, "webhook: post record %s", r.RecordID)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAckBytes))
	if err != nil {
		return eris.Wrapf(err, "webhook: read reply for record %s", r.RecordID)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resilience.HTTPStatusError("webhook", resp.StatusCode, snippet(body))
	}

	// A non-JSON 2xx body is taken as acceptance.
	var ack webhookAck
	if json.Unmarshal(body, &ack) == nil && strings.EqualFold(ack.Status, "error") {
		msg := ack.Message
		if msg == "" {
			msg = "no message"
		}
		return eris.Errorf("webhook: endpoint rejected record %s: %s", r.RecordID, msg)
	}
	return nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
