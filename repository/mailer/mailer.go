package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/alfifrr/werent-backend-sub000/util/httpx"
	"github.com/alfifrr/werent-backend-sub000/util/metrics"
)

type Mail struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// httpMailer posts mail to a provider HTTP API. Calls run through a circuit
// breaker so a dead provider is not hammered on every registration.
type httpMailer struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker
	from   string
}

func NewHTTP(apiURL, apiKey, from string) Mailer {
	client := resty.NewWithClient(httpx.Client()).
		SetBaseURL(apiURL).
		SetHeader("Authorization", "Bearer "+apiKey)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mail-provider",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	})

	return &httpMailer{client: client, cb: cb, from: from}
}

func (h *httpMailer) Send(ctx context.Context, m Mail) error {
	_, err := h.cb.Execute(func() (interface{}, error) {
		resp, err := h.client.R().
			SetContext(ctx).
			SetBody(map[string]string{
				"from":    h.from,
				"to":      m.To,
				"subject": m.Subject,
				"text":    m.Body,
			}).
			Post("/messages")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("mail provider: status %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		metrics.MailSendFailures.Inc()
	}
	return err
}

// logMailer is the dev fallback when no provider is configured: it logs the
// mail instead of delivering it.
type logMailer struct{ log *slog.Logger }

func NewLog(log *slog.Logger) Mailer { return &logMailer{log: log} }

func (l *logMailer) Send(_ context.Context, m Mail) error {
	l.log.Info("mail (not delivered, no provider configured)",
		"to", m.To, "subject", m.Subject)
	return nil
}
