// Package whatsapp delivers outbound messages through an external
// WhatsApp Web gateway. The browser session behind the gateway is an
// external collaborator; this client only speaks HTTP to it.
package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// Gateway posts messages to a configured gateway endpoint.
type Gateway struct {
	url      string
	client   *http.Client
	attempts uint
	logger   *zap.Logger
}

func NewGateway(url string, timeout time.Duration, maxRetries int, logger *zap.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Gateway{
		url:      url,
		client:   &http.Client{Timeout: timeout},
		attempts: uint(maxRetries),
		logger:   logger,
	}
}

type sendRequest struct {
	Contact string `json:"contact"`
	Message string `json:"message"`
}

// Send delivers one message, retrying transient gateway failures.
func (g *Gateway) Send(contact, message string) error {
	body, err := json.Marshal(sendRequest{Contact: contact, Message: message})
	if err != nil {
		return err
	}

	return retry.Do(
		func() error {
			resp, err := g.client.Post(g.url+"/send", "application/json", bytes.NewReader(body))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				err := fmt.Errorf("gateway returned status %d", resp.StatusCode)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}
			g.logger.Info("whatsapp message delivered", zap.String("contact", contact))
			return nil
		},
		retry.Attempts(g.attempts),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

// Simulator stands in when no gateway is configured: sends are logged
// and reported as successful.
type Simulator struct {
	logger *zap.Logger
}

func NewSimulator(logger *zap.Logger) *Simulator {
	return &Simulator{logger: logger}
}

func (s *Simulator) Send(contact, message string) error {
	s.logger.Info("simulated whatsapp send",
		zap.String("contact", contact),
		zap.String("message", message))
	return nil
}
