package messaging

import (
	"context"
	"fmt"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/logger"
)

// LogNotifier writes alerts to the structured log. Default sink when no
// alert email is configured.
type LogNotifier struct {
	log logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, kind, title, message string) {
	n.log.Info("notification", map[string]interface{}{
		"kind":    kind,
		"title":   title,
		"message": message,
	})
}

// EmailNotifier pushes alerts to an operator mailbox through the email
// gateway. Send failures are logged and swallowed: alerting must never block
// or fail a batch.
type EmailNotifier struct {
	gateway Gateway
	to      string
	log     logger.Logger
}

func NewEmailNotifier(gateway Gateway, to string, log logger.Logger) *EmailNotifier {
	return &EmailNotifier{gateway: gateway, to: to, log: log}
}

func (n *EmailNotifier) Notify(ctx context.Context, kind, title, message string) {
	body := fmt.Sprintf("[%s] %s\n\n%s", kind, title, message)
	if err := n.gateway.Send(ctx, n.to, body); err != nil {
		n.log.Warn("notification delivery failed", map[string]interface{}{
			"kind":  kind,
			"title": title,
			"error": err.Error(),
		})
	}
}
