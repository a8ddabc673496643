package alert

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/sirupsen/logrus"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

// maxListedFailures caps how many broken URLs a notification spells out.
const maxListedFailures = 10

// Notifier delivers the outcome of a finished monitoring run.
type Notifier interface {
	NotifyRun(ctx context.Context, run domain.MonitoringRun) error
}

// TelegramNotifier sends run summaries to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbot.Bot
	chatID string
	log    logrus.FieldLogger
}

// NewTelegramNotifier creates a notifier bound to one chat.
func NewTelegramNotifier(token, chatID string, logger logrus.FieldLogger) (*TelegramNotifier, error) {
	log := logger.WithField("component", "alert")

	if token == "" || chatID == "" {
		return nil, errors.New("telegram token and chat id are required")
	}

	b, err := tgbot.New(token)
	if err != nil {
		log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log.Info("Telegram notifier initialized")
	return &TelegramNotifier{
		bot:    b,
		chatID: chatID,
		log:    log,
	}, nil
}

// NotifyRun sends one message summarizing the run.
func (n *TelegramNotifier) NotifyRun(ctx context.Context, run domain.MonitoringRun) error {
	_, err := n.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: n.chatID,
		Text:   FormatRunMessage(run),
	})
	if err != nil {
		n.log.WithError(err).Error("Failed to send run notification")
		return fmt.Errorf("failed to send run notification: %w", err)
	}

	n.log.WithField("chat_id", n.chatID).Info("Run notification sent")
	return nil
}

// FormatRunMessage renders a run as the plain-text notification body:
// overall totals first, then up to maxListedFailures broken URLs.
func FormatRunMessage(run domain.MonitoringRun) string {
	totals := run.Totals()
	records := run.FailureRecords(http.StatusNotFound)

	var b strings.Builder
	fmt.Fprintf(&b, "Website monitoring finished at %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Websites: %d (%d parsed, %d failed)\n", totals.Websites, totals.Parsed, totals.Failed)
	fmt.Fprintf(&b, "Links tested: %d (%d accessible, %d inaccessible, %d skipped)\n",
		totals.LinksTested, totals.Accessible, totals.Inaccessible, totals.Skipped)

	if len(records) == 0 {
		b.WriteString("No 404 links found.")
		return b.String()
	}

	fmt.Fprintf(&b, "404 links: %d\n", len(records))
	for i, rec := range records {
		if i == maxListedFailures {
			fmt.Fprintf(&b, "... and %d more", len(records)-maxListedFailures)
			break
		}
		fmt.Fprintf(&b, "%d. %s (on %s)\n", i+1, rec.URL, rec.Source)
	}
	return strings.TrimRight(b.String(), "\n")
}
