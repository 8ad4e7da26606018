package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/dealwire/dealbot/internal/models"
	"github.com/dealwire/dealbot/internal/util"
)

const maxImageBytes = 10 << 20

// MessageHandler consumes one decoded inbound chat message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg models.Message)
}

// Adapter bridges the Telegram bot API to the pipeline: inbound text and
// photo messages are converted to the pipeline's message shape, and photo
// bytes can be fetched back by file ID at publish time.
type Adapter struct {
	bot     *tele.Bot
	handler MessageHandler
}

func New(token string, handler MessageHandler) (*Adapter, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram token is empty")
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	a := &Adapter{bot: bot, handler: handler}
	a.registerHandlers()
	return a, nil
}

func (a *Adapter) registerHandlers() {
	a.bot.Handle(tele.OnText, func(c tele.Context) error {
		m := c.Message()
		if m == nil {
			return nil
		}
		a.handler.HandleMessage(context.Background(), models.Message{Text: m.Text})
		return nil
	})

	// Photo messages carry their text in the caption.
	a.bot.Handle(tele.OnPhoto, func(c tele.Context) error {
		m := c.Message()
		if m == nil || m.Photo == nil {
			return nil
		}
		msg := models.Message{
			Text: m.Caption,
			Photos: []models.ImageRef{{
				FileID: m.Photo.FileID,
				Width:  m.Photo.Width,
				Height: m.Photo.Height,
			}},
		}
		a.handler.HandleMessage(context.Background(), msg)
		return nil
	})
}

// Start begins long polling for updates and blocks until Stop is called.
func (a *Adapter) Start() {
	slog.Info("Telegram adapter polling for updates")
	a.bot.Start()
}

func (a *Adapter) Stop() {
	a.bot.Stop()
}

// FetchImage downloads the photo bytes behind a Telegram file ID. Transient
// download failures are retried with backoff before giving up.
func (a *Adapter) FetchImage(ctx context.Context, fileID string) ([]byte, error) {
	var data []byte
	err := util.Retry(ctx, 3, time.Second, func() error {
		rc, err := a.bot.File(&tele.File{FileID: fileID})
		if err != nil {
			return err
		}
		defer rc.Close()

		b, err := io.ReadAll(io.LimitReader(rc, maxImageBytes))
		if err != nil {
			return err
		}
		data = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("telegram file %s: %w", fileID, err)
	}
	return data, nil
}
