// Package bot implements the Telegram transport: it parses the one-word
// receipt command, checks the caller against the single allowed user and
// delivers one rendered receipt per business day.
package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"kassenbon/internal/render"
	"kassenbon/internal/synth"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Command parsing errors.
var (
	// ErrNotCommand marks messages that are not a receipt request at all.
	ErrNotCommand = errors.New("not a receipt command")

	// ErrInvalidFormat marks receipt requests with an unparseable day count.
	ErrInvalidFormat = errors.New("invalid command format")
)

// sender is the slice of the Telegram client the bot needs for outbound
// messages. Narrowed to an interface so tests can capture deliveries.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot serves receipt requests for exactly one authorised Telegram user.
type Bot struct {
	client    *tgbotapi.BotAPI
	api       sender
	allowedID int64
	factory   *synth.Factory
	renderer  render.Renderer
	maxDays   int
	sendDelay time.Duration
	newRand   func() *rand.Rand
	logger    zerolog.Logger
}

// New connects to the Telegram API and returns a ready bot.
func New(
	token string,
	allowedUserID int64,
	sendDelay time.Duration,
	maxDays int,
	factory *synth.Factory,
	renderer render.Renderer,
	logger zerolog.Logger,
) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	logger = logger.With().Str("component", "bot").Logger()
	logger.Info().Str("username", client.Self.UserName).Msg("connected to Telegram")

	return &Bot{
		client:    client,
		api:       client,
		allowedID: allowedUserID,
		factory:   factory,
		renderer:  renderer,
		maxDays:   maxDays,
		sendDelay: sendDelay,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		logger: logger,
	}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.client.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			b.logger.Info().Msg("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// ParseCommand parses a "food N" message into a day count. The count is
// returned unvalidated; range checking against the configured maximum is
// the caller's job.
func ParseCommand(text string) (int, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) == 0 || fields[0] != "food" {
		return 0, ErrNotCommand
	}
	if len(fields) != 2 {
		return 0, ErrInvalidFormat
	}

	days, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, ErrInvalidFormat
	}
	return days, nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if msg.From.ID != b.allowedID {
		b.logger.Warn().Int64("user_id", msg.From.ID).Msg("unauthorised user")
		b.reply(msg.Chat.ID, "Sorry, you are not authorized to use this bot.")
		return
	}

	if msg.IsCommand() {
		if msg.Command() == "start" {
			b.reply(msg.Chat.ID,
				"Welcome! Send me a message like 'food 5' to generate receipts for the last N working days.")
		}
		return
	}

	days, err := ParseCommand(msg.Text)
	switch {
	case errors.Is(err, ErrNotCommand):
		b.reply(msg.Chat.ID, "Please send a message like 'food 5' to generate receipts.")
		return
	case errors.Is(err, ErrInvalidFormat):
		b.reply(msg.Chat.ID, "Invalid format. Please use 'food [number]', for example: 'food 5'")
		return
	}

	if days < 1 || days > b.maxDays {
		b.reply(msg.Chat.ID, fmt.Sprintf("Please specify a number between 1 and %d.", b.maxDays))
		return
	}

	b.sendReceipts(ctx, msg.Chat.ID, days)
}

// sendReceipts generates and delivers one receipt per business day. Each
// day is independent: a failed delivery reports for that day only and the
// remaining days continue.
func (b *Bot) sendReceipts(ctx context.Context, chatID int64, count int) {
	logger := b.logger.With().
		Str("batch_id", uuid.NewString()).
		Int("days", count).
		Logger()

	syn := b.factory.Synthesizer(b.newRand())

	days, err := syn.BusinessDays(count, time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("failed to compute business days")
		b.reply(chatID, fmt.Sprintf("An error occurred: %v", err))
		return
	}

	b.reply(chatID, fmt.Sprintf("Generating receipts for the last %d working days...", count))

	for i, day := range days {
		if ctx.Err() != nil {
			logger.Warn().Msg("batch cancelled")
			return
		}

		rec := syn.Receipt(day)
		image := b.renderer.Render(ctx, rec)

		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
			Name:  fmt.Sprintf("receipt_%s.png", day.Format("2006-01-02")),
			Bytes: image,
		})
		photo.Caption = fmt.Sprintf("Receipt %d/%d - %s", i+1, len(days), day.Format("Monday, 02.01.2006"))

		if _, err := b.api.Send(photo); err != nil {
			logger.Error().Err(err).
				Str("date", day.Format("02.01.2006")).
				Msg("failed to deliver receipt")
			b.reply(chatID, fmt.Sprintf("Error generating receipt for %s: %v", day.Format("02.01.2006"), err))
			continue
		}

		logger.Debug().
			Str("date", day.Format("02.01.2006")).
			Int("png_bytes", len(image)).
			Msg("receipt delivered")

		// Pace deliveries to respect Telegram rate limits.
		if i < len(days)-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(b.sendDelay):
			}
		}
	}

	b.reply(chatID, "All receipts have been generated!")
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error().Err(err).Msg("failed to send message")
	}
}
