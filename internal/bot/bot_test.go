package bot

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"kassenbon/internal/catalog"
	"kassenbon/internal/model"
	"kassenbon/internal/synth"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSender is a mock implementation of the Telegram client surface.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

// stubRenderer avoids real drawing in transport tests.
type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, rec model.ReceiptRecord) []byte {
	return []byte("png-bytes")
}

func newTestBot(t *testing.T, api sender) *Bot {
	t.Helper()

	factory, err := synth.NewFactory(catalog.Default(), synth.WeekdaysOnly, 7.0, zerolog.Nop())
	require.NoError(t, err)

	return &Bot{
		api:       api,
		allowedID: 1000,
		factory:   factory,
		renderer:  stubRenderer{},
		maxDays:   30,
		sendDelay: 0,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(7))
		},
		logger: zerolog.Nop(),
	}
}

func messageUpdate(userID, chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: text,
		},
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		expectedDays int
		expectedErr  error
	}{
		{
			name:         "Valid command",
			text:         "food 5",
			expectedDays: 5,
		},
		{
			name:         "Mixed case and whitespace",
			text:         "  Food 3 ",
			expectedDays: 3,
		},
		{
			name:        "Not a command",
			text:        "hello there",
			expectedErr: ErrNotCommand,
		},
		{
			name:        "Bare keyword",
			text:        "food",
			expectedErr: ErrInvalidFormat,
		},
		{
			name:        "Non-numeric count",
			text:        "food five",
			expectedErr: ErrInvalidFormat,
		},
		{
			name:        "Trailing garbage",
			text:        "food 5 please",
			expectedErr: ErrInvalidFormat,
		},
		{
			name:         "Out-of-range count is parsed, not validated",
			text:         "food 99",
			expectedDays: 99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := ParseCommand(tt.text)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedDays, days)
		})
	}
}

func TestBot_HandleUpdate_UnauthorisedUser(t *testing.T) {
	api := new(MockSender)
	api.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil).Once()

	b := newTestBot(t, api)
	b.handleUpdate(context.Background(), messageUpdate(9999, 1, "food 5"))

	api.AssertExpectations(t)

	sent := api.Calls[0].Arguments.Get(0).(tgbotapi.MessageConfig)
	assert.Contains(t, sent.Text, "not authorized")
}

func TestBot_HandleUpdate_InvalidFormat(t *testing.T) {
	api := new(MockSender)
	api.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil).Once()

	b := newTestBot(t, api)
	b.handleUpdate(context.Background(), messageUpdate(1000, 1, "food many"))

	sent := api.Calls[0].Arguments.Get(0).(tgbotapi.MessageConfig)
	assert.Contains(t, sent.Text, "Invalid format")
}

func TestBot_HandleUpdate_CountOutOfRange(t *testing.T) {
	for _, text := range []string{"food 0", "food -3", "food 31"} {
		api := new(MockSender)
		api.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil).Once()

		b := newTestBot(t, api)
		b.handleUpdate(context.Background(), messageUpdate(1000, 1, text))

		sent := api.Calls[0].Arguments.Get(0).(tgbotapi.MessageConfig)
		assert.Contains(t, sent.Text, "between 1 and 30", "command %q", text)
	}
}

func TestBot_SendReceipts(t *testing.T) {
	api := new(MockSender)
	api.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

	b := newTestBot(t, api)
	b.sendReceipts(context.Background(), 1, 3)

	// Progress message + 3 photos + completion message.
	api.AssertNumberOfCalls(t, "Send", 5)

	photos := 0
	for _, call := range api.Calls {
		if photo, ok := call.Arguments.Get(0).(tgbotapi.PhotoConfig); ok {
			photos++
			assert.Contains(t, photo.Caption, "Receipt")
			assert.Contains(t, photo.Caption, "/3")
		}
	}
	assert.Equal(t, 3, photos)
}

func TestBot_SendReceipts_FailedDayDoesNotAbortSiblings(t *testing.T) {
	api := new(MockSender)

	// Progress message succeeds, first photo fails, everything after
	// (error notice, remaining photos, completion) succeeds.
	api.On("Send", mock.AnythingOfType("tgbotapi.MessageConfig")).Return(tgbotapi.Message{}, nil)
	api.On("Send", mock.AnythingOfType("tgbotapi.PhotoConfig")).Return(tgbotapi.Message{}, errors.New("network down")).Once()
	api.On("Send", mock.AnythingOfType("tgbotapi.PhotoConfig")).Return(tgbotapi.Message{}, nil)

	b := newTestBot(t, api)
	b.sendReceipts(context.Background(), 1, 3)

	photos := 0
	for _, call := range api.Calls {
		if _, ok := call.Arguments.Get(0).(tgbotapi.PhotoConfig); ok {
			photos++
		}
	}
	assert.Equal(t, 3, photos, "all days must be attempted despite the failure")
}

func TestBot_SendReceipts_CancelledContext(t *testing.T) {
	api := new(MockSender)
	api.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := newTestBot(t, api)
	b.sendReceipts(ctx, 1, 3)

	// The progress message may go out, but no photo may be delivered
	// after cancellation.
	for _, call := range api.Calls {
		_, isPhoto := call.Arguments.Get(0).(tgbotapi.PhotoConfig)
		assert.False(t, isPhoto)
	}
}

func TestBot_SendReceipts_CaptionFormat(t *testing.T) {
	api := new(MockSender)
	api.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

	b := newTestBot(t, api)
	b.sendReceipts(context.Background(), 1, 1)

	var caption string
	for _, call := range api.Calls {
		if photo, ok := call.Arguments.Get(0).(tgbotapi.PhotoConfig); ok {
			caption = photo.Caption
		}
	}

	require.NotEmpty(t, caption)
	assert.Regexp(t, `^Receipt 1/1 - [A-Z][a-z]+day, \d{2}\.\d{2}\.\d{4}$`, caption)

	// The captioned date is the most recent business day before today.
	syn := b.factory.Synthesizer(rand.New(rand.NewSource(1)))
	days, err := syn.BusinessDays(1, time.Now())
	require.NoError(t, err)
	assert.Contains(t, caption, days[0].Format("02.01.2006"))
}
