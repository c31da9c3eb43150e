package middleware

import (
	"fmt"
	"testing"

	"lexicards/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func newTestContext(t *testing.T, upd tele.Update) tele.Context {
	t.Helper()
	bot, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)
	return bot.NewContext(upd)
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name    string
		update  tele.Update
		result  error
		wantErr bool
	}{
		{
			name: "text message",
			update: tele.Update{Message: &tele.Message{
				Sender: &tele.User{ID: 1},
				Chat:   &tele.Chat{ID: 1},
				Text:   "/start",
			}},
		},
		{
			name: "callback",
			update: tele.Update{Callback: &tele.Callback{
				Sender: &tele.User{ID: 2},
				Data:   "flip",
			}},
		},
		{
			name: "handler error is passed through",
			update: tele.Update{Message: &tele.Message{
				Sender: &tele.User{ID: 3},
				Chat:   &tele.Chat{ID: 3},
				Text:   "a",
			}},
			result:  fmt.Errorf("send failed"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := Logging(testutil.NewTestLogger())(func(c tele.Context) error {
				called = true
				return tt.result
			})

			err := handler(newTestContext(t, tt.update))

			assert.True(t, called)
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.result)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	handler := Recover(testutil.NewTestLogger())(func(c tele.Context) error {
		panic("nil map")
	})

	err := handler(newTestContext(t, tele.Update{Message: &tele.Message{Text: "x"}}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil map")
}

func TestUpdateKind(t *testing.T) {
	tests := []struct {
		name     string
		update   tele.Update
		expected string
	}{
		{name: "callback", update: tele.Update{Callback: &tele.Callback{}}, expected: "callback"},
		{name: "text", update: tele.Update{Message: &tele.Message{Text: "hi"}}, expected: "text"},
		{name: "sticker", update: tele.Update{Message: &tele.Message{}}, expected: "message"},
		{name: "empty", update: tele.Update{}, expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, updateKind(newTestContext(t, tt.update)))
		})
	}
}
