package notifier_test

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/Houeta/price-tracker/internal/services/notifier"
	"github.com/Houeta/price-tracker/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v4"
)

// ==== SMTP ====

func TestSMTPSender_Send(t *testing.T) {
	cfg := models.SMTP{Host: "smtp.example.com", Port: 587, Username: "bot@example.com", Password: "secret"}
	sender := notifier.NewSMTPSender(cfg, "me@example.com")
	sender.SetNow(func() time.Time { return checkedAt })

	var (
		gotAddr string
		gotAuth smtp.Auth
		gotFrom string
		gotTo   []string
		gotMsg  string
	)
	sender.SetSendMail(func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, auth, from, to, string(msg)
		return nil
	})

	err := sender.Send(t.Context(), notifier.Message{Subject: "Price Drop: Echo Dot - $80.00", Body: "line1\nline2"})

	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "bot@example.com", gotFrom)
	assert.Equal(t, []string{"me@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "To: me@example.com\r\n")
	assert.Contains(t, gotMsg, "Subject: Price Drop: Echo Dot - $80.00\r\n")
	assert.Contains(t, gotMsg, "\r\n\r\nline1\r\nline2")
	assert.Equal(t, "smtp", sender.Name())
}

func TestSMTPSender_Send_Failure(t *testing.T) {
	cfg := models.SMTP{Host: "smtp.example.com", Port: 25, Username: "bot@example.com"}
	sender := notifier.NewSMTPSender(cfg, "me@example.com")
	sender.SetSendMail(func(_ string, auth smtp.Auth, _ string, _ []string, _ []byte) error {
		assert.Nil(t, auth)
		return errors.New("535 authentication failed")
	})

	err := sender.Send(t.Context(), notifier.Message{Subject: "s", Body: "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp.example.com:25")
}

func TestSMTPSender_Send_CanceledContext(t *testing.T) {
	sender := notifier.NewSMTPSender(models.SMTP{Host: "h", Port: 25, Username: "u"}, "me@example.com")
	sender.SetSendMail(func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be attempted")
		return nil
	})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.ErrorIs(t, sender.Send(ctx, notifier.Message{}), context.Canceled)
}

// ==== Telegram ====

func TestTelegramSender_Send(t *testing.T) {
	mAPI := new(mocks.TelegramAPI)
	mAPI.On("Send", telebot.ChatID(42), "<b>Drop &lt;1&gt;</b>\n\nA &amp; B", mock.Anything).
		Return(&telebot.Message{}, nil).Once()

	sender := notifier.NewTelegramSenderWithAPI(mAPI, 42)
	err := sender.Send(t.Context(), notifier.Message{Subject: "Drop <1>", Body: "A & B"})

	require.NoError(t, err)
	assert.Equal(t, "telegram", sender.Name())
	mAPI.AssertExpectations(t)
}

func TestTelegramSender_Send_Failure(t *testing.T) {
	mAPI := new(mocks.TelegramAPI)
	mAPI.On("Send", telebot.ChatID(42), mock.Anything, mock.Anything).
		Return(nil, errors.New("chat not found")).Once()

	sender := notifier.NewTelegramSenderWithAPI(mAPI, 42)
	err := sender.Send(t.Context(), notifier.Message{Subject: "s", Body: "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat 42")
	mAPI.AssertExpectations(t)
}
