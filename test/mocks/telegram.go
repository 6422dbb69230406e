package mocks

import (
	"github.com/stretchr/testify/mock"
	"gopkg.in/telebot.v4"
)

// TelegramAPI is a mock type for the notifier.TelegramAPI type.
type TelegramAPI struct {
	mock.Mock
}

// Send provides a mock function with given fields: to, what, opts.
func (m *TelegramAPI) Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	ret := m.Called(to, what, opts)

	var msg *telebot.Message
	if v := ret.Get(0); v != nil {
		msg = v.(*telebot.Message)
	}

	return msg, ret.Error(1)
}
