package telegram

import "gopkg.in/telebot.v3"

// Client is the thin seam between the evaluation engine and the Telegram
// transport. The engine only ever needs to deliver a finished text message
// to a chat; everything else about the bot lives outside the core.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
