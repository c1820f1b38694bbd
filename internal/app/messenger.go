package app

import (
	"context"
	"fmt"

	"github.com/abjtutorial/accessbot/internal/access/moderation"
	"github.com/abjtutorial/accessbot/internal/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// botMessenger adapts the bot API to the moderation.Messenger interface.
type botMessenger struct {
	bot *tele.Bot
}

func newBotMessenger(bot *tele.Bot) *botMessenger {
	return &botMessenger{bot: bot}
}

// setBot wires the live bot once the runtime is up. Handlers only run
// after the bot has started, so no lock is needed.
func (m *botMessenger) setBot(bot *tele.Bot) { m.bot = bot }

func inlineMarkup(rows [][]moderation.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	kb := make([][]keyboard.InlineBtn, len(rows))
	for i, row := range rows {
		r := make([]keyboard.InlineBtn, len(row))
		for j, b := range row {
			r[j] = keyboard.InlineBtn{
				Text:   b.Text,
				Unique: b.Key,
				Data:   b.Payload,
				URL:    b.URL,
			}
		}
		kb[i] = r
	}
	return keyboard.InlineButtonsRows(kb...)
}

func (m *botMessenger) SendMessage(_ context.Context, chatID int64, text string, buttons ...[]moderation.Button) error {
	if m.bot == nil {
		return fmt.Errorf("messenger: bot not started")
	}
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: inlineMarkup(buttons)}
	if _, err := m.bot.Send(tele.ChatID(chatID), text, opts); err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return nil
}

func (m *botMessenger) SendPhoto(_ context.Context, chatID int64, photoID, caption string, buttons ...[]moderation.Button) error {
	if m.bot == nil {
		return fmt.Errorf("messenger: bot not started")
	}
	photo := &tele.Photo{File: tele.File{FileID: photoID}, Caption: caption}
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: inlineMarkup(buttons)}
	if _, err := m.bot.Send(tele.ChatID(chatID), photo, opts); err != nil {
		return fmt.Errorf("send photo to %d: %w", chatID, err)
	}
	return nil
}

func (m *botMessenger) CreateInviteLink(_ context.Context, chatID int64, memberLimit int) (string, error) {
	if m.bot == nil {
		return "", fmt.Errorf("messenger: bot not started")
	}
	link, err := m.bot.CreateInviteLink(tele.ChatID(chatID), &tele.ChatInviteLink{MemberLimit: memberLimit})
	if err != nil {
		return "", fmt.Errorf("create invite link for %d: %w", chatID, err)
	}
	return link.InviteLink, nil
}
