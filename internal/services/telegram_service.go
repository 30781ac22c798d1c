package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"careintake/internal/models"
)

// TelegramService drops a short note into the HR chat when an application
// lands. Entirely optional: without a token the constructor returns nil and
// every call on the nil service is a no-op.
type TelegramService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramService(botToken string, chatID int64) *TelegramService {
	if botToken == "" || chatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg][init] notifications disabled: %v", err)
		return nil
	}
	return &TelegramService{bot: bot, chatID: chatID}
}

// NotifyApplication is fire-and-forget: a Telegram failure never fails the
// submission, HR still has the mail.
func (t *TelegramService) NotifyApplication(app *models.Application, recipient string) {
	if t == nil || t.bot == nil {
		return
	}
	text := fmt.Sprintf("New application: %s (%s)\nCandidate: %s <%s>\nRouted to: %s",
		app.Position, app.Location, app.FullName, app.Email, recipient)
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		log.Printf("[tg][send][err] %v", err)
	}
}
