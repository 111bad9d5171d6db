package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/AhmadFauzanZW/wilopo-cargo/config"
	"github.com/AhmadFauzanZW/wilopo-cargo/models"
	"github.com/AhmadFauzanZW/wilopo-cargo/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier пишет уведомление в БД и рассылает его по побочным каналам
// (email, Telegram). Ошибки каналов только логируются – запись в БД первична.
type Notifier struct {
	notifications *models.NotificationStore
	users         *models.UserStore
	email         *utils.EmailService
	bot           *tgbotapi.BotAPI
	adminChatID   int64
}

func NewNotifier(cfg *config.Config, notifications *models.NotificationStore, users *models.UserStore, email *utils.EmailService) *Notifier {
	n := &Notifier{
		notifications: notifications,
		users:         users,
		email:         email,
		adminChatID:   cfg.TelegramChatID,
	}

	if cfg.TelegramBotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Printf("⚠️ Telegram-бот недоступен: %v", err)
		} else {
			n.bot = bot
			log.Printf("✅ Telegram-бот подключён: @%s", bot.Self.UserName)
		}
	}

	return n
}

func (n *Notifier) sendTelegram(chatID int64, message string) {
	if n.bot == nil || chatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("❌ Ошибка отправки в Telegram: %v", err)
	}
}

// NotifyStatusUpdate вызывается после смены статуса отправления
func (n *Notifier) NotifyStatusUpdate(sh *models.Shipment, newStatus string) {
	ctx := context.Background()

	_, err := n.notifications.Create(ctx, sh.UserID, models.NotifStatusUpdate,
		"Shipment Status Updated",
		fmt.Sprintf("Your shipment %s status has been updated to %s", sh.TrackingNumber, newStatus),
		&sh.ID)
	if err != nil {
		log.Printf("❌ Ошибка создания уведомления: %v", err)
		return
	}

	user, err := n.users.GetByID(ctx, sh.UserID)
	if err != nil {
		log.Printf("❌ Пользователь для уведомления не найден: %v", err)
		return
	}

	if err := n.email.SendStatusUpdateEmail(user.Email, user.FullName, sh.TrackingNumber, newStatus, sh.Origin, sh.Destination); err != nil {
		log.Printf("⚠️ Письмо о смене статуса не отправлено: %v", err)
	}

	n.sendTelegram(n.adminChatID, fmt.Sprintf("📦 <b>%s</b>\nНовый статус: %s", sh.TrackingNumber, newStatus))
}

// NotifyNewUser – приветствие после регистрации
func (n *Notifier) NotifyNewUser(user *models.User) {
	ctx := context.Background()

	_, err := n.notifications.Create(ctx, user.ID, models.NotifWelcome,
		"Welcome to Wilopo Cargo!",
		"Thank you for registering. Start tracking your shipments now.", nil)
	if err != nil {
		log.Printf("❌ Ошибка создания уведомления: %v", err)
		return
	}

	if err := n.email.SendWelcomeEmail(user.Email, user.FullName); err != nil {
		log.Printf("⚠️ Приветственное письмо не отправлено: %v", err)
	}
}

// NotifyDocumentUpload – по отправлению загружен новый документ
func (n *Notifier) NotifyDocumentUpload(sh *models.Shipment, doc *models.Document) {
	ctx := context.Background()

	_, err := n.notifications.Create(ctx, sh.UserID, models.NotifDocumentUploaded,
		"New Document Available",
		fmt.Sprintf("A new %s document has been uploaded for shipment %s", doc.DocumentType, sh.TrackingNumber),
		&sh.ID)
	if err != nil {
		log.Printf("❌ Ошибка создания уведомления: %v", err)
		return
	}

	user, err := n.users.GetByID(ctx, sh.UserID)
	if err != nil {
		log.Printf("❌ Пользователь для уведомления не найден: %v", err)
		return
	}

	if err := n.email.SendDocumentUploadedEmail(user.Email, user.FullName, sh.TrackingNumber, doc.DocumentType); err != nil {
		log.Printf("⚠️ Письмо о документе не отправлено: %v", err)
	}
}
