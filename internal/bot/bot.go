package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"listing-radar/internal/cache"
	"listing-radar/internal/filter"
	"listing-radar/internal/kafka"
	"listing-radar/internal/metrics"
	"listing-radar/internal/views"
)

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type IngestRequester interface {
	PublishIngestRequest(ctx context.Context, event kafka.IngestRequestEvent) error
}

type Bot struct {
	api      *tgbotapi.BotAPI
	sender   Sender
	views    *views.Service
	cache    cache.Cache
	requests IngestRequester
	logger   *logrus.Logger
}

// NewBot authorizes against the Telegram API. requests may be nil, in which
// case /ingest is refused.
func NewBot(token string, svc *views.Service, c cache.Cache, requests IngestRequester, logger *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	api.Debug = false
	logger.Infof("Bot is authorized as: @%s", api.Self.UserName)

	b := newBot(api, svc, c, requests, logger)
	b.api = api
	return b, nil
}

func newBot(sender Sender, svc *views.Service, c cache.Cache, requests IngestRequester, logger *logrus.Logger) *Bot {
	return &Bot{
		sender:   sender,
		views:    svc,
		cache:    c,
		requests: requests,
		logger:   logger,
	}
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)
	b.logger.Info("Bot is started! Waiting for messages...")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	log := b.logger.WithField("chat_id", message.Chat.ID)
	if message.From != nil {
		log = log.WithField("user", message.From.UserName)
	}
	log.Debugf("Message: %s", message.Text)

	if !message.IsCommand() {
		b.sendMessage(message.Chat.ID, "💬 Я понимаю только команды. Отправь /help, чтобы увидеть список.")
		return
	}

	command := message.Command()
	metrics.BotCommands.WithLabelValues(command).Inc()

	switch command {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "show":
		b.handleShow(ctx, message)
	case "map":
		b.handleMap(ctx, message)
	case "price":
		b.handlePrice(ctx, message)
	case "rooms":
		b.handleRooms(ctx, message)
	case "district":
		b.handleDistrict(ctx, message)
	case "chart":
		b.handleChart(ctx, message)
	case "reset":
		b.handleReset(ctx, message)
	case "districts":
		b.handleDistricts(ctx, message)
	case "ingest":
		b.handleIngest(ctx, message)
	default:
		b.handleUnknown(message)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.WithError(err).WithField("chat_id", chatID).Error("Error sending message")
	}
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("chat:%d", chatID)
}

func (b *Bot) session(chatID int64) *filter.Session {
	if spec, ok := b.cache.LoadSession(sessionKey(chatID)); ok {
		return filter.Resume(spec)
	}
	return filter.NewSession()
}

func (b *Bot) saveSession(chatID int64, s *filter.Session) {
	if err := b.cache.SaveSession(sessionKey(chatID), s.Spec()); err != nil {
		b.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to save filter session")
	}
}
