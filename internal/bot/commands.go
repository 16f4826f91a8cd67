package bot

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"listing-radar/internal/filter"
	"listing-radar/internal/kafka"
	"listing-radar/internal/render"
)

const anyValue = "any"

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcomeText := `👋 Привет! Я показываю объявления о недвижимости.

🔍 Что я умею:
• Фильтровать объявления по цене, комнатам и району
• Строить графики и таблицы
• Загружать новые объявления по ссылке

📝 Команды:
/help - показать все команды
/show - показать объявления

Начнём! 🚀`

	b.sendMessage(message.Chat.ID, welcomeText)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	helpText := `📚 Доступные команды:

📊 Просмотр:
/show - график по текущему фильтру
/map - объявления с координатами
/districts - список районов

🔍 Фильтр:
/price [от] [до] - диапазон цен
/rooms [число|any] - количество комнат
/district [название|any] - район
/chart [bar|pie|line|table] - вид графика
/reset - сбросить фильтр

📥 Загрузка:
/ingest [ссылка] - загрузить объявления со страницы`

	b.sendMessage(message.Chat.ID, helpText)
}

func (b *Bot) handleUnknown(message *tgbotapi.Message) {
	text := `❓ Неизвестная команда: ` + message.Command() + `

Используй /help, чтобы увидеть все доступные команды.`

	b.sendMessage(message.Chat.ID, text)
}

func (b *Bot) handleShow(ctx context.Context, message *tgbotapi.Message) {
	s := b.session(message.Chat.ID)
	b.sendChart(ctx, message.Chat.ID, s.Spec())
}

func (b *Bot) handleMap(ctx context.Context, message *tgbotapi.Message) {
	spec := b.session(message.Chat.ID).Spec()

	v, err := b.views.Views(ctx, spec)
	if err != nil {
		b.logger.WithError(err).Error("Error loading listings")
		b.sendMessage(message.Chat.ID, "❌ Ошибка загрузки объявлений")
		return
	}

	b.sendMessage(message.Chat.ID, render.Text(render.Map(v)))
}

func (b *Bot) handlePrice(ctx context.Context, message *tgbotapi.Message) {
	args := strings.Fields(message.CommandArguments())
	if len(args) != 2 {
		b.sendMessage(message.Chat.ID, "📝 Использование: /price 100000 500000")
		return
	}

	lo, errLo := parsePrice(args[0])
	hi, errHi := parsePrice(args[1])
	if errLo != nil || errHi != nil {
		b.sendMessage(message.Chat.ID, "❌ Цены должны быть неотрицательными числами!")
		return
	}
	if lo > hi {
		b.sendMessage(message.Chat.ID, "❌ Минимальная цена не может быть больше максимальной!")
		return
	}

	b.apply(ctx, message.Chat.ID, filter.Patch{PriceRange: &[2]float64{lo, hi}})
}

func (b *Bot) handleRooms(ctx context.Context, message *tgbotapi.Message) {
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		b.sendMessage(message.Chat.ID, "📝 Использование: /rooms 2 или /rooms any")
		return
	}
	if arg == anyValue {
		b.apply(ctx, message.Chat.ID, filter.Patch{ClearRooms: true})
		return
	}

	rooms, err := strconv.Atoi(arg)
	if err != nil || rooms < 0 {
		b.sendMessage(message.Chat.ID, "❌ Количество комнат должно быть целым числом!")
		return
	}
	b.apply(ctx, message.Chat.ID, filter.Patch{Rooms: &rooms})
}

func (b *Bot) handleDistrict(ctx context.Context, message *tgbotapi.Message) {
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		b.sendMessage(message.Chat.ID, "📝 Использование: /district Центральный или /district any")
		return
	}
	if arg == anyValue {
		b.apply(ctx, message.Chat.ID, filter.Patch{ClearDistrict: true})
		return
	}
	b.apply(ctx, message.Chat.ID, filter.Patch{District: &arg})
}

func (b *Bot) handleChart(ctx context.Context, message *tgbotapi.Message) {
	kind, err := filter.ParseChartKind(message.CommandArguments())
	if err != nil {
		b.sendMessage(message.Chat.ID, "📝 Использование: /chart bar|pie|line|table")
		return
	}
	b.apply(ctx, message.Chat.ID, filter.Patch{Chart: &kind})
}

func (b *Bot) handleReset(ctx context.Context, message *tgbotapi.Message) {
	s := b.session(message.Chat.ID)
	s.Reset()
	b.saveSession(message.Chat.ID, s)
	b.sendMessage(message.Chat.ID, "🔄 Фильтр сброшен")
	b.sendChart(ctx, message.Chat.ID, s.Spec())
}

func (b *Bot) handleDistricts(ctx context.Context, message *tgbotapi.Message) {
	opts, err := b.views.Options(ctx)
	if err != nil {
		b.logger.WithError(err).Error("Error loading districts")
		b.sendMessage(message.Chat.ID, "❌ Ошибка загрузки районов")
		return
	}

	if len(opts.Districts) == 0 {
		b.sendMessage(message.Chat.ID, "📝 Районов пока нет.")
		return
	}

	text := fmt.Sprintf("🏙 Районы (%d):\n\n", len(opts.Districts))
	for _, d := range opts.Districts {
		text += "• " + d + "\n"
	}
	b.sendMessage(message.Chat.ID, text)
}

func (b *Bot) handleIngest(ctx context.Context, message *tgbotapi.Message) {
	if b.requests == nil {
		b.sendMessage(message.Chat.ID, "❌ Загрузка сейчас недоступна")
		return
	}

	source := strings.TrimSpace(message.CommandArguments())
	u, err := url.Parse(source)
	if source == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		b.sendMessage(message.Chat.ID, "📝 Использование: /ingest https://example.com/listings")
		return
	}

	if !b.cache.CanIngest(source) {
		b.sendMessage(message.Chat.ID, "⏰ Эта страница недавно загружалась, подожди немного")
		return
	}

	event := kafka.IngestRequestEvent{
		RequestID: uuid.NewString(),
		Source:    source,
		ChatID:    message.Chat.ID,
	}
	if err := b.requests.PublishIngestRequest(ctx, event); err != nil {
		b.logger.WithError(err).Error("Error publishing ingest request")
		b.sendMessage(message.Chat.ID, "❌ Не удалось поставить загрузку в очередь")
		return
	}

	b.sendMessage(message.Chat.ID, "📥 Загрузка поставлена в очередь. Я напишу, когда она завершится.")
}

func (b *Bot) apply(ctx context.Context, chatID int64, patch filter.Patch) {
	s := b.session(chatID)
	spec := s.Update(patch)
	b.saveSession(chatID, s)
	b.sendChart(ctx, chatID, spec)
}

func (b *Bot) sendChart(ctx context.Context, chatID int64, spec filter.Spec) {
	v, err := b.views.Views(ctx, spec)
	if err != nil {
		b.logger.WithError(err).Error("Error loading listings")
		b.sendMessage(chatID, "❌ Ошибка загрузки объявлений")
		return
	}

	text := describe(spec) + fmt.Sprintf("\n📋 Найдено объявлений: %d\n\n", len(v.Rows))
	text += render.Text(render.Chart(spec.Chart, v))
	b.sendMessage(chatID, text)
}

func describe(spec filter.Spec) string {
	rooms, district := "любое", "любой"
	if spec.Rooms != nil {
		rooms = strconv.Itoa(*spec.Rooms)
	}
	if spec.District != nil {
		district = *spec.District
	}
	return fmt.Sprintf("🔍 Цена: %s - %s руб. | Комнат: %s | Район: %s",
		render.FormatPrice(spec.PriceMin), render.FormatPrice(spec.PriceMax), rooms, district)
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("price out of range: %q", s)
	}
	return v, nil
}
