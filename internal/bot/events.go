package bot

import (
	"context"
	"fmt"

	"listing-radar/internal/kafka"
)

// HandleIngestRequest is for ingest workers; the bot ignores it.
func (b *Bot) HandleIngestRequest(context.Context, kafka.IngestRequestEvent) error {
	return nil
}

func (b *Bot) HandleListingsIngested(_ context.Context, event kafka.ListingsIngestedEvent) error {
	if err := b.views.Invalidate(); err != nil {
		b.logger.WithError(err).Warn("Failed to invalidate cached views")
	}

	if event.ChatID == 0 {
		return nil
	}

	text := fmt.Sprintf("✅ Загрузка завершена: %s\nНайдено: %d, сохранено: %d", event.Source, event.Extracted, event.Stored)
	if event.Stored == 0 {
		text = fmt.Sprintf("😔 На странице %s объявлений не найдено", event.Source)
	}
	b.sendMessage(event.ChatID, text)
	return nil
}

func (b *Bot) HandleIngestFailed(_ context.Context, event kafka.IngestFailedEvent) error {
	if event.ChatID == 0 {
		return nil
	}

	b.sendMessage(event.ChatID, fmt.Sprintf("❌ Загрузка %s не удалась на этапе %s", event.Source, stageName(event.Stage)))
	return nil
}

func stageName(stage string) string {
	switch stage {
	case "fetch":
		return "получения страницы"
	case "parse":
		return "разбора страницы"
	case "store":
		return "сохранения"
	default:
		return stage
	}
}
