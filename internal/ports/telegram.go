package ports

import (
	"github.com/gotd/td/tg"

	"telegram-reply-tracker/internal/domain"
)

// EntityResolver преобразует сетевые сущности текста в доменные, разрешая
// упоминания пользователей.
type EntityResolver interface {
	Entities(entities []tg.MessageEntityClass) []domain.MessageEntity
}

// MediaContentBuilder строит содержимое сообщения из сетевого медиа.
type MediaContentBuilder interface {
	FromMedia(media tg.MessageMediaClass, dialogID domain.DialogID, date int32) domain.Content
}
