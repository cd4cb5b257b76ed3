package reply

import (
	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/ports"
)

// ToClient возвращает клиентское представление ответа сообщения из диалога
// owner. Вызов не изменяет Info.
func (i Info) ToClient(layer ports.ContentLayer, owner domain.DialogID) domain.ClientReplyToMessage {
	dialogID := owner
	if i.dialogID.IsValid() {
		dialogID = i.dialogID
	}

	result := domain.ClientReplyToMessage{
		ChatID:         int64(dialogID),
		MessageID:      int64(i.messageID),
		OriginSendDate: i.originDate,
	}
	if i.messageID == 0 {
		result.ChatID = 0
	}
	if !i.quote.IsEmpty() {
		result.Quote = &domain.ClientTextQuote{
			Text:     i.quote.Clone(),
			Position: i.quotePosition,
			IsManual: i.isQuoteManual,
		}
	}
	if i.origin != nil {
		result.Origin = OriginToClient(i.origin)
	}
	if i.content != nil {
		result.Content = contentToClient(layer, i.content, dialogID)
	}
	return result
}

// contentToClient скрывает вырожденное содержимое: неподдерживаемое и
// текст без превью ссылки.
func contentToClient(layer ports.ContentLayer, c domain.Content, dialogID domain.DialogID) *domain.ClientMessageContent {
	out := layer.ToClient(c, dialogID)
	if out == nil {
		return nil
	}
	switch c.Type() {
	case domain.ContentTypeUnsupported:
		return nil
	case domain.ContentTypeText:
		if out.LinkPreview == nil {
			return nil
		}
	}
	return out
}

// OriginToClient возвращает клиентское представление источника сообщения.
func OriginToClient(o domain.Origin) *domain.ClientMessageOrigin {
	switch v := o.(type) {
	case domain.OriginUser:
		return &domain.ClientMessageOrigin{Type: "messageOriginUser", SenderUserID: int64(v.SenderUserID)}
	case domain.OriginHiddenUser:
		return &domain.ClientMessageOrigin{Type: "messageOriginHiddenUser", SenderName: v.SenderName}
	case domain.OriginChat:
		return &domain.ClientMessageOrigin{
			Type:            "messageOriginChat",
			SenderChatID:    int64(v.SenderDialogID),
			AuthorSignature: v.AuthorSignature,
		}
	case domain.OriginChannel:
		return &domain.ClientMessageOrigin{
			Type:            "messageOriginChannel",
			ChatID:          int64(v.ChannelDialogID),
			MessageID:       int64(v.MessageID),
			AuthorSignature: v.AuthorSignature,
		}
	case domain.OriginImport:
		return &domain.ClientMessageOrigin{Type: "messageOriginImport", SenderName: v.SenderName}
	default:
		return nil
	}
}
