package reply

import (
	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/ports"
	"telegram-reply-tracker/internal/text"
)

// InputReplyTo — локальное намерение ответить на сообщение.
type InputReplyTo struct {
	MessageID domain.MessageID `json:"message_id"`
	// DialogID задаёт чат сообщения; 0 означает чат самого ответа.
	DialogID      domain.DialogID      `json:"chat_id,omitempty"`
	Quote         domain.FormattedText `json:"quote"`
	QuotePosition int32                `json:"quote_position"`
}

// Builder строит Info из локального намерения ответить.
type Builder struct {
	content        ports.ContentLayer
	forwards       ports.ForwardedMessageLookup
	quoteLengthMax int
}

// NewBuilder создает новый экземпляр Builder. quoteLengthMax ограничивает
// длину автоматической цитаты в UTF-16 кодовых единицах.
func NewBuilder(content ports.ContentLayer, forwards ports.ForwardedMessageLookup, quoteLengthMax int) *Builder {
	return &Builder{
		content:        content,
		forwards:       forwards,
		quoteLengthMax: quoteLengthMax,
	}
}

// FromInput строит сведения об ответе. Ответ на сообщение другого чата
// возможен, только если о сообщении известны пересланные сведения; иначе
// возвращается пустое значение.
func (b *Builder) FromInput(in InputReplyTo) Info {
	if !in.MessageID.IsValid() {
		return Info{}
	}

	info := Info{messageID: in.MessageID}
	if !in.Quote.IsEmpty() {
		info.quote = in.Quote.Clone()
		info.quotePosition = max(0, in.QuotePosition)
		info.isQuoteManual = true
	}
	if in.DialogID == 0 {
		return info
	}

	fwd, ok := b.forwards.ForwardedMessageInfo(domain.MessageFullID{DialogID: in.DialogID, MessageID: in.MessageID})
	if !ok || fwd.OriginDate == 0 || fwd.Origin == nil || fwd.Content == nil {
		return Info{}
	}
	info.originDate = fwd.OriginDate
	info.origin = fwd.Origin
	info.content = b.content.Duplicate(fwd.Content)

	if contentText := b.content.MutableText(info.content); contentText != nil {
		if !info.isQuoteManual {
			info.quote = text.Truncate(RemoveUnallowedQuoteEntities(*contentText), b.quoteLengthMax)
		}
		*contentText = domain.FormattedText{}
	}
	if !domain.IsSupportedForReply(info.content.Type()) {
		info.content = nil
	}

	originID := domain.OriginMessageFullID(info.origin)
	switch {
	case originID.MessageID.IsValid():
		info.messageID = originID.MessageID
		info.dialogID = originID.DialogID
	case in.DialogID.Type() == domain.DialogTypeChannel:
		info.messageID = 0
		info.dialogID = in.DialogID
	default:
		info.messageID = 0
	}
	return info
}
