// Package reply описывает сведения о сообщении, на которое отвечает другое
// сообщение: разбор сетевого заголовка ответа, построение из локального
// намерения ответить, проверку существенности изменений и преобразование в
// клиентское представление.
//
// Info — неизменяемое значение. Любое новое состояние строится заново через
// Parser или Builder и сравнивается со старым через NeedReplyChangedWarning.
package reply

import (
	"fmt"
	"strings"

	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/ports"
)

// Info — сведения об ответе. Нулевое значение означает отсутствие ответа.
type Info struct {
	messageID     domain.MessageID
	dialogID      domain.DialogID
	originDate    int32
	origin        domain.Origin
	content       domain.Content
	quote         domain.FormattedText
	quotePosition int32
	isQuoteManual bool
}

// MessageID возвращает идентификатор сообщения, на которое отвечают.
func (i Info) MessageID() domain.MessageID { return i.messageID }

// DialogID возвращает диалог сообщения; 0 означает чат самого сообщения.
func (i Info) DialogID() domain.DialogID { return i.dialogID }

// OriginDate возвращает дату исходного сообщения.
func (i Info) OriginDate() int32 { return i.originDate }

// Origin возвращает источник внешнего сообщения или nil.
func (i Info) Origin() domain.Origin { return i.origin }

// Content возвращает содержимое внешнего сообщения. Содержимое принадлежит
// Info и не должно изменяться вызывающим.
func (i Info) Content() domain.Content { return i.content }

// Quote возвращает копию цитаты.
func (i Info) Quote() domain.FormattedText { return i.quote.Clone() }

func (i Info) QuotePosition() int32 { return i.quotePosition }

func (i Info) IsQuoteManual() bool { return i.isQuoteManual }

// IsExternal сообщает, что ответ адресован сообщению, известному только
// по пересланным сведениям.
func (i Info) IsExternal() bool {
	return i.origin != nil
}

// IsEmpty сообщает, что сведения об ответе отсутствуют.
func (i Info) IsEmpty() bool {
	return i.messageID == 0 && i.dialogID == 0 && i.originDate == 0 && i.origin == nil &&
		i.content == nil && i.quote.IsEmpty() && i.quotePosition == 0 && !i.isQuoteManual
}

// Clone возвращает копию, владеющую собственной копией содержимого.
func (i Info) Clone(layer ports.ContentLayer) Info {
	result := i
	result.quote = i.quote.Clone()
	if i.content != nil {
		result.content = layer.Duplicate(i.content)
	}
	return result
}

// Equal сравнивает сведения об ответе. Содержимое сравнивается слоем
// содержимого; любое отличие, включая требующее обновления, делает
// значения неравными.
func Equal(a, b Info, layer ports.ContentLayer) bool {
	if a.messageID != b.messageID || a.dialogID != b.dialogID || a.originDate != b.originDate ||
		a.origin != b.origin || !a.quote.Equal(b.quote) || a.quotePosition != b.quotePosition ||
		a.isQuoteManual != b.isQuoteManual {
		return false
	}
	if a.content == nil || b.content == nil {
		return a.content == nil && b.content == nil
	}
	changed, needUpdate := layer.Compare(a.content, b.content)
	return !changed && !needUpdate
}

// NeedsRefetch сообщает, что содержимое устарело и сообщение стоит
// запросить заново.
func (i Info) NeedsRefetch(layer ports.ContentLayer) bool {
	return i.content != nil && layer.NeedsRefetch(i.content)
}

func (i Info) FileIDs(layer ports.ContentLayer) []domain.FileID {
	if i.content == nil {
		return nil
	}
	return layer.FileIDs(i.content)
}

// MinUserIDs возвращает пользователей, которых нужно знать для показа ответа.
func (i Info) MinUserIDs(layer ports.ContentLayer) []domain.UserID {
	var ids []domain.UserID
	if id := i.dialogID.UserID(); id != 0 {
		ids = append(ids, id)
	}
	ids = append(ids, domain.OriginUserIDs(i.origin)...)
	if i.content != nil {
		ids = append(ids, layer.MinUserIDs(i.content)...)
	}
	return ids
}

// MinChannelIDs возвращает каналы, которые нужно знать для показа ответа.
func (i Info) MinChannelIDs(layer ports.ContentLayer) []domain.ChannelID {
	var ids []domain.ChannelID
	if id := i.dialogID.ChannelID(); id != 0 {
		ids = append(ids, id)
	}
	ids = append(ids, domain.OriginChannelIDs(i.origin)...)
	if i.content != nil {
		ids = append(ids, layer.MinChannelIDs(i.content)...)
	}
	return ids
}

// AddDependencies добавляет в deps всё, что нужно клиенту для показа ответа.
func (i Info) AddDependencies(deps *domain.Dependencies, layer ports.ContentLayer, isBot bool) {
	deps.AddDialog(i.dialogID)
	for _, id := range domain.OriginDialogIDs(i.origin) {
		deps.AddDialog(id)
	}
	deps.AddFormattedText(i.quote)
	if i.content != nil {
		layer.AddDependencies(deps, i.content, isBot)
	}
}

// RegisterContent подписывает содержимое на обновления.
func (i Info) RegisterContent(layer ports.ContentLayer) {
	if i.content != nil {
		layer.Register(i.content)
	}
}

// UnregisterContent отменяет подписку содержимого на обновления.
func (i Info) UnregisterContent(layer ports.ContentLayer) {
	if i.content != nil {
		layer.Unregister(i.content)
	}
}

// InputReplyTo возвращает намерение ответить, из которого можно заново
// построить эти сведения. Для внешних ответов возвращается пустое значение.
func (i Info) InputReplyTo() InputReplyTo {
	if i.IsExternal() || !i.messageID.IsValid() {
		return InputReplyTo{}
	}
	return InputReplyTo{
		MessageID:     i.messageID,
		DialogID:      i.dialogID,
		Quote:         i.quote.Clone(),
		QuotePosition: i.quotePosition,
	}
}

// SameChatReplyToMessageID возвращает идентификатор сообщения, если ответ
// адресован сообщению того же чата.
func (i Info) SameChatReplyToMessageID(ignoreExternal bool) domain.MessageID {
	if i.messageID == 0 || (ignoreExternal && i.origin != nil) || i.dialogID != 0 {
		return 0
	}
	return i.messageID
}

// ReplyMessageFullID возвращает полный идентификатор сообщения, на которое
// отвечают; owner используется, если ответ адресован тому же чату.
func (i Info) ReplyMessageFullID(owner domain.DialogID, ignoreExternal bool) domain.MessageFullID {
	if i.messageID == 0 || (ignoreExternal && i.origin != nil) {
		return domain.MessageFullID{}
	}
	dialogID := owner
	if i.dialogID.IsValid() {
		dialogID = i.dialogID
	}
	return domain.MessageFullID{DialogID: dialogID, MessageID: i.messageID}
}

func (i Info) String() string {
	var b strings.Builder
	b.WriteString("reply to ")
	b.WriteString(i.messageID.String())
	if i.dialogID != 0 {
		fmt.Fprintf(&b, " in %s", i.dialogID)
	}
	if i.originDate != 0 {
		fmt.Fprintf(&b, " sent at %d", i.originDate)
	}
	if i.origin != nil {
		fmt.Fprintf(&b, " from %s", i.origin)
	}
	if i.content != nil {
		fmt.Fprintf(&b, " and content of the type %s", i.content.Type())
	}
	if !i.quote.IsEmpty() {
		fmt.Fprintf(&b, " with %d quote characters at position %d", len(i.quote.Text), i.quotePosition)
		if i.isQuoteManual {
			b.WriteString(" chosen manually")
		}
	}
	return b.String()
}
