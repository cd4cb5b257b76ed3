package reply

import (
	"fmt"

	"github.com/gotd/td/tg"

	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/ports"
)

// Host — сообщение, которому принадлежит заголовок ответа.
type Host struct {
	DialogID  domain.DialogID
	MessageID domain.MessageID
	Date      int32
}

// FullID возвращает полный идентификатор сообщения.
func (h Host) FullID() domain.MessageFullID {
	return domain.MessageFullID{DialogID: h.DialogID, MessageID: h.MessageID}
}

// Env — внешние сведения, нужные для проверки заголовка.
type Env struct {
	// HasGapProneDelivery сообщает, что в диалоге сообщения могут приходить
	// не по порядку идентификаторов. nil считается отрицательным ответом.
	HasGapProneDelivery func(domain.DialogID) bool
}

func (e Env) hasGapProneDelivery(dialogID domain.DialogID) bool {
	return e.HasGapProneDelivery != nil && e.HasGapProneDelivery(dialogID)
}

// GapProneDelivery возвращает проверку для Env: личные диалоги и группы
// получают сообщения не по порядку, когда активно больше одной сессии.
func GapProneDelivery(sessionCount int) func(domain.DialogID) bool {
	return func(dialogID domain.DialogID) bool {
		switch dialogID.Type() {
		case domain.DialogTypeUser, domain.DialogTypeChat:
			return sessionCount > 1
		default:
			return false
		}
	}
}

// Parser строит Info из недоверенного сетевого заголовка ответа.
type Parser struct {
	media    ports.MediaContentBuilder
	entities ports.EntityResolver
	fixer    ports.TextFixer
}

// NewParser создает новый экземпляр Parser.
func NewParser(media ports.MediaContentBuilder, entities ports.EntityResolver, fixer ports.TextFixer) *Parser {
	return &Parser{
		media:    media,
		entities: entities,
		fixer:    fixer,
	}
}

// ParseHeader разбирает заголовок ответа сообщения host. Разбор никогда не
// завершается ошибкой: некорректные поля очищаются, а найденные аномалии
// возвращаются списком диагностик.
func (p *Parser) ParseHeader(header *tg.MessageReplyHeader, host Host, env Env) (Info, []Diagnostic) {
	var (
		info  Info
		diags []Diagnostic
	)
	report := func(kind DiagnosticKind, format string, args ...any) {
		diags = append(diags, Diagnostic{
			Kind:    kind,
			Host:    host.FullID(),
			Target:  domain.MessageFullID{DialogID: info.dialogID, MessageID: info.messageID},
			Details: fmt.Sprintf(format, args...),
		})
	}

	if header == nil {
		report(DiagnosticMissingHeader, "reply header is absent")
		return info, diags
	}

	rawID, _ := header.GetReplyToMsgID()
	peer, hasPeer := header.GetReplyToPeerID()

	if header.GetReplyToScheduled() {
		info.messageID = domain.NewScheduledMessageID(int32(rawID), host.Date)
		if host.MessageID.IsValidScheduled() && info.messageID.IsValidScheduled() {
			if hasPeer {
				info.dialogID = domain.DialogIDFromPeer(peer)
				report(DiagnosticScheduledReplyCrossChat, "scheduled message can't reply to another chat")
				info.messageID = 0
				info.dialogID = 0
			}
			if info.messageID != 0 && info.messageID == host.MessageID {
				report(DiagnosticScheduledSelfReply, "message replies to itself")
				info.messageID = 0
			}
		} else {
			report(DiagnosticScheduledReplyInvalid, "scheduled reply to %d sent at %d", rawID, host.Date)
			info.messageID = 0
		}
		_, hasFrom := header.GetReplyFrom()
		_, hasMedia := header.GetReplyMedia()
		if hasFrom || hasMedia {
			report(DiagnosticScheduledReplyExternal, "scheduled reply carries reply_from or reply_media")
		}
	} else {
		p.parseTarget(&info, rawID, peer, hasPeer, host, env, report)
		p.parseOrigin(&info, header, host, report)
	}

	quoteText, _ := header.GetQuoteText()
	if (info.origin != nil || info.messageID != 0) && quoteText != "" {
		quoteEntities, _ := header.GetQuoteEntities()
		quote, err := sanitizeQuote(p.fixer, quoteText, p.entities.Entities(quoteEntities))
		if err != nil {
			report(DiagnosticQuoteSanitized, "quote entities dropped: %v", err)
		}
		offset, _ := header.GetQuoteOffset()
		info.quote = quote
		info.quotePosition = int32(max(0, offset))
		info.isQuoteManual = header.GetQuote()
	}

	return info, diags
}

func (p *Parser) parseTarget(
	info *Info,
	rawID int,
	peer tg.PeerClass,
	hasPeer bool,
	host Host,
	env Env,
	report func(DiagnosticKind, string, ...any),
) {
	if rawID == 0 {
		if hasPeer {
			report(DiagnosticPeerWithoutTarget, "reply_to_peer_id %s without reply_to_msg_id", domain.DialogIDFromPeer(peer))
		}
		return
	}

	info.messageID = domain.NewServerMessageID(int32(rawID))
	if hasPeer {
		info.dialogID = domain.DialogIDFromPeer(peer)
		if !info.dialogID.IsValid() {
			report(DiagnosticInvalidReplyPeer, "reply in invalid peer %s", peer)
			info.messageID = 0
			info.dialogID = 0
			return
		}
	}

	switch {
	case !info.messageID.IsValid():
		report(DiagnosticInvalidReplyTarget, "invalid reply_to_msg_id %d", rawID)
		info.messageID = 0
		info.dialogID = 0
	case !host.MessageID.IsScheduled() && info.dialogID == 0 &&
		((info.messageID > host.MessageID && !env.hasGapProneDelivery(host.DialogID)) || info.messageID == host.MessageID):
		report(DiagnosticOutOfOrderReply, "reply to a message that can't precede the host")
		info.messageID = 0
	}
}

func (p *Parser) parseOrigin(info *Info, header *tg.MessageReplyHeader, host Host, report func(DiagnosticKind, string, ...any)) {
	from, ok := header.GetReplyFrom()
	if ok {
		info.originDate = int32(from.GetDate())
		if info.originDate <= 0 {
			report(DiagnosticInvalidOriginDate, "reply_from date %d", info.originDate)
			info.originDate = 0
		} else {
			origin, err := ResolveOrigin(from)
			if err != nil {
				report(DiagnosticInvalidOrigin, "%v", err)
				info.originDate = 0
			} else {
				info.origin = origin
			}
		}
	}

	media, ok := header.GetReplyMedia()
	if info.origin == nil || !ok {
		return
	}
	if _, empty := media.(*tg.MessageMediaEmpty); empty {
		return
	}
	content := p.media.FromMedia(media, host.DialogID, info.originDate)
	if content == nil {
		return
	}
	if !domain.IsSupportedForReply(content.Type()) {
		report(DiagnosticUnsupportedReplyMedia, "reply media of the type %s", content.Type())
		return
	}
	info.content = content
}
