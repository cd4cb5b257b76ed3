package reply

import (
	"errors"
	"fmt"

	"github.com/gotd/td/tg"

	"telegram-reply-tracker/internal/domain"
)

// ErrInvalidOrigin возвращается для заголовка пересылки, по которому нельзя
// определить источник сообщения.
var ErrInvalidOrigin = errors.New("invalid message forward header")

// ResolveOrigin определяет источник сообщения по сетевому заголовку
// пересылки. Некорректный отправитель или идентификатор поста
// игнорируются; ошибка возвращается, только если источник не остаётся
// вовсе или отправителем указана обычная группа.
func ResolveOrigin(h tg.MessageFwdHeader) (domain.Origin, error) {
	var sender domain.DialogID
	if peer, ok := h.GetFromID(); ok {
		sender = domain.DialogIDFromPeer(peer)
		if !sender.IsValid() {
			sender = 0
		}
	}

	var messageID domain.MessageID
	if post, ok := h.GetChannelPost(); ok && post != 0 {
		messageID = domain.NewServerMessageID(int32(post))
		if !messageID.IsValid() {
			messageID = 0
		}
	}

	signature, _ := h.GetPostAuthor()
	senderName, _ := h.GetFromName()

	switch sender.Type() {
	case domain.DialogTypeUser:
		return domain.OriginUser{SenderUserID: sender.UserID()}, nil
	case domain.DialogTypeChannel:
		if messageID != 0 {
			return domain.OriginChannel{ChannelDialogID: sender, MessageID: messageID, AuthorSignature: signature}, nil
		}
		return domain.OriginChat{SenderDialogID: sender, AuthorSignature: signature}, nil
	case domain.DialogTypeNone:
		if senderName == "" {
			return nil, fmt.Errorf("%w: no sender", ErrInvalidOrigin)
		}
		if h.GetImported() {
			return domain.OriginImport{SenderName: senderName}, nil
		}
		return domain.OriginHiddenUser{SenderName: senderName}, nil
	default:
		return nil, fmt.Errorf("%w: non-channel sender %s", ErrInvalidOrigin, sender)
	}
}
