package text

import (
	"github.com/gotd/td/tg"

	"telegram-reply-tracker/internal/domain"
)

// Resolver преобразует сетевые сущности в доменные. Упоминания, которые
// нельзя разрешить в идентификатор пользователя, отбрасываются.
type Resolver struct{}

// NewResolver создает новый экземпляр Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Entities реализует ports.EntityResolver.
func (r *Resolver) Entities(entities []tg.MessageEntityClass) []domain.MessageEntity {
	if len(entities) == 0 {
		return nil
	}

	out := make([]domain.MessageEntity, 0, len(entities))
	for _, entity := range entities {
		if entity == nil {
			continue
		}
		e := domain.MessageEntity{
			Offset: int32(entity.GetOffset()),
			Length: int32(entity.GetLength()),
		}
		switch v := entity.(type) {
		case *tg.MessageEntityBold:
			e.Type = domain.EntityBold
		case *tg.MessageEntityItalic:
			e.Type = domain.EntityItalic
		case *tg.MessageEntityUnderline:
			e.Type = domain.EntityUnderline
		case *tg.MessageEntityStrike:
			e.Type = domain.EntityStrikethrough
		case *tg.MessageEntitySpoiler:
			e.Type = domain.EntitySpoiler
		case *tg.MessageEntityCustomEmoji:
			e.Type = domain.EntityCustomEmoji
			e.CustomEmojiID = v.DocumentID
		case *tg.MessageEntityCode:
			e.Type = domain.EntityCode
		case *tg.MessageEntityPre:
			e.Type = domain.EntityPre
			if v.Language != "" {
				e.Type = domain.EntityPreCode
				e.Argument = v.Language
			}
		case *tg.MessageEntityBlockquote:
			e.Type = domain.EntityBlockquote
			if v.GetCollapsed() {
				e.Type = domain.EntityExpandableBlockquote
			}
		case *tg.MessageEntityURL:
			e.Type = domain.EntityURL
		case *tg.MessageEntityTextURL:
			e.Type = domain.EntityTextURL
			e.Argument = v.URL
		case *tg.MessageEntityEmail:
			e.Type = domain.EntityEmail
		case *tg.MessageEntityPhone:
			e.Type = domain.EntityPhoneNumber
		case *tg.MessageEntityMention:
			e.Type = domain.EntityMention
		case *tg.MessageEntityMentionName:
			e.Type = domain.EntityMentionName
			e.UserID = domain.UserID(v.UserID)
		case *tg.InputMessageEntityMentionName:
			user, ok := v.UserID.(*tg.InputUser)
			if !ok {
				continue
			}
			e.Type = domain.EntityMentionName
			e.UserID = domain.UserID(user.UserID)
		case *tg.MessageEntityHashtag:
			e.Type = domain.EntityHashtag
		case *tg.MessageEntityCashtag:
			e.Type = domain.EntityCashtag
		case *tg.MessageEntityBotCommand:
			e.Type = domain.EntityBotCommand
		case *tg.MessageEntityBankCard:
			e.Type = domain.EntityBankCardNumber
		default:
			continue
		}
		if e.Type == domain.EntityMentionName && e.UserID <= 0 {
			continue
		}
		out = append(out, e)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
