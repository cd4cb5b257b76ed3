package reply

import (
	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/ports"
	"telegram-reply-tracker/internal/text"
)

// isAllowedQuoteEntity сообщает, можно ли показывать сущность внутри цитаты.
func isAllowedQuoteEntity(t domain.EntityType) bool {
	switch t {
	case domain.EntityBold, domain.EntityItalic, domain.EntityUnderline,
		domain.EntityStrikethrough, domain.EntitySpoiler, domain.EntityCustomEmoji:
		return true
	default:
		return false
	}
}

// RemoveUnallowedQuoteEntities возвращает текст только с сущностями,
// допустимыми в цитате.
func RemoveUnallowedQuoteEntities(t domain.FormattedText) domain.FormattedText {
	result := domain.FormattedText{Text: t.Text}
	for _, e := range t.Entities {
		if isAllowedQuoteEntity(e.Type) {
			result.Entities = append(result.Entities, e)
		}
	}
	return result
}

// sanitizeQuote проверяет цитату в строгом режиме. При ошибке проверки
// сущности отбрасываются, а текст очищается; ошибка возвращается только
// для диагностики, результат пригоден к использованию всегда.
func sanitizeQuote(fixer ports.TextFixer, s string, entities []domain.MessageEntity) (domain.FormattedText, error) {
	quote, err := fixer.Fix(s, entities)
	if err != nil {
		cleaned, ok := text.Clean(s)
		if !ok {
			cleaned = ""
		}
		quote = domain.FormattedText{Text: cleaned}
	}
	return RemoveUnallowedQuoteEntities(quote), err
}
