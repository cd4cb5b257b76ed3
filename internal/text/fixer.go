package text

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"telegram-reply-tracker/internal/domain"
)

var (
	// ErrInvalidUTF8 возвращается для текста с некорректной кодировкой.
	ErrInvalidUTF8 = errors.New("text must be encoded in UTF-8")
	// ErrDisallowedCharacter возвращается для текста с управляющими символами.
	ErrDisallowedCharacter = errors.New("text contains disallowed characters")
	// ErrEntityBounds возвращается для сущности за пределами текста.
	ErrEntityBounds = errors.New("entity is out of text bounds")
	// ErrEntityOverlap возвращается для частично пересекающихся сущностей.
	ErrEntityOverlap = errors.New("entities overlap")
	// ErrEntityNesting возвращается для недопустимой вложенности сущностей.
	ErrEntityNesting = errors.New("unsupported entity nesting")
)

// Fixer реализует строгую проверку форматированного текста: любая
// неоднозначность приводит к ошибке, а не к молчаливому исправлению.
type Fixer struct{}

// NewFixer создает новый экземпляр Fixer.
func NewFixer() *Fixer {
	return &Fixer{}
}

// Fix проверяет текст и возвращает его с сущностями, упорядоченными по
// смещению.
func (f *Fixer) Fix(s string, entities []domain.MessageEntity) (domain.FormattedText, error) {
	if !utf8.ValidString(s) {
		return domain.FormattedText{}, ErrInvalidUTF8
	}
	for i, r := range s {
		if isDisallowedRune(r) {
			return domain.FormattedText{}, fmt.Errorf("%w: U+%04X at byte %d", ErrDisallowedCharacter, r, i)
		}
	}

	sorted := make([]domain.MessageEntity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Offset != sorted[j].Offset {
			return sorted[i].Offset < sorted[j].Offset
		}
		return sorted[i].Length > sorted[j].Length
	})

	length := int32(UTF16Len(s))
	var open []domain.MessageEntity
	for _, e := range sorted {
		if e.Offset < 0 || e.Length <= 0 || e.End() > length {
			return domain.FormattedText{}, fmt.Errorf("%w: %s [%d, %d) in text of length %d", ErrEntityBounds, e.Type, e.Offset, e.End(), length)
		}
		for len(open) > 0 && open[len(open)-1].End() <= e.Offset {
			open = open[:len(open)-1]
		}
		if len(open) > 0 {
			parent := open[len(open)-1]
			if e.End() > parent.End() {
				return domain.FormattedText{}, fmt.Errorf("%w: %s and %s", ErrEntityOverlap, parent.Type, e.Type)
			}
			if !canContain(parent.Type, e.Type) {
				return domain.FormattedText{}, fmt.Errorf("%w: %s inside %s", ErrEntityNesting, e.Type, parent.Type)
			}
		}
		open = append(open, e)
	}

	if len(sorted) == 0 {
		sorted = nil
	}
	return domain.FormattedText{Text: s, Entities: sorted}, nil
}

func isCode(t domain.EntityType) bool {
	return t == domain.EntityCode || t == domain.EntityPre || t == domain.EntityPreCode
}

func isBlockquote(t domain.EntityType) bool {
	return t == domain.EntityBlockquote || t == domain.EntityExpandableBlockquote
}

func isLink(t domain.EntityType) bool {
	switch t {
	case domain.EntityURL, domain.EntityTextURL, domain.EntityEmail, domain.EntityPhoneNumber,
		domain.EntityMention, domain.EntityMentionName, domain.EntityHashtag, domain.EntityCashtag,
		domain.EntityBotCommand, domain.EntityBankCardNumber:
		return true
	default:
		return false
	}
}

func canContain(parent, child domain.EntityType) bool {
	switch {
	case isCode(parent), parent == domain.EntityCustomEmoji:
		return false
	case isBlockquote(child):
		return false
	case isLink(parent):
		return !isLink(child) && !isCode(child)
	default:
		return true
	}
}
