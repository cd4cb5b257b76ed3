// Package text содержит примитивы работы с форматированным текстом Telegram:
// длины в UTF-16, обрезку, очистку строк, строгую проверку сущностей и
// преобразование сущностей из сетевого представления.
package text

import (
	"unicode/utf8"

	"telegram-reply-tracker/internal/domain"
)

// UTF16Len возвращает длину строки в UTF-16 кодовых единицах.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUTF16Len(r)
	}
	return n
}

func runeUTF16Len(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}

// Truncate обрезает текст до limit UTF-16 кодовых единиц, не разрывая
// суррогатные пары. Сущности за границей удаляются, пересекающие её —
// укорачиваются.
func Truncate(t domain.FormattedText, limit int) domain.FormattedText {
	if limit < 0 {
		limit = 0
	}
	units, cut := 0, len(t.Text)
	for i, r := range t.Text {
		size := runeUTF16Len(r)
		if units+size > limit {
			cut = i
			break
		}
		units += size
	}
	if cut == len(t.Text) {
		return t.Clone()
	}

	result := domain.FormattedText{Text: t.Text[:cut]}
	end := int32(units)
	for _, e := range t.Entities {
		if e.Offset >= end {
			continue
		}
		if e.End() > end {
			e.Length = end - e.Offset
		}
		result.Entities = append(result.Entities, e)
	}
	return result
}
