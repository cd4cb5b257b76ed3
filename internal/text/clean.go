package text

import "strings"

// isDisallowedRune сообщает, что символ нельзя хранить в пользовательском
// тексте: управляющие символы, кроме табуляции и перевода строки, и символы
// явного переопределения направления письма.
func isDisallowedRune(r rune) bool {
	switch {
	case r == '\t' || r == '\n':
		return false
	case r < 0x20 || r == 0x7f:
		return true
	case r >= 0x202a && r <= 0x202e:
		return true
	case r >= 0x2066 && r <= 0x2069:
		return true
	default:
		return false
	}
}

// Clean выполняет очистку строки: удаляет некорректные UTF-8 последовательности
// и запрещённые символы. Второе значение false, если от строки ничего не
// осталось.
func Clean(s string) (string, bool) {
	s = strings.ToValidUTF8(s, "")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isDisallowedRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	result := b.String()
	return result, result != ""
}
