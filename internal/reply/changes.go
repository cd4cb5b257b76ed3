package reply

import "telegram-reply-tracker/internal/domain"

// quoteTruncationSlack — запас длины цитаты, в пределах которого
// автоматическая цитата может отличаться из-за разной обрезки.
const quoteTruncationSlack = 70

// ChangeContext — сведения о сообщении-владельце, нужные для оценки
// изменения ответа.
type ChangeContext struct {
	OldTopThreadMessageID domain.MessageID
	IsYetUnsent           bool
	QuoteLengthMax        int
	// IsReplyToDeletedMessage сообщает, что ответ адресован локально
	// удалённому сообщению. nil считается отрицательным ответом.
	IsReplyToDeletedMessage func(Info) bool
}

func (c ChangeContext) isReplyToDeleted(info Info) bool {
	return c.IsReplyToDeletedMessage != nil && c.IsReplyToDeletedMessage(info)
}

func originDateDiffers(a, b Info) bool {
	return a.originDate != b.originDate && a.originDate != 0 && b.originDate != 0
}

// originDiffers сравнивает только известные источники без подписи.
func originDiffers(a, b Info) bool {
	return a.origin != nil && b.origin != nil && a.origin != b.origin &&
		!domain.OriginHasSenderSignature(a.origin) && !domain.OriginHasSenderSignature(b.origin)
}

// NeedReplyChangedWarning сообщает, является ли отличие нового состояния
// ответа от старого существенным изменением, о котором стоит предупредить.
// Правила проверяются по порядку, первое сработавшее определяет результат.
func NeedReplyChangedWarning(oldInfo, newInfo Info, ctx ChangeContext) bool {
	if originDateDiffers(oldInfo, newInfo) {
		// дата исходного сообщения не меняется
		return true
	}
	if originDiffers(oldInfo, newInfo) {
		// в источнике может меняться только подпись
		return true
	}
	if oldInfo.quotePosition != newInfo.quotePosition &&
		int(min(oldInfo.quotePosition, newInfo.quotePosition)) < min(len(oldInfo.quote.Text), len(newInfo.quote.Text)) {
		return true
	}
	if oldInfo.isQuoteManual != newInfo.isQuoteManual {
		return true
	}
	if !oldInfo.quote.Equal(newInfo.quote) {
		if oldInfo.isQuoteManual {
			return true
		}
		// автоматическая цитата меняется только из-за разной обрезки
		maxLen := ctx.QuoteLengthMax - quoteTruncationSlack
		if max(len(oldInfo.quote.Text), len(newInfo.quote.Text)) < maxLen {
			return true
		}
	}
	if oldInfo.dialogID != newInfo.dialogID && oldInfo.dialogID != 0 && newInfo.dialogID != 0 {
		return true
	}
	if oldInfo.messageID == newInfo.messageID && oldInfo.dialogID == newInfo.dialogID {
		// появление даты или источника у того же сообщения изменением не считается
		return oldInfo.messageID != 0 && (originDateDiffers(oldInfo, newInfo) || originDiffers(oldInfo, newInfo))
	}
	if ctx.IsYetUnsent && ctx.isReplyToDeleted(oldInfo) && newInfo.messageID == 0 {
		// сообщение, на которое отвечали, удалено локально
		return false
	}
	if ctx.IsYetUnsent && ctx.isReplyToDeleted(newInfo) && oldInfo.messageID == 0 {
		return false
	}
	if oldInfo.messageID.IsScheduledServer() && newInfo.messageID.IsScheduledServer() &&
		oldInfo.messageID.ScheduledServerID() == newInfo.messageID.ScheduledServerID() {
		// изменилась только дата отправки отложенного сообщения
		return false
	}
	if ctx.IsYetUnsent && ctx.OldTopThreadMessageID == newInfo.messageID && newInfo.dialogID == 0 {
		// ответ перенесён на начало ветки после удаления сообщения
		return false
	}
	return true
}
