package ports

import (
	"context"

	"telegram-reply-tracker/internal/domain"
)

// DataSource определяет интерфейс для получения исходных данных запроса.
type DataSource interface {
	// Fetch загружает данные из источника и возвращает их в виде байтового среза.
	Fetch() ([]byte, error)
}

// Parser определяет интерфейс для разбора ответа API.
type Parser interface {
	// Parse преобразует сырые данные в структурированный ответ.
	Parse(data []byte) (*domain.ReplyResponse, error)
}

// Exporter определяет интерфейс для вывода результата.
type Exporter interface {
	// Export принимает ответ API и выводит его.
	Export(resp *domain.ReplyResponse) error
}

// ContentLayer — внешний слой содержимого сообщений. Модель ответа только
// вызывает эти примитивы и не реализует их сама.
type ContentLayer interface {
	// Duplicate возвращает глубокую копию содержимого.
	Duplicate(c domain.Content) domain.Content
	// Compare сообщает, изменилось ли содержимое и нужно ли обновление.
	Compare(old, new domain.Content) (changed, needUpdate bool)
	// NeedsRefetch сообщает, что содержимое устарело и его стоит перезапросить.
	NeedsRefetch(c domain.Content) bool
	FileIDs(c domain.Content) []domain.FileID
	MinUserIDs(c domain.Content) []domain.UserID
	MinChannelIDs(c domain.Content) []domain.ChannelID
	AddDependencies(deps *domain.Dependencies, c domain.Content, isBot bool)
	Register(c domain.Content)
	Unregister(c domain.Content)
	// MutableText возвращает указатель на текст или подпись содержимого,
	// либо nil, если у содержимого нет текста.
	MutableText(c domain.Content) *domain.FormattedText
	ToClient(c domain.Content, dialogID domain.DialogID) *domain.ClientMessageContent
}

// TextFixer проверяет и нормализует форматированный текст в строгом режиме.
type TextFixer interface {
	Fix(text string, entities []domain.MessageEntity) (domain.FormattedText, error)
}

// ForwardedMessageLookup находит сведения о сообщении другого чата.
type ForwardedMessageLookup interface {
	ForwardedMessageInfo(id domain.MessageFullID) (domain.ForwardedMessageInfo, bool)
}

// ChangeNotifier доставляет события о существенных изменениях ответа.
type ChangeNotifier interface {
	NotifyReplyChanged(ctx context.Context, event domain.ReplyChangedEvent) error
}

// ReplyMetrics собирает метрики обработки ответов.
type ReplyMetrics interface {
	ObserveParsed(source string)
	ObserveDiagnostic(kind string)
	ObserveChange(changed bool)
}
