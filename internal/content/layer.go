// Package content реализует слой содержимого сообщений: копирование,
// сравнение, извлечение ссылок, регистрацию для получения обновлений и
// преобразование в клиентское представление.
package content

import (
	"bytes"
	"log/slog"
	"reflect"
	"sync"

	"telegram-reply-tracker/internal/domain"
)

// registryKey определяет объект, обновления которого нужно получать,
// пока на него ссылается хотя бы одно содержимое.
type registryKey struct {
	kind     domain.ContentType
	dialogID domain.DialogID
	id       int64
}

// Option — функциональная опция для настройки Layer.
type Option func(*Layer)

// WithLogger устанавливает логгер для слоя.
func WithLogger(l *slog.Logger) Option {
	return func(layer *Layer) {
		if l != nil {
			layer.log = l
		}
	}
}

// Layer реализует ports.ContentLayer и ports.MediaContentBuilder.
// Безопасен для одновременного использования.
type Layer struct {
	mu         sync.Mutex
	registered map[registryKey]int
	log        *slog.Logger
}

// NewLayer создает новый экземпляр Layer.
func NewLayer(opts ...Option) *Layer {
	l := &Layer{
		registered: make(map[registryKey]int),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Duplicate возвращает глубокую копию содержимого.
func (l *Layer) Duplicate(c domain.Content) domain.Content {
	switch v := c.(type) {
	case nil:
		return nil
	case *domain.TextContent:
		dup := &domain.TextContent{Text: v.Text.Clone()}
		if v.WebPage != nil {
			page := *v.WebPage
			dup.WebPage = &page
		}
		return dup
	case *domain.PhotoContent:
		dup := *v
		dup.Photo.FileReference = bytes.Clone(v.Photo.FileReference)
		dup.Caption = v.Caption.Clone()
		return &dup
	case *domain.DocumentContent:
		dup := *v
		dup.Document.FileReference = bytes.Clone(v.Document.FileReference)
		dup.Caption = v.Caption.Clone()
		return &dup
	case *domain.ContactContent:
		dup := *v
		return &dup
	case *domain.LocationContent:
		dup := *v
		return &dup
	case *domain.VenueContent:
		dup := *v
		return &dup
	case *domain.PollContent:
		dup := *v
		return &dup
	case *domain.DiceContent:
		dup := *v
		return &dup
	case *domain.GameContent:
		dup := *v
		return &dup
	case *domain.InvoiceContent:
		dup := *v
		return &dup
	case *domain.StoryContent:
		dup := *v
		return &dup
	case *domain.ExpiredContent:
		dup := *v
		return &dup
	case *domain.UnsupportedContent:
		dup := *v
		return &dup
	default:
		l.log.Warn("Duplicating content of unknown type", "type", c.Type())
		return &domain.UnsupportedContent{}
	}
}

// Compare сравнивает два содержимых. changed означает видимое изменение,
// needUpdate — изменение, требующее сохранения, но не показа (например,
// обновлённую ссылку на файл).
func (l *Layer) Compare(a, b domain.Content) (changed, needUpdate bool) {
	if a == nil || b == nil {
		return (a == nil) != (b == nil), false
	}
	if a.Type() != b.Type() {
		return true, false
	}

	switch x := a.(type) {
	case *domain.TextContent:
		y := b.(*domain.TextContent)
		changed = !x.Text.Equal(y.Text) || !webPagesEqual(x.WebPage, y.WebPage)
	case *domain.PhotoContent:
		y := b.(*domain.PhotoContent)
		changed = x.Photo.ID != y.Photo.ID || !x.Caption.Equal(y.Caption) || x.HasSpoiler != y.HasSpoiler
		needUpdate = x.Photo.AccessHash != y.Photo.AccessHash ||
			!bytes.Equal(x.Photo.FileReference, y.Photo.FileReference) || x.Photo.Date != y.Photo.Date
	case *domain.DocumentContent:
		y := b.(*domain.DocumentContent)
		changed = x.Document.ID != y.Document.ID || !x.Caption.Equal(y.Caption) ||
			x.Document.MimeType != y.Document.MimeType || x.Document.FileName != y.Document.FileName
		needUpdate = x.Document.AccessHash != y.Document.AccessHash ||
			!bytes.Equal(x.Document.FileReference, y.Document.FileReference) || x.Document.Size != y.Document.Size
	default:
		changed = !reflect.DeepEqual(a, b)
	}
	return changed, needUpdate
}

func webPagesEqual(a, b *domain.WebPage) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// NeedsRefetch сообщает, что содержимое получено в устаревшей схеме.
func (l *Layer) NeedsRefetch(c domain.Content) bool {
	v, ok := c.(*domain.UnsupportedContent)
	return ok && v.Version < domain.CurrentUnsupportedVersion
}

// FileIDs возвращает файлы, на которые ссылается содержимое.
func (l *Layer) FileIDs(c domain.Content) []domain.FileID {
	switch v := c.(type) {
	case *domain.PhotoContent:
		return []domain.FileID{domain.FileID(v.Photo.ID)}
	case *domain.DocumentContent:
		return []domain.FileID{domain.FileID(v.Document.ID)}
	default:
		return nil
	}
}

// MinUserIDs возвращает пользователей, упомянутых в содержимом.
func (l *Layer) MinUserIDs(c domain.Content) []domain.UserID {
	switch v := c.(type) {
	case *domain.ContactContent:
		if v.UserID > 0 {
			return []domain.UserID{v.UserID}
		}
	case *domain.StoryContent:
		if id := v.SenderDialogID.UserID(); id != 0 {
			return []domain.UserID{id}
		}
	}
	return nil
}

// MinChannelIDs возвращает каналы, упомянутые в содержимом.
func (l *Layer) MinChannelIDs(c domain.Content) []domain.ChannelID {
	if v, ok := c.(*domain.StoryContent); ok {
		if id := v.SenderDialogID.ChannelID(); id != 0 {
			return []domain.ChannelID{id}
		}
	}
	return nil
}

// AddDependencies добавляет объекты, нужные для показа содержимого.
func (l *Layer) AddDependencies(deps *domain.Dependencies, c domain.Content, isBot bool) {
	if text := l.MutableText(c); text != nil {
		deps.AddFormattedText(*text)
	}
	switch v := c.(type) {
	case *domain.ContactContent:
		deps.AddUser(v.UserID)
	case *domain.StoryContent:
		if !isBot {
			deps.AddDialog(v.SenderDialogID)
		}
	}
}

func registryKeyFor(c domain.Content) (registryKey, bool) {
	switch v := c.(type) {
	case *domain.PollContent:
		return registryKey{kind: domain.ContentTypePoll, id: v.PollID}, true
	case *domain.StoryContent:
		return registryKey{kind: domain.ContentTypeStory, dialogID: v.SenderDialogID, id: int64(v.StoryID)}, true
	default:
		return registryKey{}, false
	}
}

// Register подписывает содержимое на обновления связанных объектов.
func (l *Layer) Register(c domain.Content) {
	key, ok := registryKeyFor(c)
	if !ok {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.registered[key]++
}

// Unregister отменяет подписку, сделанную Register.
func (l *Layer) Unregister(c domain.Content) {
	key, ok := registryKeyFor(c)
	if !ok {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	count, exists := l.registered[key]
	if !exists {
		l.log.Warn("Unregistering content that was never registered", "type", c.Type(), "id", key.id)
		return
	}
	if count <= 1 {
		delete(l.registered, key)
		return
	}
	l.registered[key] = count - 1
}

// RegisteredCount возвращает количество регистраций объекта, на который
// ссылается содержимое.
func (l *Layer) RegisteredCount(c domain.Content) int {
	key, ok := registryKeyFor(c)
	if !ok {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registered[key]
}

// MutableText возвращает указатель на текст или подпись содержимого.
func (l *Layer) MutableText(c domain.Content) *domain.FormattedText {
	switch v := c.(type) {
	case *domain.TextContent:
		return &v.Text
	case *domain.PhotoContent:
		return &v.Caption
	case *domain.DocumentContent:
		return &v.Caption
	default:
		return nil
	}
}
