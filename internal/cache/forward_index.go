package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/ports"
)

// ForwardIndex — ограниченный по размеру индекс пересланных сведений о
// сообщениях других чатов. Реализует ports.ForwardedMessageLookup.
// Содержимое копируется при записи и при чтении, поэтому индекс никогда не
// разделяет его с вызывающим.
type ForwardIndex struct {
	cache *lru.Cache[domain.MessageFullID, domain.ForwardedMessageInfo]
	layer ports.ContentLayer
}

// NewForwardIndex создает новый индекс на size записей.
func NewForwardIndex(size int, layer ports.ContentLayer) (*ForwardIndex, error) {
	cache, err := lru.New[domain.MessageFullID, domain.ForwardedMessageInfo](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create forward index: %w", err)
	}
	return &ForwardIndex{cache: cache, layer: layer}, nil
}

// Put сохраняет сведения о сообщении.
func (f *ForwardIndex) Put(id domain.MessageFullID, info domain.ForwardedMessageInfo) {
	info.Content = f.layer.Duplicate(info.Content)
	f.cache.Add(id, info)
}

// ForwardedMessageInfo возвращает копию сохранённых сведений.
func (f *ForwardIndex) ForwardedMessageInfo(id domain.MessageFullID) (domain.ForwardedMessageInfo, bool) {
	info, ok := f.cache.Get(id)
	if !ok {
		return domain.ForwardedMessageInfo{}, false
	}
	info.Content = f.layer.Duplicate(info.Content)
	return info, true
}

// Remove удаляет сведения о сообщении.
func (f *ForwardIndex) Remove(id domain.MessageFullID) {
	f.cache.Remove(id)
}

func (f *ForwardIndex) Len() int {
	return f.cache.Len()
}
