package cache

import (
	"context"
	"sync"
	"time"

	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/reply"
)

// Snapshot — сохранённое состояние ответа сообщения вместе с контекстом,
// нужным для оценки его изменений.
type Snapshot struct {
	Info               reply.Info
	TopThreadMessageID domain.MessageID
	IsYetUnsent        bool
	ExpiresAt          time.Time
}

// SnapshotStore хранит последние сведения об ответах сообщений. Обновление
// выполняется под блокировкой, поэтому старое и новое состояние одного
// сообщения сравниваются без гонок. Множество удалённых сообщений защищено
// отдельной блокировкой и доступно из функции обновления.
type SnapshotStore struct {
	items        map[domain.MessageFullID]*Snapshot
	deleted      map[domain.MessageFullID]time.Time
	ttl          time.Duration
	mutex        sync.RWMutex
	deletedMutex sync.RWMutex
}

// NewSnapshotStore создает новый экземпляр SnapshotStore. Записи хранятся
// ttl с момента последнего обновления.
func NewSnapshotStore(ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		items:   make(map[domain.MessageFullID]*Snapshot),
		deleted: make(map[domain.MessageFullID]time.Time),
		ttl:     ttl,
	}
}

// Get извлекает снимок по идентификатору сообщения.
func (s *SnapshotStore) Get(id domain.MessageFullID) (Snapshot, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.items[id]
	if !exists || time.Now().After(item.ExpiresAt) {
		return Snapshot{}, false
	}
	return *item, true
}

// Update заменяет снимок результатом fn. fn получает предыдущий снимок и
// признак его наличия и вызывается под блокировкой хранилища.
func (s *SnapshotStore) Update(id domain.MessageFullID, fn func(prev Snapshot, exists bool) Snapshot) Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var prev Snapshot
	item, exists := s.items[id]
	if exists && !time.Now().After(item.ExpiresAt) {
		prev = *item
	} else {
		exists = false
	}

	next := fn(prev, exists)
	next.ExpiresAt = time.Now().Add(s.ttl)
	s.items[id] = &next
	return next
}

// Delete удаляет снимок и возвращает его.
func (s *SnapshotStore) Delete(id domain.MessageFullID) (Snapshot, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	item, exists := s.items[id]
	if !exists {
		return Snapshot{}, false
	}
	delete(s.items, id)
	return *item, true
}

// MarkDeleted запоминает, что сообщение удалено локально.
func (s *SnapshotStore) MarkDeleted(id domain.MessageFullID) {
	s.deletedMutex.Lock()
	defer s.deletedMutex.Unlock()
	s.deleted[id] = time.Now().Add(s.ttl)
}

// IsDeleted сообщает, было ли сообщение удалено локально.
func (s *SnapshotStore) IsDeleted(id domain.MessageFullID) bool {
	s.deletedMutex.RLock()
	defer s.deletedMutex.RUnlock()

	expiresAt, exists := s.deleted[id]
	return exists && !time.Now().After(expiresAt)
}

// Len возвращает количество хранимых снимков, включая просроченные.
func (s *SnapshotStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.items)
}

// CleanupExpired удаляет просроченные записи и возвращает удалённые снимки,
// чтобы владелец мог освободить связанные с ними ресурсы.
func (s *SnapshotStore) CleanupExpired() map[domain.MessageFullID]Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	evicted := make(map[domain.MessageFullID]Snapshot)
	for id, item := range s.items {
		if now.After(item.ExpiresAt) {
			evicted[id] = *item
			delete(s.items, id)
		}
	}

	s.deletedMutex.Lock()
	defer s.deletedMutex.Unlock()
	for id, expiresAt := range s.deleted {
		if now.After(expiresAt) {
			delete(s.deleted, id)
		}
	}
	return evicted
}

// StartCleanupTicker запускает периодическую очистку просроченных записей.
// onEvict вызывается для каждого удалённого снимка и может быть nil.
func (s *SnapshotStore) StartCleanupTicker(ctx context.Context, interval time.Duration, onEvict func(domain.MessageFullID, Snapshot)) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for id, snapshot := range s.CleanupExpired() {
					if onEvict != nil {
						onEvict(id, snapshot)
					}
				}
			}
		}
	}()
}
