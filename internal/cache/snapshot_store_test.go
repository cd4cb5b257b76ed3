package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-reply-tracker/internal/content"
	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/reply"
)

func testID(id int32) domain.MessageFullID {
	return domain.MessageFullID{DialogID: domain.DialogIDFromChat(1), MessageID: domain.NewServerMessageID(id)}
}

func replyTo(id int32) reply.Info {
	builder := reply.NewBuilder(content.NewLayer(), nil, 1024)
	return builder.FromInput(reply.InputReplyTo{MessageID: domain.NewServerMessageID(id)})
}

func TestSnapshotStore(t *testing.T) {
	t.Run("Запись и чтение", func(t *testing.T) {
		store := NewSnapshotStore(time.Minute)

		stored := store.Update(testID(10), func(prev Snapshot, exists bool) Snapshot {
			assert.False(t, exists)
			return Snapshot{Info: replyTo(5), IsYetUnsent: true}
		})
		assert.WithinDuration(t, time.Now().Add(time.Minute), stored.ExpiresAt, time.Second)

		snapshot, found := store.Get(testID(10))
		require.True(t, found)
		assert.Equal(t, domain.NewServerMessageID(5), snapshot.Info.MessageID())
		assert.True(t, snapshot.IsYetUnsent)
	})

	t.Run("Обновление получает предыдущий снимок", func(t *testing.T) {
		store := NewSnapshotStore(time.Minute)
		store.Update(testID(10), func(Snapshot, bool) Snapshot { return Snapshot{Info: replyTo(5)} })

		store.Update(testID(10), func(prev Snapshot, exists bool) Snapshot {
			require.True(t, exists)
			assert.Equal(t, domain.NewServerMessageID(5), prev.Info.MessageID())
			return Snapshot{Info: replyTo(6)}
		})

		snapshot, _ := store.Get(testID(10))
		assert.Equal(t, domain.NewServerMessageID(6), snapshot.Info.MessageID())
	})

	t.Run("Чтение несуществующего ключа", func(t *testing.T) {
		_, found := NewSnapshotStore(time.Minute).Get(testID(1))
		assert.False(t, found)
	})

	t.Run("Просроченный снимок не виден", func(t *testing.T) {
		store := NewSnapshotStore(-time.Second)
		store.Update(testID(10), func(Snapshot, bool) Snapshot { return Snapshot{Info: replyTo(5)} })

		_, found := store.Get(testID(10))
		assert.False(t, found)

		store.Update(testID(10), func(prev Snapshot, exists bool) Snapshot {
			assert.False(t, exists)
			return prev
		})
	})

	t.Run("Удаление", func(t *testing.T) {
		store := NewSnapshotStore(time.Minute)
		store.Update(testID(10), func(Snapshot, bool) Snapshot { return Snapshot{Info: replyTo(5)} })

		removed, found := store.Delete(testID(10))
		require.True(t, found)
		assert.Equal(t, domain.NewServerMessageID(5), removed.Info.MessageID())
		assert.Equal(t, 0, store.Len())

		_, found = store.Delete(testID(10))
		assert.False(t, found)
	})

	t.Run("Отметка об удалении", func(t *testing.T) {
		store := NewSnapshotStore(time.Minute)
		assert.False(t, store.IsDeleted(testID(3)))
		store.MarkDeleted(testID(3))
		assert.True(t, store.IsDeleted(testID(3)))
	})

	t.Run("Очистка просроченных записей", func(t *testing.T) {
		store := NewSnapshotStore(-time.Minute)
		store.Update(testID(10), func(Snapshot, bool) Snapshot { return Snapshot{Info: replyTo(5)} })
		store.MarkDeleted(testID(3))

		evicted := store.CleanupExpired()

		require.Len(t, evicted, 1)
		assert.Contains(t, evicted, testID(10))
		assert.Equal(t, 0, store.Len())
		assert.False(t, store.IsDeleted(testID(3)))
	})
}

func TestSnapshotStore_ConcurrentUpdates(t *testing.T) {
	store := NewSnapshotStore(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(testID(10), func(prev Snapshot, _ bool) Snapshot {
				prev.TopThreadMessageID += domain.NewServerMessageID(1)
				return prev
			})
		}()
	}
	wg.Wait()

	snapshot, found := store.Get(testID(10))
	require.True(t, found)
	assert.Equal(t, domain.NewServerMessageID(50), snapshot.TopThreadMessageID)
}

func TestStartCleanupTicker(t *testing.T) {
	store := NewSnapshotStore(50 * time.Millisecond)
	store.Update(testID(10), func(Snapshot, bool) Snapshot { return Snapshot{Info: replyTo(5)} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var evicted []domain.MessageFullID
	store.StartCleanupTicker(ctx, 100*time.Millisecond, func(id domain.MessageFullID, _ Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		evicted = append(evicted, id)
	})

	// Ждем, пока таймер сработает хотя бы раз
	time.Sleep(250 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, []domain.MessageFullID{testID(10)}, evicted)
	mu.Unlock()
	assert.Equal(t, 0, store.Len())
}
