package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-reply-tracker/internal/content"
	"telegram-reply-tracker/internal/domain"
)

func TestNewForwardIndex_InvalidSize(t *testing.T) {
	_, err := NewForwardIndex(0, content.NewLayer())
	assert.Error(t, err)
}

func TestForwardIndex(t *testing.T) {
	index, err := NewForwardIndex(2, content.NewLayer())
	require.NoError(t, err)

	stored := &domain.TextContent{Text: domain.FormattedText{Text: "hello"}}
	index.Put(testID(1), domain.ForwardedMessageInfo{
		OriginDate: 100,
		Origin:     domain.OriginUser{SenderUserID: 7},
		Content:    stored,
	})

	t.Run("Чтение возвращает копию", func(t *testing.T) {
		info, found := index.ForwardedMessageInfo(testID(1))
		require.True(t, found)
		assert.Equal(t, int32(100), info.OriginDate)
		assert.Equal(t, domain.OriginUser{SenderUserID: 7}, info.Origin)

		info.Content.(*domain.TextContent).Text.Text = "changed"
		again, _ := index.ForwardedMessageInfo(testID(1))
		assert.Equal(t, "hello", again.Content.(*domain.TextContent).Text.Text)

		stored.Text.Text = "mutated by caller"
		again, _ = index.ForwardedMessageInfo(testID(1))
		assert.Equal(t, "hello", again.Content.(*domain.TextContent).Text.Text)
	})

	t.Run("Вытеснение старых записей", func(t *testing.T) {
		index.Put(testID(2), domain.ForwardedMessageInfo{OriginDate: 1})
		index.Put(testID(3), domain.ForwardedMessageInfo{OriginDate: 1})

		assert.Equal(t, 2, index.Len())
		_, found := index.ForwardedMessageInfo(testID(1))
		assert.False(t, found)
	})

	t.Run("Удаление", func(t *testing.T) {
		index.Remove(testID(3))
		_, found := index.ForwardedMessageInfo(testID(3))
		assert.False(t, found)
	})
}
