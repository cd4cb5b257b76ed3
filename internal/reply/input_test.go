package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-reply-tracker/internal/content"
	"telegram-reply-tracker/internal/domain"
)

// fakeForwards — словарь пересланных сведений для тестов.
type fakeForwards map[domain.MessageFullID]domain.ForwardedMessageInfo

func (f fakeForwards) ForwardedMessageInfo(id domain.MessageFullID) (domain.ForwardedMessageInfo, bool) {
	info, ok := f[id]
	return info, ok
}

func textContent(s string, entities ...domain.MessageEntity) *domain.TextContent {
	return &domain.TextContent{Text: domain.FormattedText{Text: s, Entities: entities}}
}

func TestFromInput_InvalidMessageID(t *testing.T) {
	builder := NewBuilder(content.NewLayer(), fakeForwards{}, 1024)

	assert.True(t, builder.FromInput(InputReplyTo{}).IsEmpty())
	assert.True(t, builder.FromInput(InputReplyTo{MessageID: -1, Quote: domain.FormattedText{Text: "q"}}).IsEmpty())
}

func TestFromInput_SameChat(t *testing.T) {
	builder := NewBuilder(content.NewLayer(), fakeForwards{}, 1024)

	t.Run("без цитаты", func(t *testing.T) {
		info := builder.FromInput(InputReplyTo{MessageID: domain.NewServerMessageID(7)})
		assert.Equal(t, domain.NewServerMessageID(7), info.MessageID())
		assert.False(t, info.IsQuoteManual())
	})

	t.Run("с ручной цитатой", func(t *testing.T) {
		quote := domain.FormattedText{Text: "part", Entities: []domain.MessageEntity{{Type: domain.EntityURL, Offset: 0, Length: 4}}}
		info := builder.FromInput(InputReplyTo{MessageID: domain.NewServerMessageID(7), Quote: quote, QuotePosition: 12})

		assert.True(t, info.IsQuoteManual())
		assert.Equal(t, quote, info.Quote())
		assert.Equal(t, int32(12), info.QuotePosition())
	})
}

func TestFromInput_CrossChat(t *testing.T) {
	channel := domain.DialogIDFromChannel(50)
	group := domain.DialogIDFromChat(60)
	channelPost := domain.NewServerMessageID(3)

	forwards := fakeForwards{
		{DialogID: group, MessageID: domain.NewServerMessageID(8)}: {
			OriginDate: 1000,
			Origin:     domain.OriginChannel{ChannelDialogID: channel, MessageID: channelPost},
			Content: textContent("hello world",
				domain.MessageEntity{Type: domain.EntityBold, Offset: 0, Length: 5},
				domain.MessageEntity{Type: domain.EntityURL, Offset: 6, Length: 5},
			),
		},
		{DialogID: group, MessageID: domain.NewServerMessageID(9)}: {
			OriginDate: 1000,
			Origin:     domain.OriginHiddenUser{SenderName: "Anon"},
			Content:    &domain.DiceContent{Emoji: "🎲", Value: 1},
		},
		{DialogID: channel, MessageID: domain.NewServerMessageID(10)}: {
			OriginDate: 1000,
			Origin:     domain.OriginUser{SenderUserID: 5},
			Content:    textContent("from user"),
		},
		{DialogID: group, MessageID: domain.NewServerMessageID(11)}: {
			OriginDate: 0,
			Origin:     domain.OriginUser{SenderUserID: 5},
			Content:    textContent("no date"),
		},
	}
	layer := content.NewLayer()
	builder := NewBuilder(layer, forwards, 5)

	t.Run("источник с собственным идентификатором", func(t *testing.T) {
		info := builder.FromInput(InputReplyTo{MessageID: domain.NewServerMessageID(8), DialogID: group})

		assert.Equal(t, channelPost, info.MessageID())
		assert.Equal(t, channel, info.DialogID())
		assert.Equal(t, int32(1000), info.OriginDate())
		assert.True(t, info.IsExternal())
		assert.False(t, info.IsQuoteManual())
		assert.Equal(t, domain.FormattedText{
			Text:     "hello",
			Entities: []domain.MessageEntity{{Type: domain.EntityBold, Offset: 0, Length: 5}},
		}, info.Quote())

		text := layer.MutableText(info.Content())
		require.NotNil(t, text)
		assert.True(t, text.IsEmpty())

		// исходные сведения не изменяются
		original := forwards[domain.MessageFullID{DialogID: group, MessageID: domain.NewServerMessageID(8)}]
		assert.Equal(t, "hello world", original.Content.(*domain.TextContent).Text.Text)
	})

	t.Run("скрытый отправитель в группе", func(t *testing.T) {
		info := builder.FromInput(InputReplyTo{MessageID: domain.NewServerMessageID(9), DialogID: group})

		assert.Equal(t, domain.MessageID(0), info.MessageID())
		assert.Equal(t, domain.DialogID(0), info.DialogID())
		assert.Equal(t, domain.OriginHiddenUser{SenderName: "Anon"}, info.Origin())
		assert.Equal(t, &domain.DiceContent{Emoji: "🎲", Value: 1}, info.Content())
		assert.True(t, info.Quote().IsEmpty())
	})

	t.Run("канал без идентификатора источника", func(t *testing.T) {
		quote := domain.FormattedText{Text: "mine"}
		info := builder.FromInput(InputReplyTo{MessageID: domain.NewServerMessageID(10), DialogID: channel, Quote: quote})

		assert.Equal(t, domain.MessageID(0), info.MessageID())
		assert.Equal(t, channel, info.DialogID())
		assert.True(t, info.IsQuoteManual())
		assert.Equal(t, quote, info.Quote())
		assert.True(t, layer.MutableText(info.Content()).IsEmpty())
	})

	t.Run("неизвестное сообщение", func(t *testing.T) {
		info := builder.FromInput(InputReplyTo{MessageID: domain.NewServerMessageID(99), DialogID: group, Quote: domain.FormattedText{Text: "q"}})
		assert.True(t, info.IsEmpty())
	})

	t.Run("сведения без даты", func(t *testing.T) {
		info := builder.FromInput(InputReplyTo{MessageID: domain.NewServerMessageID(11), DialogID: group})
		assert.True(t, info.IsEmpty())
	})
}
