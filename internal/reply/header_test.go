package reply

import (
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-reply-tracker/internal/content"
	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/text"
)

const scheduledDate = 1<<30 + 86400

func newTestParser() *Parser {
	return NewParser(content.NewLayer(), text.NewResolver(), text.NewFixer())
}

func chatHost(id int32) Host {
	return Host{DialogID: domain.DialogIDFromChat(100), MessageID: domain.NewServerMessageID(id), Date: 1700000000}
}

func scheduledHost(id int32) Host {
	return Host{DialogID: domain.DialogIDFromChat(100), MessageID: domain.NewScheduledMessageID(id, scheduledDate), Date: scheduledDate}
}

func diagKinds(diags []Diagnostic) []DiagnosticKind {
	kinds := make([]DiagnosticKind, 0, len(diags))
	for _, d := range diags {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

func channelFwdHeader(channelID int64, post int, date int) tg.MessageFwdHeader {
	from := tg.MessageFwdHeader{Date: date}
	from.SetFromID(&tg.PeerChannel{ChannelID: channelID})
	if post != 0 {
		from.SetChannelPost(post)
	}
	return from
}

func TestParseHeader_EmptyHeader(t *testing.T) {
	info, diags := newTestParser().ParseHeader(&tg.MessageReplyHeader{}, chatHost(10), Env{})

	assert.True(t, info.IsEmpty())
	assert.Empty(t, diags)
}

func TestParseHeader_NilHeader(t *testing.T) {
	info, diags := newTestParser().ParseHeader(nil, chatHost(10), Env{})

	assert.True(t, info.IsEmpty())
	assert.Equal(t, []DiagnosticKind{DiagnosticMissingHeader}, diagKinds(diags))
}

func TestParseHeader_SameChatReply(t *testing.T) {
	header := &tg.MessageReplyHeader{}
	header.SetReplyToMsgID(5)

	info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

	assert.Empty(t, diags)
	assert.Equal(t, domain.NewServerMessageID(5), info.MessageID())
	assert.Equal(t, domain.DialogID(0), info.DialogID())
	assert.False(t, info.IsExternal())
}

func TestParseHeader_OutOfOrderTargetIsScrubbedBeforeQuote(t *testing.T) {
	header := &tg.MessageReplyHeader{}
	header.SetReplyToMsgID(42)
	header.SetQuoteText("hello")
	header.SetQuoteOffset(3)

	info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{HasGapProneDelivery: GapProneDelivery(1)})

	assert.Equal(t, []DiagnosticKind{DiagnosticOutOfOrderReply}, diagKinds(diags))
	assert.True(t, info.IsEmpty())
	assert.Empty(t, info.Quote().Text)
}

func TestParseHeader_GapProneDeliveryKeepsLaterTarget(t *testing.T) {
	header := &tg.MessageReplyHeader{}
	header.SetReplyToMsgID(42)
	header.SetQuoteText("hello")
	header.SetQuoteOffset(3)
	header.SetQuote(true)

	info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{HasGapProneDelivery: GapProneDelivery(2)})

	assert.Empty(t, diags)
	assert.Equal(t, domain.NewServerMessageID(42), info.MessageID())
	assert.Equal(t, "hello", info.Quote().Text)
	assert.Equal(t, int32(3), info.QuotePosition())
	assert.True(t, info.IsQuoteManual())
}

func TestParseHeader_SelfReply(t *testing.T) {
	header := &tg.MessageReplyHeader{}
	header.SetReplyToMsgID(10)

	info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{HasGapProneDelivery: GapProneDelivery(5)})

	assert.Equal(t, domain.MessageID(0), info.MessageID())
	assert.Equal(t, []DiagnosticKind{DiagnosticOutOfOrderReply}, diagKinds(diags))
}

func TestParseHeader_CrossChatReplySkipsOrderCheck(t *testing.T) {
	header := &tg.MessageReplyHeader{}
	header.SetReplyToMsgID(500)
	header.SetReplyToPeerID(&tg.PeerChannel{ChannelID: 9})

	info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

	assert.Empty(t, diags)
	assert.Equal(t, domain.NewServerMessageID(500), info.MessageID())
	assert.Equal(t, domain.DialogIDFromChannel(9), info.DialogID())
}

func TestParseHeader_InvalidPeer(t *testing.T) {
	testCases := []struct {
		name string
		peer tg.PeerClass
	}{
		{"zero user", &tg.PeerUser{UserID: 0}},
		{"zero channel", &tg.PeerChannel{ChannelID: 0}},
		{"channel out of range", &tg.PeerChannel{ChannelID: 999000000000}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			header := &tg.MessageReplyHeader{}
			header.SetReplyToMsgID(5)
			header.SetReplyToPeerID(tc.peer)

			info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

			assert.True(t, info.IsEmpty())
			assert.Equal(t, []DiagnosticKind{DiagnosticInvalidReplyPeer}, diagKinds(diags))
		})
	}
}

func TestParseHeader_InvalidTarget(t *testing.T) {
	header := &tg.MessageReplyHeader{}
	header.SetReplyToMsgID(-3)
	header.SetReplyToPeerID(&tg.PeerChannel{ChannelID: 9})

	info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

	assert.True(t, info.IsEmpty())
	assert.Equal(t, []DiagnosticKind{DiagnosticInvalidReplyTarget}, diagKinds(diags))
}

func TestParseHeader_PeerWithoutTarget(t *testing.T) {
	header := &tg.MessageReplyHeader{}
	header.SetReplyToPeerID(&tg.PeerChannel{ChannelID: 9})

	info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

	assert.True(t, info.IsEmpty())
	assert.Equal(t, []DiagnosticKind{DiagnosticPeerWithoutTarget}, diagKinds(diags))
}

func TestParseHeader_Scheduled(t *testing.T) {
	t.Run("корректный ответ", func(t *testing.T) {
		header := &tg.MessageReplyHeader{}
		header.SetReplyToScheduled(true)
		header.SetReplyToMsgID(3)

		info, diags := newTestParser().ParseHeader(header, scheduledHost(5), Env{})

		assert.Empty(t, diags)
		assert.Equal(t, domain.NewScheduledMessageID(3, scheduledDate), info.MessageID())
		assert.True(t, info.MessageID().IsScheduledServer())
	})

	t.Run("ответ в другой чат очищается", func(t *testing.T) {
		header := &tg.MessageReplyHeader{}
		header.SetReplyToScheduled(true)
		header.SetReplyToMsgID(3)
		header.SetReplyToPeerID(&tg.PeerUser{UserID: 7})

		info, diags := newTestParser().ParseHeader(header, scheduledHost(5), Env{})

		assert.Equal(t, domain.MessageID(0), info.MessageID())
		assert.Equal(t, domain.DialogID(0), info.DialogID())
		assert.Equal(t, []DiagnosticKind{DiagnosticScheduledReplyCrossChat}, diagKinds(diags))
	})

	t.Run("ответ самому себе очищается", func(t *testing.T) {
		header := &tg.MessageReplyHeader{}
		header.SetReplyToScheduled(true)
		header.SetReplyToMsgID(5)

		info, diags := newTestParser().ParseHeader(header, scheduledHost(5), Env{})

		assert.Equal(t, domain.MessageID(0), info.MessageID())
		assert.Equal(t, []DiagnosticKind{DiagnosticScheduledSelfReply}, diagKinds(diags))
	})

	t.Run("обычное сообщение не отвечает на отложенное", func(t *testing.T) {
		header := &tg.MessageReplyHeader{}
		header.SetReplyToScheduled(true)
		header.SetReplyToMsgID(3)

		info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

		assert.Equal(t, domain.MessageID(0), info.MessageID())
		assert.Equal(t, []DiagnosticKind{DiagnosticScheduledReplyInvalid}, diagKinds(diags))
	})

	t.Run("внешние сведения игнорируются", func(t *testing.T) {
		header := &tg.MessageReplyHeader{}
		header.SetReplyToScheduled(true)
		header.SetReplyToMsgID(3)
		header.SetReplyFrom(channelFwdHeader(9, 4, 100))

		info, diags := newTestParser().ParseHeader(header, scheduledHost(5), Env{})

		assert.Equal(t, domain.NewScheduledMessageID(3, scheduledDate), info.MessageID())
		assert.Nil(t, info.Origin())
		assert.Equal(t, int32(0), info.OriginDate())
		assert.Equal(t, []DiagnosticKind{DiagnosticScheduledReplyExternal}, diagKinds(diags))
	})
}

func TestParseHeader_ScheduledWithPeerAlwaysScrubbed(t *testing.T) {
	parser := newTestParser()
	peers := []tg.PeerClass{&tg.PeerUser{UserID: 1}, &tg.PeerChat{ChatID: 2}, &tg.PeerChannel{ChannelID: 3}}

	for _, peer := range peers {
		for _, id := range []int{0, 1, 3, 5, 1 << 17} {
			header := &tg.MessageReplyHeader{}
			header.SetReplyToScheduled(true)
			header.SetReplyToMsgID(id)
			header.SetReplyToPeerID(peer)

			info, _ := parser.ParseHeader(header, scheduledHost(5), Env{})
			assert.Equal(t, domain.MessageID(0), info.MessageID(), "peer %v id %d", peer, id)
			assert.Equal(t, domain.DialogID(0), info.DialogID(), "peer %v id %d", peer, id)
		}
	}
}

func TestParseHeader_ExternalReply(t *testing.T) {
	header := &tg.MessageReplyHeader{}
	header.SetReplyToMsgID(4)
	header.SetReplyToPeerID(&tg.PeerChannel{ChannelID: 9})
	header.SetReplyFrom(channelFwdHeader(9, 4, 1600000000))
	media := &tg.MessageMediaPhoto{}
	media.SetPhoto(&tg.Photo{ID: 77})
	header.SetReplyMedia(media)
	header.SetQuoteText("quoted")

	info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

	require.Empty(t, diags)
	assert.Equal(t, int32(1600000000), info.OriginDate())
	assert.Equal(t, domain.OriginChannel{
		ChannelDialogID: domain.DialogIDFromChannel(9),
		MessageID:       domain.NewServerMessageID(4),
	}, info.Origin())
	require.NotNil(t, info.Content())
	assert.Equal(t, domain.ContentTypePhoto, info.Content().Type())
	assert.Equal(t, "quoted", info.Quote().Text)
	assert.False(t, info.IsQuoteManual())
}

func TestParseHeader_OriginAnomalies(t *testing.T) {
	t.Run("некорректная дата", func(t *testing.T) {
		header := &tg.MessageReplyHeader{}
		header.SetReplyFrom(channelFwdHeader(9, 4, 0))
		header.SetReplyMedia(&tg.MessageMediaDice{Emoticon: "🎲", Value: 2})

		info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

		assert.True(t, info.IsEmpty())
		assert.Equal(t, []DiagnosticKind{DiagnosticInvalidOriginDate}, diagKinds(diags))
	})

	t.Run("источник не определяется", func(t *testing.T) {
		header := &tg.MessageReplyHeader{}
		header.SetReplyFrom(tg.MessageFwdHeader{Date: 100})
		header.SetReplyMedia(&tg.MessageMediaDice{Emoticon: "🎲", Value: 2})
		header.SetQuoteText("lost")

		info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

		assert.True(t, info.IsEmpty())
		assert.Equal(t, []DiagnosticKind{DiagnosticInvalidOrigin}, diagKinds(diags))
	})

	t.Run("неподдерживаемое медиа отбрасывается", func(t *testing.T) {
		from := tg.MessageFwdHeader{Date: 100}
		from.SetFromName("Hidden")
		header := &tg.MessageReplyHeader{}
		header.SetReplyFrom(from)
		header.SetReplyMedia(&tg.MessageMediaPhoto{})

		info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

		assert.Equal(t, domain.OriginHiddenUser{SenderName: "Hidden"}, info.Origin())
		assert.Nil(t, info.Content())
		assert.Equal(t, []DiagnosticKind{DiagnosticUnsupportedReplyMedia}, diagKinds(diags))
	})

	t.Run("пустое медиа", func(t *testing.T) {
		from := tg.MessageFwdHeader{Date: 100}
		from.SetFromName("Hidden")
		header := &tg.MessageReplyHeader{}
		header.SetReplyFrom(from)
		header.SetReplyMedia(&tg.MessageMediaEmpty{})

		info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

		assert.Empty(t, diags)
		assert.Nil(t, info.Content())
		assert.True(t, info.IsExternal())
	})
}

func TestParseHeader_Quote(t *testing.T) {
	t.Run("недопустимые сущности удаляются", func(t *testing.T) {
		header := &tg.MessageReplyHeader{}
		header.SetReplyToMsgID(5)
		header.SetQuoteText("bold link")
		header.SetQuoteEntities([]tg.MessageEntityClass{
			&tg.MessageEntityBold{Offset: 0, Length: 4},
			&tg.MessageEntityTextURL{Offset: 5, Length: 4, URL: "https://t.me"},
		})
		header.SetQuoteOffset(-4)

		info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

		assert.Empty(t, diags)
		quote := info.Quote()
		assert.Equal(t, "bold link", quote.Text)
		assert.Equal(t, []domain.MessageEntity{{Type: domain.EntityBold, Offset: 0, Length: 4}}, quote.Entities)
		assert.Equal(t, int32(0), info.QuotePosition())
	})

	t.Run("ошибка проверки очищает текст", func(t *testing.T) {
		header := &tg.MessageReplyHeader{}
		header.SetReplyToMsgID(5)
		header.SetQuoteText("bad\x01quote")
		header.SetQuoteEntities([]tg.MessageEntityClass{&tg.MessageEntityBold{Offset: 0, Length: 3}})

		info, diags := newTestParser().ParseHeader(header, chatHost(10), Env{})

		assert.Equal(t, []DiagnosticKind{DiagnosticQuoteSanitized}, diagKinds(diags))
		assert.Equal(t, domain.FormattedText{Text: "badquote"}, info.Quote())
	})

	t.Run("цитата без цели не сохраняется", func(t *testing.T) {
		header := &tg.MessageReplyHeader{}
		header.SetQuoteText("orphan")

		info, _ := newTestParser().ParseHeader(header, chatHost(10), Env{})

		assert.True(t, info.IsEmpty())
	})
}

func TestGapProneDelivery(t *testing.T) {
	single, multi := GapProneDelivery(1), GapProneDelivery(3)

	assert.False(t, single(domain.DialogIDFromUser(1)))
	assert.True(t, multi(domain.DialogIDFromUser(1)))
	assert.True(t, multi(domain.DialogIDFromChat(1)))
	assert.False(t, multi(domain.DialogIDFromChannel(1)))
}
