package domain

import (
	"fmt"
	"math"

	"github.com/gotd/td/tg"
)

// UserID — идентификатор пользователя Telegram.
type UserID int64

// ChatID — идентификатор обычной группы.
type ChatID int64

// ChannelID — идентификатор канала или супергруппы.
type ChannelID int64

// FileID — удалённый идентификатор файла (фото или документа).
type FileID int64

const (
	maxUserID    = 1<<40 - 1
	maxChatID    = 999999999999
	maxChannelID = 1000000000000 - 1<<31

	zeroChannelDialogID    = -1000000000000
	zeroSecretChatDialogID = -2000000000000
)

// DialogType определяет тип диалога, закодированный в DialogID.
type DialogType int

const (
	DialogTypeNone DialogType = iota
	DialogTypeUser
	DialogTypeChat
	DialogTypeChannel
	DialogTypeSecretChat
)

func (t DialogType) String() string {
	switch t {
	case DialogTypeUser:
		return "user"
	case DialogTypeChat:
		return "chat"
	case DialogTypeChannel:
		return "channel"
	case DialogTypeSecretChat:
		return "secret_chat"
	default:
		return "none"
	}
}

// DialogID — единый идентификатор диалога. Тип диалога кодируется диапазоном:
// пользователи положительны, группы отрицательны, каналы и секретные чаты
// смещены на -10^12 и -2*10^12 соответственно.
type DialogID int64

// DialogIDFromUser возвращает идентификатор личного диалога.
func DialogIDFromUser(id UserID) DialogID {
	return DialogID(id)
}

// DialogIDFromChat возвращает идентификатор диалога обычной группы.
func DialogIDFromChat(id ChatID) DialogID {
	return DialogID(-id)
}

// DialogIDFromChannel возвращает идентификатор диалога канала.
func DialogIDFromChannel(id ChannelID) DialogID {
	return DialogID(zeroChannelDialogID - int64(id))
}

// DialogIDFromPeer преобразует сетевой tg.PeerClass в DialogID.
// Для nil, неизвестных типов и идентификаторов вне допустимого диапазона
// возвращается пустой идентификатор.
func DialogIDFromPeer(peer tg.PeerClass) DialogID {
	switch p := peer.(type) {
	case *tg.PeerUser:
		if p.UserID <= 0 || p.UserID > maxUserID {
			return 0
		}
		return DialogIDFromUser(UserID(p.UserID))
	case *tg.PeerChat:
		if p.ChatID <= 0 || p.ChatID > maxChatID {
			return 0
		}
		return DialogIDFromChat(ChatID(p.ChatID))
	case *tg.PeerChannel:
		if p.ChannelID <= 0 || p.ChannelID > maxChannelID {
			return 0
		}
		return DialogIDFromChannel(ChannelID(p.ChannelID))
	default:
		return 0
	}
}

// Type возвращает тип диалога.
func (d DialogID) Type() DialogType {
	id := int64(d)
	switch {
	case id > 0 && id <= maxUserID:
		return DialogTypeUser
	case id < 0 && id >= -maxChatID:
		return DialogTypeChat
	case id < 0 && id >= zeroChannelDialogID-maxChannelID && id != zeroChannelDialogID:
		return DialogTypeChannel
	case id >= zeroSecretChatDialogID+math.MinInt32 && id <= zeroSecretChatDialogID+math.MaxInt32 &&
		id != zeroSecretChatDialogID:
		return DialogTypeSecretChat
	default:
		return DialogTypeNone
	}
}

// IsValid сообщает, кодирует ли идентификатор диалог известного типа.
func (d DialogID) IsValid() bool {
	return d.Type() != DialogTypeNone
}

// UserID возвращает идентификатор пользователя для личного диалога.
func (d DialogID) UserID() UserID {
	if d.Type() != DialogTypeUser {
		return 0
	}
	return UserID(d)
}

// ChannelID возвращает идентификатор канала для диалога канала.
func (d DialogID) ChannelID() ChannelID {
	if d.Type() != DialogTypeChannel {
		return 0
	}
	return ChannelID(zeroChannelDialogID - int64(d))
}

func (d DialogID) String() string {
	return fmt.Sprintf("%s %d", d.Type(), int64(d))
}

const (
	serverIDShift     = 20
	shortTypeMask     = 1<<2 - 1
	typeMask          = 1<<3 - 1
	fullTypeMask      = 1<<serverIDShift - 1
	scheduledMask     = 4
	typeYetUnsent     = 1
	typeLocal         = 2
	scheduledDateBase = 1 << 30
	scheduledIDLimit  = 1 << 18
)

// MaxMessageID — наибольший допустимый идентификатор сообщения.
const MaxMessageID = MessageID(int64(math.MaxInt32) << serverIDShift)

// MessageID — клиентский идентификатор сообщения. Серверный идентификатор n
// хранится как n<<20; отложенные сообщения кодируют дату отправки и
// серверный идентификатор отложенного сообщения с установленным битом 4.
type MessageID int64

// NewServerMessageID кодирует серверный идентификатор сообщения.
func NewServerMessageID(id int32) MessageID {
	if id <= 0 {
		return 0
	}
	return MessageID(int64(id) << serverIDShift)
}

// NewScheduledMessageID кодирует идентификатор отложенного сообщения по его
// серверному идентификатору и дате отправки. Некорректные аргументы дают
// пустой идентификатор.
func NewScheduledMessageID(id int32, sendDate int32) MessageID {
	if sendDate <= scheduledDateBase || id <= 0 || id >= scheduledIDLimit {
		return 0
	}
	return MessageID(int64(sendDate-scheduledDateBase)<<21 | int64(id)<<3 | scheduledMask)
}

// IsValid сообщает, является ли идентификатор корректным идентификатором
// обычного (не отложенного) сообщения.
func (m MessageID) IsValid() bool {
	if m <= 0 || m > MaxMessageID {
		return false
	}
	if m&fullTypeMask == 0 {
		return true
	}
	t := m & typeMask
	return t == typeYetUnsent || t == typeLocal
}

// IsScheduled сообщает, относится ли идентификатор к отложенному сообщению.
func (m MessageID) IsScheduled() bool {
	return m&scheduledMask != 0
}

// IsValidScheduled сообщает, является ли идентификатор корректным
// идентификатором отложенного сообщения.
func (m MessageID) IsValidScheduled() bool {
	if m <= 0 || m > MaxMessageID {
		return false
	}
	return m.IsScheduled()
}

// IsServer сообщает, получен ли идентификатор от сервера.
func (m MessageID) IsServer() bool {
	return m.IsValid() && m&fullTypeMask == 0
}

// IsScheduledServer сообщает, получен ли идентификатор отложенного
// сообщения от сервера.
func (m MessageID) IsScheduledServer() bool {
	return m.IsValidScheduled() && m&shortTypeMask == 0
}

// IsYetUnsent сообщает, что сообщение ещё не отправлено.
func (m MessageID) IsYetUnsent() bool {
	return (m.IsValid() || m.IsValidScheduled()) && m&shortTypeMask == typeYetUnsent
}

// ServerID возвращает серверный идентификатор обычного сообщения.
func (m MessageID) ServerID() int32 {
	if !m.IsServer() {
		return 0
	}
	return int32(m >> serverIDShift)
}

// ScheduledServerID возвращает серверный идентификатор отложенного сообщения.
func (m MessageID) ScheduledServerID() int32 {
	if !m.IsValidScheduled() {
		return 0
	}
	return int32((m >> 3) & (scheduledIDLimit - 1))
}

func (m MessageID) String() string {
	switch {
	case m == 0:
		return "message 0"
	case m.IsValidScheduled():
		return fmt.Sprintf("scheduled message %d-%d", m.ScheduledServerID(), int64(m))
	case m.IsServer():
		return fmt.Sprintf("message %d", m.ServerID())
	default:
		return fmt.Sprintf("local message %d", int64(m))
	}
}

// MessageFullID однозначно определяет сообщение: диалог и идентификатор в нём.
type MessageFullID struct {
	DialogID  DialogID  `json:"chat_id"`
	MessageID MessageID `json:"message_id"`
}

func (f MessageFullID) String() string {
	return fmt.Sprintf("%s in %s", f.MessageID, f.DialogID)
}
