package domain

import "fmt"

// Origin описывает исходного автора сообщения, созданного в другом месте.
// Это закрытое объединение: реализации есть только в этом пакете, все
// варианты сравнимы оператором ==, а nil означает отсутствие источника.
type Origin interface {
	isOrigin()
	fmt.Stringer
}

// OriginUser — сообщение известного пользователя.
type OriginUser struct {
	SenderUserID UserID `json:"sender_user_id"`
}

// OriginHiddenUser — пользователь скрыл ссылку на свой аккаунт, известно
// только отображаемое имя.
type OriginHiddenUser struct {
	SenderName string `json:"sender_name"`
}

// OriginChat — сообщение отправлено от имени чата (анонимный администратор
// или канал без известного идентификатора поста).
type OriginChat struct {
	SenderDialogID  DialogID `json:"sender_chat_id"`
	AuthorSignature string   `json:"author_signature,omitempty"`
}

// OriginChannel — пост канала с известным идентификатором сообщения.
type OriginChannel struct {
	ChannelDialogID DialogID  `json:"chat_id"`
	MessageID       MessageID `json:"message_id"`
	AuthorSignature string    `json:"author_signature,omitempty"`
}

// OriginImport — сообщение импортировано из внешнего мессенджера.
type OriginImport struct {
	SenderName string `json:"sender_name"`
}

func (OriginUser) isOrigin()       {}
func (OriginHiddenUser) isOrigin() {}
func (OriginChat) isOrigin()       {}
func (OriginChannel) isOrigin()    {}
func (OriginImport) isOrigin()     {}

func (o OriginUser) String() string {
	return fmt.Sprintf("user %d", o.SenderUserID)
}

func (o OriginHiddenUser) String() string {
	return fmt.Sprintf("hidden user %q", o.SenderName)
}

func (o OriginChat) String() string {
	return fmt.Sprintf("%s signed %q", o.SenderDialogID, o.AuthorSignature)
}

func (o OriginChannel) String() string {
	return fmt.Sprintf("%s in %s signed %q", o.MessageID, o.ChannelDialogID, o.AuthorSignature)
}

func (o OriginImport) String() string {
	return fmt.Sprintf("imported from %q", o.SenderName)
}

// OriginHasSenderSignature сообщает, содержит ли источник подпись отправителя.
// Подпись — единственная часть источника, которая может меняться.
func OriginHasSenderSignature(o Origin) bool {
	switch v := o.(type) {
	case OriginHiddenUser:
		return v.SenderName != ""
	case OriginChat:
		return v.AuthorSignature != ""
	case OriginChannel:
		return v.AuthorSignature != ""
	case OriginImport:
		return v.SenderName != ""
	default:
		return false
	}
}

// OriginMessageFullID возвращает собственный идентификатор исходного
// сообщения, если источник его содержит.
func OriginMessageFullID(o Origin) MessageFullID {
	if v, ok := o.(OriginChannel); ok {
		return MessageFullID{DialogID: v.ChannelDialogID, MessageID: v.MessageID}
	}
	return MessageFullID{}
}

// OriginUserIDs возвращает пользователей, упомянутых в источнике.
func OriginUserIDs(o Origin) []UserID {
	switch v := o.(type) {
	case OriginUser:
		return []UserID{v.SenderUserID}
	case OriginChat:
		if id := v.SenderDialogID.UserID(); id != 0 {
			return []UserID{id}
		}
	}
	return nil
}

// OriginChannelIDs возвращает каналы, упомянутые в источнике.
func OriginChannelIDs(o Origin) []ChannelID {
	switch v := o.(type) {
	case OriginChat:
		if id := v.SenderDialogID.ChannelID(); id != 0 {
			return []ChannelID{id}
		}
	case OriginChannel:
		if id := v.ChannelDialogID.ChannelID(); id != 0 {
			return []ChannelID{id}
		}
	}
	return nil
}

// OriginDialogIDs возвращает диалоги, которые нужно знать клиенту для
// отображения источника.
func OriginDialogIDs(o Origin) []DialogID {
	switch v := o.(type) {
	case OriginUser:
		return []DialogID{DialogIDFromUser(v.SenderUserID)}
	case OriginChat:
		return []DialogID{v.SenderDialogID}
	case OriginChannel:
		return []DialogID{v.ChannelDialogID}
	default:
		return nil
	}
}
