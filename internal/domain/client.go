package domain

import "time"

// ClientTextQuote — цитата в ответе, как её видит клиент.
type ClientTextQuote struct {
	Text     FormattedText `json:"text"`
	Position int32         `json:"position"`
	IsManual bool          `json:"is_manual"`
}

// ClientMessageOrigin — источник сообщения для клиента.
type ClientMessageOrigin struct {
	Type            string `json:"@type"`
	SenderUserID    int64  `json:"sender_user_id,omitempty"`
	SenderName      string `json:"sender_name,omitempty"`
	SenderChatID    int64  `json:"sender_chat_id,omitempty"`
	ChatID          int64  `json:"chat_id,omitempty"`
	MessageID       int64  `json:"message_id,omitempty"`
	AuthorSignature string `json:"author_signature,omitempty"`
}

// ClientMessageContent — содержимое сообщения для клиента.
type ClientMessageContent struct {
	Type        string         `json:"@type"`
	Text        *FormattedText `json:"text,omitempty"`
	Caption     *FormattedText `json:"caption,omitempty"`
	LinkPreview *WebPage       `json:"link_preview,omitempty"`
	FileID      int64          `json:"file_id,omitempty"`
	MimeType    string         `json:"mime_type,omitempty"`
	FileName    string         `json:"file_name,omitempty"`
	HasSpoiler  bool           `json:"has_spoiler,omitempty"`
	UserID      int64          `json:"user_id,omitempty"`
	PhoneNumber string         `json:"phone_number,omitempty"`
	Title       string         `json:"title,omitempty"`
	Address     string         `json:"address,omitempty"`
	Latitude    float64        `json:"latitude,omitempty"`
	Longitude   float64        `json:"longitude,omitempty"`
	Emoji       string         `json:"emoji,omitempty"`
	Value       int32          `json:"value,omitempty"`
	ChatID      int64          `json:"chat_id,omitempty"`
	StoryID     int32          `json:"story_id,omitempty"`
	Currency    string         `json:"currency,omitempty"`
	TotalAmount int64          `json:"total_amount,omitempty"`
}

// ClientReplyToMessage — клиентское представление сведений об ответе.
// Нулевые ChatID и MessageID означают, что сообщение недоступно.
type ClientReplyToMessage struct {
	ChatID         int64                 `json:"chat_id"`
	MessageID      int64                 `json:"message_id"`
	Quote          *ClientTextQuote      `json:"quote,omitempty"`
	Origin         *ClientMessageOrigin  `json:"origin,omitempty"`
	OriginSendDate int32                 `json:"origin_send_date"`
	Content        *ClientMessageContent `json:"content,omitempty"`
}

// ClientDiagnostic — аномалия, обнаруженная при разборе заголовка ответа.
type ClientDiagnostic struct {
	Kind    string `json:"kind"`
	Details string `json:"details"`
}

// ReplyResponse — ответ API с результатом построения сведений об ответе.
type ReplyResponse struct {
	Reply       ClientReplyToMessage `json:"reply"`
	Changed     bool                 `json:"changed"`
	Diagnostics []ClientDiagnostic   `json:"diagnostics,omitempty"`
}

// ReplyChangedEvent публикуется, когда сведения об ответе существенно
// изменились и пользователя стоит предупредить.
type ReplyChangedEvent struct {
	Owner      MessageFullID        `json:"owner"`
	Old        ClientReplyToMessage `json:"old"`
	New        ClientReplyToMessage `json:"new"`
	DetectedAt time.Time            `json:"detected_at"`
	TraceID    string               `json:"trace_id,omitempty"`
}

// Dependencies собирает объекты, которые клиент должен знать, чтобы показать
// сообщение.
type Dependencies struct {
	DialogIDs      map[DialogID]struct{}
	UserIDs        map[UserID]struct{}
	ChannelIDs     map[ChannelID]struct{}
	CustomEmojiIDs map[int64]struct{}
}

// NewDependencies создает пустой набор зависимостей.
func NewDependencies() *Dependencies {
	return &Dependencies{
		DialogIDs:      make(map[DialogID]struct{}),
		UserIDs:        make(map[UserID]struct{}),
		ChannelIDs:     make(map[ChannelID]struct{}),
		CustomEmojiIDs: make(map[int64]struct{}),
	}
}

// AddDialog добавляет диалог вместе с его владельцем.
func (d *Dependencies) AddDialog(id DialogID) {
	if !id.IsValid() {
		return
	}
	d.DialogIDs[id] = struct{}{}
	switch id.Type() {
	case DialogTypeUser:
		d.AddUser(id.UserID())
	case DialogTypeChannel:
		d.AddChannel(id.ChannelID())
	}
}

// AddUser добавляет пользователя.
func (d *Dependencies) AddUser(id UserID) {
	if id > 0 {
		d.UserIDs[id] = struct{}{}
	}
}

// AddChannel добавляет канал.
func (d *Dependencies) AddChannel(id ChannelID) {
	if id > 0 {
		d.ChannelIDs[id] = struct{}{}
	}
}

// AddFormattedText добавляет пользователей и эмодзи, упомянутых в тексте.
func (d *Dependencies) AddFormattedText(text FormattedText) {
	for _, e := range text.Entities {
		switch e.Type {
		case EntityMentionName:
			d.AddUser(e.UserID)
		case EntityCustomEmoji:
			d.CustomEmojiIDs[e.CustomEmojiID] = struct{}{}
		}
	}
}
