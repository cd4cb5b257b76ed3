package domain

// EntityType — тип форматирующей сущности текста.
type EntityType string

const (
	EntityBold                 EntityType = "bold"
	EntityItalic               EntityType = "italic"
	EntityUnderline            EntityType = "underline"
	EntityStrikethrough        EntityType = "strikethrough"
	EntitySpoiler              EntityType = "spoiler"
	EntityCustomEmoji          EntityType = "custom_emoji"
	EntityCode                 EntityType = "code"
	EntityPre                  EntityType = "pre"
	EntityPreCode              EntityType = "pre_code"
	EntityBlockquote           EntityType = "blockquote"
	EntityExpandableBlockquote EntityType = "expandable_blockquote"
	EntityURL                  EntityType = "url"
	EntityTextURL              EntityType = "text_url"
	EntityEmail                EntityType = "email"
	EntityPhoneNumber          EntityType = "phone_number"
	EntityMention              EntityType = "mention"
	EntityMentionName          EntityType = "mention_name"
	EntityHashtag              EntityType = "hashtag"
	EntityCashtag              EntityType = "cashtag"
	EntityBotCommand           EntityType = "bot_command"
	EntityBankCardNumber       EntityType = "bank_card_number"
)

// MessageEntity описывает форматирование участка текста.
// Offset и Length измеряются в UTF-16 кодовых единицах, как в Telegram API.
type MessageEntity struct {
	Type          EntityType `json:"type"`
	Offset        int32      `json:"offset"`
	Length        int32      `json:"length"`
	Argument      string     `json:"argument,omitempty"` // URL для text_url, язык для pre_code
	UserID        UserID     `json:"user_id,omitempty"`  // для mention_name
	CustomEmojiID int64      `json:"custom_emoji_id,omitempty"`
}

// End возвращает смещение конца сущности.
func (e MessageEntity) End() int32 {
	return e.Offset + e.Length
}

// FormattedText — текст вместе с упорядоченным списком сущностей.
type FormattedText struct {
	Text     string          `json:"text"`
	Entities []MessageEntity `json:"entities,omitempty"`
}

// IsEmpty сообщает, что текст пуст. Сущности без текста не имеют смысла.
func (t FormattedText) IsEmpty() bool {
	return t.Text == ""
}

// Equal сравнивает тексты и сущности. nil и пустой срез сущностей равны.
func (t FormattedText) Equal(other FormattedText) bool {
	if t.Text != other.Text || len(t.Entities) != len(other.Entities) {
		return false
	}
	for i := range t.Entities {
		if t.Entities[i] != other.Entities[i] {
			return false
		}
	}
	return true
}

// Clone возвращает копию, не разделяющую срез сущностей с оригиналом.
func (t FormattedText) Clone() FormattedText {
	result := FormattedText{Text: t.Text}
	if len(t.Entities) > 0 {
		result.Entities = make([]MessageEntity, len(t.Entities))
		copy(result.Entities, t.Entities)
	}
	return result
}
