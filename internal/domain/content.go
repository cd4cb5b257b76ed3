package domain

// ContentType — тип содержимого сообщения.
type ContentType int

const (
	ContentTypeUnsupported ContentType = iota
	ContentTypeText
	ContentTypeAnimation
	ContentTypeAudio
	ContentTypeDocument
	ContentTypePhoto
	ContentTypeSticker
	ContentTypeVideo
	ContentTypeVideoNote
	ContentTypeVoiceNote
	ContentTypeContact
	ContentTypeLocation
	ContentTypeLiveLocation
	ContentTypeVenue
	ContentTypePoll
	ContentTypeDice
	ContentTypeGame
	ContentTypeInvoice
	ContentTypeStory
	ContentTypeExpiredPhoto
	ContentTypeExpiredVideo
	ContentTypeExpiredVoiceNote
	ContentTypeExpiredVideoNote
)

var contentTypeNames = map[ContentType]string{
	ContentTypeUnsupported:      "Unsupported",
	ContentTypeText:             "Text",
	ContentTypeAnimation:        "Animation",
	ContentTypeAudio:            "Audio",
	ContentTypeDocument:         "Document",
	ContentTypePhoto:            "Photo",
	ContentTypeSticker:          "Sticker",
	ContentTypeVideo:            "Video",
	ContentTypeVideoNote:        "VideoNote",
	ContentTypeVoiceNote:        "VoiceNote",
	ContentTypeContact:          "Contact",
	ContentTypeLocation:         "Location",
	ContentTypeLiveLocation:     "LiveLocation",
	ContentTypeVenue:            "Venue",
	ContentTypePoll:             "Poll",
	ContentTypeDice:             "Dice",
	ContentTypeGame:             "Game",
	ContentTypeInvoice:          "Invoice",
	ContentTypeStory:            "Story",
	ContentTypeExpiredPhoto:     "ExpiredPhoto",
	ContentTypeExpiredVideo:     "ExpiredVideo",
	ContentTypeExpiredVoiceNote: "ExpiredVoiceNote",
	ContentTypeExpiredVideoNote: "ExpiredVideoNote",
}

func (t ContentType) String() string {
	if name, ok := contentTypeNames[t]; ok {
		return name
	}
	return "Invalid"
}

// IsSupportedForReply сообщает, может ли содержимое этого типа показываться
// как превью сообщения, на которое отвечают. Истёкшие медиа не показываются.
func IsSupportedForReply(t ContentType) bool {
	switch t {
	case ContentTypeUnsupported, ContentTypeText, ContentTypeAnimation, ContentTypeAudio,
		ContentTypeDocument, ContentTypePhoto, ContentTypeSticker, ContentTypeVideo,
		ContentTypeVideoNote, ContentTypeVoiceNote, ContentTypeContact, ContentTypeLocation,
		ContentTypeLiveLocation, ContentTypeVenue, ContentTypePoll, ContentTypeDice,
		ContentTypeGame, ContentTypeInvoice, ContentTypeStory:
		return true
	default:
		return false
	}
}

// Content — содержимое сообщения. Реализации — указатели на структуры ниже;
// владелец содержимого единственный, копирование выполняется через слой
// содержимого.
type Content interface {
	Type() ContentType
}

// WebPage — превью ссылки текстового сообщения.
type WebPage struct {
	ID      int64  `json:"id"`
	URL     string `json:"url,omitempty"`
	Pending bool   `json:"pending,omitempty"`
}

// TextContent — текстовое сообщение, возможно с превью ссылки.
type TextContent struct {
	Text    FormattedText
	WebPage *WebPage
}

// Photo — удалённая фотография.
type Photo struct {
	ID            int64
	AccessHash    int64
	FileReference []byte
	Date          int32
}

// PhotoContent — фотография с подписью.
type PhotoContent struct {
	Photo      Photo
	Caption    FormattedText
	HasSpoiler bool
}

// Document — удалённый документ.
type Document struct {
	ID            int64
	AccessHash    int64
	FileReference []byte
	MimeType      string
	FileName      string
	Size          int64
}

// DocumentContent — документ и производные от него типы: анимация, аудио,
// стикер, видео, видеосообщение, голосовое сообщение.
type DocumentContent struct {
	Kind     ContentType
	Document Document
	Caption  FormattedText
}

// ContactContent — карточка контакта.
type ContactContent struct {
	PhoneNumber string
	FirstName   string
	LastName    string
	UserID      UserID
}

// LocationContent — точка на карте, в том числе транслируемая.
type LocationContent struct {
	Live      bool
	Latitude  float64
	Longitude float64
}

// VenueContent — место с названием и адресом.
type VenueContent struct {
	Latitude  float64
	Longitude float64
	Title     string
	Address   string
}

// PollContent — опрос.
type PollContent struct {
	PollID int64
}

// DiceContent — анимированный кубик.
type DiceContent struct {
	Emoji string
	Value int32
}

// GameContent — игра.
type GameContent struct {
	GameID    int64
	ShortName string
	Title     string
}

// InvoiceContent — счёт на оплату.
type InvoiceContent struct {
	Title       string
	Description string
	Currency    string
	TotalAmount int64
}

// StoryContent — пересланная история.
type StoryContent struct {
	SenderDialogID DialogID
	StoryID        int32
}

// ExpiredContent — медиа с ограниченным временем жизни, срок которого истёк.
type ExpiredContent struct {
	Kind ContentType
}

// CurrentUnsupportedVersion — версия схемы, начиная с которой содержимое
// известно клиенту. Неподдерживаемое содержимое старой версии стоит
// перезапросить.
const CurrentUnsupportedVersion = 1

// UnsupportedContent — содержимое, которое клиент не умеет показывать.
type UnsupportedContent struct {
	Version int32
}

func (*TextContent) Type() ContentType        { return ContentTypeText }
func (*PhotoContent) Type() ContentType       { return ContentTypePhoto }
func (c *DocumentContent) Type() ContentType  { return c.Kind }
func (*ContactContent) Type() ContentType     { return ContentTypeContact }
func (*VenueContent) Type() ContentType       { return ContentTypeVenue }
func (*PollContent) Type() ContentType        { return ContentTypePoll }
func (*DiceContent) Type() ContentType        { return ContentTypeDice }
func (*GameContent) Type() ContentType        { return ContentTypeGame }
func (*InvoiceContent) Type() ContentType     { return ContentTypeInvoice }
func (*StoryContent) Type() ContentType       { return ContentTypeStory }
func (c *ExpiredContent) Type() ContentType   { return c.Kind }
func (*UnsupportedContent) Type() ContentType { return ContentTypeUnsupported }

func (c *LocationContent) Type() ContentType {
	if c.Live {
		return ContentTypeLiveLocation
	}
	return ContentTypeLocation
}

// ForwardedMessageInfo — сведения об исходном сообщении, нужные для ответа
// на сообщение из другого чата.
type ForwardedMessageInfo struct {
	OriginDate int32
	Origin     Origin
	Content    Content
}
