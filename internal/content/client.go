package content

import "telegram-reply-tracker/internal/domain"

var clientTypeNames = map[domain.ContentType]string{
	domain.ContentTypeUnsupported:      "messageUnsupported",
	domain.ContentTypeText:             "messageText",
	domain.ContentTypeAnimation:        "messageAnimation",
	domain.ContentTypeAudio:            "messageAudio",
	domain.ContentTypeDocument:         "messageDocument",
	domain.ContentTypePhoto:            "messagePhoto",
	domain.ContentTypeSticker:          "messageSticker",
	domain.ContentTypeVideo:            "messageVideo",
	domain.ContentTypeVideoNote:        "messageVideoNote",
	domain.ContentTypeVoiceNote:        "messageVoiceNote",
	domain.ContentTypeContact:          "messageContact",
	domain.ContentTypeLocation:         "messageLocation",
	domain.ContentTypeLiveLocation:     "messageLocation",
	domain.ContentTypeVenue:            "messageVenue",
	domain.ContentTypePoll:             "messagePoll",
	domain.ContentTypeDice:             "messageDice",
	domain.ContentTypeGame:             "messageGame",
	domain.ContentTypeInvoice:          "messageInvoice",
	domain.ContentTypeStory:            "messageStory",
	domain.ContentTypeExpiredPhoto:     "messageExpiredPhoto",
	domain.ContentTypeExpiredVideo:     "messageExpiredVideo",
	domain.ContentTypeExpiredVoiceNote: "messageExpiredVoiceNote",
	domain.ContentTypeExpiredVideoNote: "messageExpiredVideoNote",
}

// ClientTypeName возвращает имя клиентского типа содержимого.
func ClientTypeName(t domain.ContentType) string {
	if name, ok := clientTypeNames[t]; ok {
		return name
	}
	return clientTypeNames[domain.ContentTypeUnsupported]
}

func textOrNil(t domain.FormattedText) *domain.FormattedText {
	if t.IsEmpty() {
		return nil
	}
	c := t.Clone()
	return &c
}

// ToClient преобразует содержимое в клиентское представление.
// Результат не разделяет память с содержимым.
func (l *Layer) ToClient(c domain.Content, dialogID domain.DialogID) *domain.ClientMessageContent {
	if c == nil {
		return nil
	}

	out := &domain.ClientMessageContent{Type: ClientTypeName(c.Type())}
	switch v := c.(type) {
	case *domain.TextContent:
		text := v.Text.Clone()
		out.Text = &text
		if v.WebPage != nil {
			page := *v.WebPage
			out.LinkPreview = &page
		}
	case *domain.PhotoContent:
		out.FileID = v.Photo.ID
		out.Caption = textOrNil(v.Caption)
		out.HasSpoiler = v.HasSpoiler
	case *domain.DocumentContent:
		out.FileID = v.Document.ID
		out.MimeType = v.Document.MimeType
		out.FileName = v.Document.FileName
		out.Caption = textOrNil(v.Caption)
	case *domain.ContactContent:
		out.UserID = int64(v.UserID)
		out.PhoneNumber = v.PhoneNumber
		out.Title = v.FirstName
		if v.LastName != "" {
			out.Title += " " + v.LastName
		}
	case *domain.LocationContent:
		out.Latitude = v.Latitude
		out.Longitude = v.Longitude
	case *domain.VenueContent:
		out.Latitude = v.Latitude
		out.Longitude = v.Longitude
		out.Title = v.Title
		out.Address = v.Address
	case *domain.PollContent:
		out.FileID = v.PollID
	case *domain.DiceContent:
		out.Emoji = v.Emoji
		out.Value = v.Value
	case *domain.GameContent:
		out.Title = v.Title
	case *domain.InvoiceContent:
		out.Title = v.Title
		out.Currency = v.Currency
		out.TotalAmount = v.TotalAmount
	case *domain.StoryContent:
		out.ChatID = int64(v.SenderDialogID)
		if !v.SenderDialogID.IsValid() {
			out.ChatID = int64(dialogID)
		}
		out.StoryID = v.StoryID
	}
	return out
}
