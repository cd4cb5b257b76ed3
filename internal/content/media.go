package content

import (
	"github.com/gotd/td/tg"

	"telegram-reply-tracker/internal/domain"
)

// FromMedia строит содержимое сообщения из сетевого медиа. Пустое медиа
// даёт nil; неизвестные типы превращаются в неподдерживаемое содержимое
// текущей версии.
func (l *Layer) FromMedia(media tg.MessageMediaClass, dialogID domain.DialogID, date int32) domain.Content {
	switch m := media.(type) {
	case nil, *tg.MessageMediaEmpty:
		return nil
	case *tg.MessageMediaPhoto:
		return photoFromMedia(m, date)
	case *tg.MessageMediaDocument:
		return documentFromMedia(m)
	case *tg.MessageMediaContact:
		return &domain.ContactContent{
			PhoneNumber: m.PhoneNumber,
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			UserID:      domain.UserID(m.UserID),
		}
	case *tg.MessageMediaGeo:
		lat, long, ok := geoPoint(m.Geo)
		if !ok {
			return l.unsupported(media)
		}
		return &domain.LocationContent{Latitude: lat, Longitude: long}
	case *tg.MessageMediaGeoLive:
		lat, long, ok := geoPoint(m.Geo)
		if !ok {
			return l.unsupported(media)
		}
		return &domain.LocationContent{Live: true, Latitude: lat, Longitude: long}
	case *tg.MessageMediaVenue:
		lat, long, ok := geoPoint(m.Geo)
		if !ok {
			return l.unsupported(media)
		}
		return &domain.VenueContent{Latitude: lat, Longitude: long, Title: m.Title, Address: m.Address}
	case *tg.MessageMediaPoll:
		return &domain.PollContent{PollID: m.Poll.ID}
	case *tg.MessageMediaDice:
		return &domain.DiceContent{Emoji: m.Emoticon, Value: int32(m.Value)}
	case *tg.MessageMediaGame:
		return &domain.GameContent{GameID: m.Game.ID, ShortName: m.Game.ShortName, Title: m.Game.Title}
	case *tg.MessageMediaInvoice:
		return &domain.InvoiceContent{
			Title:       m.Title,
			Description: m.Description,
			Currency:    m.Currency,
			TotalAmount: m.TotalAmount,
		}
	case *tg.MessageMediaStory:
		sender := domain.DialogIDFromPeer(m.Peer)
		if !sender.IsValid() {
			sender = dialogID
		}
		return &domain.StoryContent{SenderDialogID: sender, StoryID: int32(m.ID)}
	case *tg.MessageMediaWebPage:
		return &domain.TextContent{WebPage: webPage(m.Webpage)}
	case *tg.MessageMediaUnsupported:
		return &domain.UnsupportedContent{Version: domain.CurrentUnsupportedVersion}
	default:
		return l.unsupported(media)
	}
}

func (l *Layer) unsupported(media tg.MessageMediaClass) domain.Content {
	l.log.Debug("Media is not supported in replies", "type", media.TypeName())
	return &domain.UnsupportedContent{Version: domain.CurrentUnsupportedVersion}
}

func photoFromMedia(m *tg.MessageMediaPhoto, date int32) domain.Content {
	photoClass, ok := m.GetPhoto()
	if !ok {
		return &domain.ExpiredContent{Kind: domain.ContentTypeExpiredPhoto}
	}
	photo, ok := photoClass.(*tg.Photo)
	if !ok {
		return &domain.ExpiredContent{Kind: domain.ContentTypeExpiredPhoto}
	}

	photoDate := int32(photo.Date)
	if photoDate == 0 {
		photoDate = date
	}
	return &domain.PhotoContent{
		Photo: domain.Photo{
			ID:            photo.ID,
			AccessHash:    photo.AccessHash,
			FileReference: append([]byte(nil), photo.FileReference...),
			Date:          photoDate,
		},
		HasSpoiler: m.Spoiler,
	}
}

func documentFromMedia(m *tg.MessageMediaDocument) domain.Content {
	docClass, ok := m.GetDocument()
	var doc *tg.Document
	if ok {
		doc, _ = docClass.(*tg.Document)
	}
	if doc == nil {
		switch {
		case m.Round:
			return &domain.ExpiredContent{Kind: domain.ContentTypeExpiredVideoNote}
		case m.Voice:
			return &domain.ExpiredContent{Kind: domain.ContentTypeExpiredVoiceNote}
		case m.Video:
			return &domain.ExpiredContent{Kind: domain.ContentTypeExpiredVideo}
		default:
			return &domain.UnsupportedContent{Version: domain.CurrentUnsupportedVersion}
		}
	}

	result := &domain.DocumentContent{
		Kind: documentKind(doc.Attributes),
		Document: domain.Document{
			ID:            doc.ID,
			AccessHash:    doc.AccessHash,
			FileReference: append([]byte(nil), doc.FileReference...),
			MimeType:      doc.MimeType,
			Size:          doc.Size,
		},
	}
	for _, attr := range doc.Attributes {
		if name, ok := attr.(*tg.DocumentAttributeFilename); ok {
			result.Document.FileName = name.FileName
		}
	}
	return result
}

// documentKind определяет тип документа по атрибутам. Порядок проверок
// повторяет приоритет клиентов: стикер, анимация, видеосообщение, видео,
// голосовое сообщение, аудио.
func documentKind(attrs []tg.DocumentAttributeClass) domain.ContentType {
	var sticker, animated, round, video, voice, audio bool
	for _, attr := range attrs {
		switch a := attr.(type) {
		case *tg.DocumentAttributeSticker:
			sticker = true
		case *tg.DocumentAttributeAnimated:
			animated = true
		case *tg.DocumentAttributeVideo:
			video = true
			round = round || a.RoundMessage
		case *tg.DocumentAttributeAudio:
			audio = true
			voice = voice || a.Voice
		}
	}

	switch {
	case sticker:
		return domain.ContentTypeSticker
	case animated:
		return domain.ContentTypeAnimation
	case round:
		return domain.ContentTypeVideoNote
	case video:
		return domain.ContentTypeVideo
	case voice:
		return domain.ContentTypeVoiceNote
	case audio:
		return domain.ContentTypeAudio
	default:
		return domain.ContentTypeDocument
	}
}

func geoPoint(geo tg.GeoPointClass) (lat, long float64, ok bool) {
	point, ok := geo.(*tg.GeoPoint)
	if !ok {
		return 0, 0, false
	}
	return point.Lat, point.Long, true
}

func webPage(page tg.WebPageClass) *domain.WebPage {
	switch p := page.(type) {
	case *tg.WebPage:
		return &domain.WebPage{ID: p.ID, URL: p.URL}
	case *tg.WebPagePending:
		return &domain.WebPage{ID: p.ID, Pending: true}
	case *tg.WebPageEmpty:
		return &domain.WebPage{ID: p.ID}
	default:
		return nil
	}
}
