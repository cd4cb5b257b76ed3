package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gotd/td/bin"
	"github.com/gotd/td/tg"

	"telegram-reply-tracker/internal/core/services"
	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/reply"
)

// ErrInvalidRequest — запрос некорректен и не может быть обработан.
var ErrInvalidRequest = errors.New("invalid request")

// ParseRequest — запрос на разбор сетевого заголовка ответа.
type ParseRequest struct {
	// ChatID — идентификатор диалога сообщения-владельца.
	ChatID int64 `json:"chat_id"`
	// MessageID — серверный идентификатор сообщения-владельца.
	MessageID int32 `json:"message_id"`
	// Scheduled — сообщение-владелец является отложенным.
	Scheduled bool `json:"scheduled"`
	// Date — дата отправки сообщения-владельца.
	Date int32 `json:"date"`
	// Header — заголовок messageReplyHeader в TL-сериализации, base64.
	Header             string `json:"header"`
	TopThreadMessageID int64  `json:"top_thread_message_id"`
	// Store — сохранить результат и сравнить его с ранее сохранённым.
	Store bool `json:"store"`
}

// InputRequest — запрос на построение ответа локально отправляемого сообщения.
type InputRequest struct {
	Owner              domain.MessageFullID `json:"owner"`
	ReplyTo            reply.InputReplyTo   `json:"reply_to"`
	TopThreadMessageID int64                `json:"top_thread_message_id"`
	Store              bool                 `json:"store"`
}

// ForwardRequest — сведения о сообщении другого чата, на которое можно ответить.
type ForwardRequest struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int32 `json:"message_id"`
	// Date — дата отправки исходного сообщения.
	Date int32 `json:"date"`
	// From — заголовок messageFwdHeader автора в TL-сериализации, base64.
	From string `json:"from"`
	// Media — messageMedia в TL-сериализации, base64. Необязательно.
	Media string `json:"media,omitempty"`
	// Text — текст или подпись сообщения.
	Text domain.FormattedText `json:"text"`
}

// ProcessReplyUseCase преобразует запросы API в вызовы модели ответа.
type ProcessReplyUseCase struct {
	service *services.ReplyService
}

// NewProcessReplyUseCase создает новый экземпляр ProcessReplyUseCase.
func NewProcessReplyUseCase(service *services.ReplyService) *ProcessReplyUseCase {
	return &ProcessReplyUseCase{service: service}
}

func decodeTL(field, encoded string) (*bin.Buffer, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64: %v", ErrInvalidRequest, field, err)
	}
	return &bin.Buffer{Buf: data}, nil
}

// DecodeReplyHeader декодирует messageReplyHeader из base64. Пустая строка
// означает отсутствие заголовка.
func DecodeReplyHeader(encoded string) (*tg.MessageReplyHeader, error) {
	if encoded == "" {
		return nil, nil
	}
	buf, err := decodeTL("header", encoded)
	if err != nil {
		return nil, err
	}
	var header tg.MessageReplyHeader
	if err := header.Decode(buf); err != nil {
		return nil, fmt.Errorf("%w: failed to decode reply header: %v", ErrInvalidRequest, err)
	}
	return &header, nil
}

// ParseHeader разбирает заголовок ответа и при необходимости сохраняет результат.
func (uc *ProcessReplyUseCase) ParseHeader(ctx context.Context, req ParseRequest) (*domain.ReplyResponse, error) {
	header, err := DecodeReplyHeader(req.Header)
	if err != nil {
		return nil, err
	}

	dialogID := domain.DialogID(req.ChatID)
	if !dialogID.IsValid() {
		return nil, fmt.Errorf("%w: chat_id %d is not a valid dialog", ErrInvalidRequest, req.ChatID)
	}
	host := reply.Host{DialogID: dialogID, Date: req.Date}
	if req.Scheduled {
		host.MessageID = domain.NewScheduledMessageID(req.MessageID, req.Date)
	} else {
		host.MessageID = domain.NewServerMessageID(req.MessageID)
	}
	if host.MessageID == 0 {
		return nil, fmt.Errorf("%w: message_id %d is not valid", ErrInvalidRequest, req.MessageID)
	}

	info, diags := uc.service.ParseHeader(ctx, header, host)
	resp := &domain.ReplyResponse{
		Reply:       info.ToClient(uc.service.Layer(), dialogID),
		Diagnostics: reply.DiagnosticsToClient(diags),
	}
	if req.Store {
		resp.Changed = uc.store(ctx, host.FullID(), info, domain.MessageID(req.TopThreadMessageID))
	}
	return resp, nil
}

// BuildFromInput строит ответ по намерению пользователя и при необходимости сохраняет его.
func (uc *ProcessReplyUseCase) BuildFromInput(ctx context.Context, req InputRequest) (*domain.ReplyResponse, error) {
	if !req.Owner.DialogID.IsValid() {
		return nil, fmt.Errorf("%w: owner chat_id is not a valid dialog", ErrInvalidRequest)
	}

	info := uc.service.BuildFromInput(ctx, req.ReplyTo)
	resp := &domain.ReplyResponse{
		Reply: info.ToClient(uc.service.Layer(), req.Owner.DialogID),
	}
	if req.Store {
		if !req.Owner.MessageID.IsValid() && !req.Owner.MessageID.IsValidScheduled() {
			return nil, fmt.Errorf("%w: owner message_id is not valid", ErrInvalidRequest)
		}
		resp.Changed = uc.store(ctx, req.Owner, info, domain.MessageID(req.TopThreadMessageID))
	}
	return resp, nil
}

// store сохраняет ответ. Ошибка доставки уведомления уже записана в лог
// сервисом, снимок при этом сохранён, поэтому запрос не отменяется.
func (uc *ProcessReplyUseCase) store(ctx context.Context, owner domain.MessageFullID, info reply.Info, topThread domain.MessageID) bool {
	changed, _ := uc.service.Store(ctx, owner, info, topThread)
	return changed
}

// RememberForward сохраняет сведения о сообщении другого чата.
func (uc *ProcessReplyUseCase) RememberForward(ctx context.Context, req ForwardRequest) error {
	dialogID := domain.DialogID(req.ChatID)
	messageID := domain.NewServerMessageID(req.MessageID)
	if !dialogID.IsValid() || messageID == 0 {
		return fmt.Errorf("%w: chat_id and message_id must identify a server message", ErrInvalidRequest)
	}
	if req.Date <= 0 {
		return fmt.Errorf("%w: date must be positive", ErrInvalidRequest)
	}

	buf, err := decodeTL("from", req.From)
	if err != nil {
		return err
	}
	var from tg.MessageFwdHeader
	if err := from.Decode(buf); err != nil {
		return fmt.Errorf("%w: failed to decode forward header: %v", ErrInvalidRequest, err)
	}
	origin, err := reply.ResolveOrigin(from)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	layer := uc.service.Layer()
	var content domain.Content
	if req.Media != "" {
		buf, err := decodeTL("media", req.Media)
		if err != nil {
			return err
		}
		media, err := tg.DecodeMessageMedia(buf)
		if err != nil {
			return fmt.Errorf("%w: failed to decode media: %v", ErrInvalidRequest, err)
		}
		content = layer.FromMedia(media, dialogID, req.Date)
		if caption := layer.MutableText(content); caption != nil {
			*caption = req.Text.Clone()
		}
	}
	if content == nil {
		content = &domain.TextContent{Text: req.Text.Clone()}
	}

	uc.service.RememberForward(ctx, domain.MessageFullID{DialogID: dialogID, MessageID: messageID}, domain.ForwardedMessageInfo{
		OriginDate: req.Date,
		Origin:     origin,
		Content:    content,
	})
	return nil
}

// Get возвращает сохранённый ответ сообщения owner.
func (uc *ProcessReplyUseCase) Get(owner domain.MessageFullID) (*domain.ReplyResponse, bool) {
	projected, ok := uc.service.Project(owner)
	if !ok {
		return nil, false
	}
	return &domain.ReplyResponse{Reply: projected}, true
}

// Forget удаляет сохранённый ответ сообщения owner.
func (uc *ProcessReplyUseCase) Forget(ctx context.Context, owner domain.MessageFullID) bool {
	return uc.service.Forget(ctx, owner)
}

// MarkDeleted отмечает сообщение как удалённое локально.
func (uc *ProcessReplyUseCase) MarkDeleted(ctx context.Context, id domain.MessageFullID) {
	uc.service.MarkDeleted(ctx, id)
}
