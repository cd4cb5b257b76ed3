package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gotd/td/tg"

	"telegram-reply-tracker/internal/cache"
	"telegram-reply-tracker/internal/content"
	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/ports"
	"telegram-reply-tracker/internal/reply"
	"telegram-reply-tracker/internal/text"
)

type traceIDKey struct{}

// ContextWithTraceID добавляет в контекст идентификатор трассировки запроса.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext возвращает идентификатор трассировки из контекста или
// создает новый, если его там нет.
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

type nopMetrics struct{}

func (nopMetrics) ObserveParsed(string)     {}
func (nopMetrics) ObserveDiagnostic(string) {}
func (nopMetrics) ObserveChange(bool)       {}

// Config хранит конфигурацию для ReplyService.
type Config struct {
	// QuoteLengthMax — максимальная длина автоматической цитаты в кодовых
	// единицах UTF-16.
	QuoteLengthMax int
	// SessionCount — количество активных сессий аккаунта.
	SessionCount int
	// IsBot — аккаунт является ботом.
	IsBot bool
}

// Option — функциональная опция для настройки ReplyService.
type Option func(*ReplyService)

// WithLogger устанавливает логгер для сервиса.
func WithLogger(l *slog.Logger) Option {
	return func(s *ReplyService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithNotifier устанавливает получателя событий о существенных изменениях.
func WithNotifier(n ports.ChangeNotifier) Option {
	return func(s *ReplyService) {
		s.notifier = n
	}
}

// WithMetrics устанавливает сборщик метрик.
func WithMetrics(m ports.ReplyMetrics) Option {
	return func(s *ReplyService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithQuoteLengthMax устанавливает максимальную длину автоматической цитаты.
func WithQuoteLengthMax(n int) Option {
	return func(s *ReplyService) {
		if n > 0 {
			s.config.QuoteLengthMax = n
		}
	}
}

// WithSessionCount устанавливает количество активных сессий аккаунта.
func WithSessionCount(n int) Option {
	return func(s *ReplyService) {
		if n > 0 {
			s.config.SessionCount = n
		}
	}
}

// WithBot отмечает, что сервис работает от имени бота.
func WithBot(isBot bool) Option {
	return func(s *ReplyService) {
		s.config.IsBot = isBot
	}
}

// ReplyService связывает модель ответа с хранилищем снимков, индексом
// пересланных сообщений, метриками и уведомлениями. Безопасен для
// одновременного использования.
type ReplyService struct {
	layer     *content.Layer
	parser    *reply.Parser
	builder   *reply.Builder
	snapshots *cache.SnapshotStore
	forwards  *cache.ForwardIndex
	notifier  ports.ChangeNotifier
	metrics   ports.ReplyMetrics
	config    Config
	log       *slog.Logger
}

// NewReplyService создает новый ReplyService с конфигурацией по умолчанию,
// которая может быть переопределена опциями.
func NewReplyService(layer *content.Layer, snapshots *cache.SnapshotStore, forwards *cache.ForwardIndex, opts ...Option) *ReplyService {
	s := &ReplyService{
		layer:     layer,
		snapshots: snapshots,
		forwards:  forwards,
		config: Config{
			QuoteLengthMax: 1024,
			SessionCount:   1,
		},
		metrics: nopMetrics{},
		log:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.parser = reply.NewParser(layer, text.NewResolver(), text.NewFixer())
	s.builder = reply.NewBuilder(layer, forwards, s.config.QuoteLengthMax)
	return s
}

// Layer возвращает слой содержимого, с которым работает сервис.
func (s *ReplyService) Layer() *content.Layer {
	return s.layer
}

// ParseHeader разбирает сетевой заголовок ответа сообщения host.
func (s *ReplyService) ParseHeader(ctx context.Context, header *tg.MessageReplyHeader, host reply.Host) (reply.Info, []reply.Diagnostic) {
	env := reply.Env{HasGapProneDelivery: reply.GapProneDelivery(s.config.SessionCount)}
	info, diags := s.parser.ParseHeader(header, host, env)

	s.metrics.ObserveParsed("header")
	if len(diags) > 0 {
		traceID := TraceIDFromContext(ctx)
		for _, d := range diags {
			s.metrics.ObserveDiagnostic(string(d.Kind))
			s.log.WarnContext(ctx, "Reply header anomaly",
				"trace_id", traceID,
				"kind", string(d.Kind),
				"host", d.Host.String(),
				"details", d.Details,
			)
		}
	}
	s.log.DebugContext(ctx, "Parsed reply header", "host", host.FullID().String(), "reply", info.String())
	return info, diags
}

// BuildFromInput строит сведения об ответе для локально отправляемого
// сообщения.
func (s *ReplyService) BuildFromInput(ctx context.Context, in reply.InputReplyTo) reply.Info {
	info := s.builder.FromInput(in)
	s.metrics.ObserveParsed("input")
	s.log.DebugContext(ctx, "Built reply from input", "message_id", in.MessageID.String(), "reply", info.String())
	return info
}

// Store сохраняет сведения об ответе сообщения owner и сообщает, является ли
// отличие от ранее сохранённых сведений существенным изменением. При
// существенном изменении отправляется уведомление.
func (s *ReplyService) Store(ctx context.Context, owner domain.MessageFullID, info reply.Info, topThreadMessageID domain.MessageID) (bool, error) {
	var (
		changed bool
		updated bool
		oldInfo reply.Info
	)
	newInfo := info.Clone(s.layer)

	s.snapshots.Update(owner, func(prev cache.Snapshot, exists bool) cache.Snapshot {
		if exists {
			updated = true
			oldInfo = prev.Info
			if !reply.Equal(prev.Info, newInfo, s.layer) {
				changed = reply.NeedReplyChangedWarning(prev.Info, newInfo, reply.ChangeContext{
					OldTopThreadMessageID: prev.TopThreadMessageID,
					IsYetUnsent:           owner.MessageID.IsYetUnsent(),
					QuoteLengthMax:        s.config.QuoteLengthMax,
					IsReplyToDeletedMessage: func(i reply.Info) bool {
						return s.snapshots.IsDeleted(i.ReplyMessageFullID(owner.DialogID, false))
					},
				})
			}
			prev.Info.UnregisterContent(s.layer)
		}
		newInfo.RegisterContent(s.layer)
		return cache.Snapshot{
			Info:               newInfo,
			TopThreadMessageID: topThreadMessageID,
			IsYetUnsent:        owner.MessageID.IsYetUnsent(),
		}
	})

	if !updated {
		s.log.DebugContext(ctx, "Stored new reply", "owner", owner.String())
		return false, nil
	}

	s.metrics.ObserveChange(changed)
	if !changed {
		return false, nil
	}

	s.log.InfoContext(ctx, "Reply changed", "owner", owner.String(), "old", oldInfo.String(), "new", newInfo.String())
	if s.notifier == nil {
		return true, nil
	}
	event := domain.ReplyChangedEvent{
		Owner:      owner,
		Old:        oldInfo.ToClient(s.layer, owner.DialogID),
		New:        newInfo.ToClient(s.layer, owner.DialogID),
		DetectedAt: time.Now().UTC(),
		TraceID:    TraceIDFromContext(ctx),
	}
	if err := s.notifier.NotifyReplyChanged(ctx, event); err != nil {
		s.log.WarnContext(ctx, "Failed to notify reply change", "owner", owner.String(), "error", err)
		return true, fmt.Errorf("failed to notify reply change: %w", err)
	}
	return true, nil
}

// Get возвращает копию сохранённых сведений об ответе сообщения owner.
func (s *ReplyService) Get(owner domain.MessageFullID) (reply.Info, bool) {
	snapshot, ok := s.snapshots.Get(owner)
	if !ok {
		return reply.Info{}, false
	}
	return snapshot.Info.Clone(s.layer), true
}

// Project возвращает клиентское представление сохранённого ответа.
func (s *ReplyService) Project(owner domain.MessageFullID) (domain.ClientReplyToMessage, bool) {
	snapshot, ok := s.snapshots.Get(owner)
	if !ok {
		return domain.ClientReplyToMessage{}, false
	}
	return snapshot.Info.ToClient(s.layer, owner.DialogID), true
}

// Dependencies возвращает объекты, которые клиент должен знать, чтобы показать
// сохранённый ответ.
func (s *ReplyService) Dependencies(owner domain.MessageFullID) (*domain.Dependencies, bool) {
	snapshot, ok := s.snapshots.Get(owner)
	if !ok {
		return nil, false
	}
	deps := domain.NewDependencies()
	snapshot.Info.AddDependencies(deps, s.layer, s.config.IsBot)
	return deps, true
}

// Forget удаляет сохранённые сведения об ответе сообщения owner.
func (s *ReplyService) Forget(ctx context.Context, owner domain.MessageFullID) bool {
	snapshot, ok := s.snapshots.Delete(owner)
	if !ok {
		return false
	}
	snapshot.Info.UnregisterContent(s.layer)
	s.log.DebugContext(ctx, "Forgot reply", "owner", owner.String())
	return true
}

// MarkDeleted отмечает сообщение как удалённое локально. Ответы на него
// больше не считаются существенно изменившимися при исчезновении цели.
func (s *ReplyService) MarkDeleted(ctx context.Context, id domain.MessageFullID) {
	s.snapshots.MarkDeleted(id)
	s.forwards.Remove(id)
	s.log.DebugContext(ctx, "Marked message as deleted", "message", id.String())
}

// RememberForward сохраняет сведения о сообщении другого чата для построения
// ответов на него.
func (s *ReplyService) RememberForward(ctx context.Context, id domain.MessageFullID, info domain.ForwardedMessageInfo) {
	s.forwards.Put(id, info)
	s.log.DebugContext(ctx, "Remembered forwarded message", "message", id.String())
}

// StartCleanup запускает периодическое удаление просроченных снимков с
// освобождением связанного с ними содержимого.
func (s *ReplyService) StartCleanup(ctx context.Context, interval time.Duration) {
	s.snapshots.StartCleanupTicker(ctx, interval, func(id domain.MessageFullID, snapshot cache.Snapshot) {
		snapshot.Info.UnregisterContent(s.layer)
		s.log.DebugContext(ctx, "Evicted expired reply", "owner", id.String())
	})
}
