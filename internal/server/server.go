package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"telegram-reply-tracker/internal/core/services"
	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/pkg/config"
	"telegram-reply-tracker/internal/server/usecase"
)

// ReplyProcessor определяет интерфейс варианта использования, который
// обрабатывает сведения об ответах.
type ReplyProcessor interface {
	ParseHeader(ctx context.Context, req usecase.ParseRequest) (*domain.ReplyResponse, error)
	BuildFromInput(ctx context.Context, req usecase.InputRequest) (*domain.ReplyResponse, error)
	RememberForward(ctx context.Context, req usecase.ForwardRequest) error
	Get(owner domain.MessageFullID) (*domain.ReplyResponse, bool)
	Forget(ctx context.Context, owner domain.MessageFullID) bool
	MarkDeleted(ctx context.Context, id domain.MessageFullID)
}

// Server представляет HTTP-сервер
type Server struct {
	HTTPServer *http.Server
	cfg        *config.Config
	processor  ReplyProcessor
	log        *slog.Logger
}

const requestIDHeader = "X-Request-ID"

// traceMiddleware связывает запрос с идентификатором трассировки, который
// попадает в логи и события.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(services.ContextWithTraceID(r.Context(), id)))
	})
}

// New создает новый экземпляр Server. metricsHandler может быть nil, тогда
// /metrics не регистрируется.
func New(cfg *config.Config, processor ReplyProcessor, metricsHandler http.Handler, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:       cfg,
		processor: processor,
		log:       logger,
	}

	chiRouter := chi.NewRouter()

	// Промежуточное ПО
	chiRouter.Use(traceMiddleware)
	chiRouter.Use(middleware.Recoverer)

	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metricsHandler != nil {
		chiRouter.Handle("/metrics", metricsHandler)
	}

	// Маршруты API
	chiRouter.Route("/api/v1", func(r chi.Router) {
		r.Post("/replies/parse", s.handleParse)
		r.Post("/replies/input", s.handleInput)
		r.Get("/replies/{chatID}/{messageID}", s.handleGet)
		r.Delete("/replies/{chatID}/{messageID}", s.handleForget)
		r.Post("/forwards", s.handleForward)
		r.Post("/messages/deleted", s.handleDeleted)
	})

	s.HTTPServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      chiRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody разбирает тело запроса с ограничением размера
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	limit := int64(s.cfg.Server.MaxBodySizeKB) << 10
	if limit <= 0 {
		limit = int64(config.DefaultMaxBodySizeKB) << 10
	}
	body := http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "failed to decode request body")
		return false
	}
	return true
}

func (s *Server) writeProcessingError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, usecase.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.ErrorContext(r.Context(), "Failed to process request", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req usecase.ParseRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	resp, err := s.processor.ParseHeader(r.Context(), req)
	if err != nil {
		s.writeProcessingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req usecase.InputRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	resp, err := s.processor.BuildFromInput(r.Context(), req)
	if err != nil {
		s.writeProcessingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	var req usecase.ForwardRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := s.processor.RememberForward(r.Context(), req); err != nil {
		s.writeProcessingError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleted(w http.ResponseWriter, r *http.Request) {
	var id domain.MessageFullID
	if !s.decodeBody(w, r, &id) {
		return
	}
	if !id.DialogID.IsValid() || !id.MessageID.IsValid() {
		writeError(w, http.StatusBadRequest, "chat_id and message_id must be valid")
		return
	}
	s.processor.MarkDeleted(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// ownerFromURL извлекает идентификатор сообщения-владельца из пути
func ownerFromURL(r *http.Request) (domain.MessageFullID, bool) {
	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		return domain.MessageFullID{}, false
	}
	messageID, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
	if err != nil {
		return domain.MessageFullID{}, false
	}
	owner := domain.MessageFullID{DialogID: domain.DialogID(chatID), MessageID: domain.MessageID(messageID)}
	if !owner.DialogID.IsValid() {
		return domain.MessageFullID{}, false
	}
	return owner, true
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromURL(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chat or message id")
		return
	}
	resp, found := s.processor.Get(owner)
	if !found {
		writeError(w, http.StatusNotFound, "reply not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromURL(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chat or message id")
		return
	}
	if !s.processor.Forget(r.Context(), owner) {
		writeError(w, http.StatusNotFound, "reply not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListenAndServe запускает HTTP-сервер
func (s *Server) ListenAndServe() error {
	return s.HTTPServer.ListenAndServe()
}

// Shutdown корректно завершает работу HTTP-сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	return s.HTTPServer.Shutdown(ctx)
}
