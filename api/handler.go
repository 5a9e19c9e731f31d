package api

import (
	"chat-presence/domain"
	"chat-presence/errors"
	"chat-presence/services"
	"chat-presence/validation"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/lo"
)

// UserHeader carries the display name the caller claims to be.
const UserHeader = "User"

type Handler struct {
	participants services.IParticipantService
	messages     services.IMessageService
	log          *slog.Logger
}

func NewHandler(participants services.IParticipantService, messages services.IMessageService, log *slog.Logger) *Handler {
	return &Handler{participants: participants, messages: messages, log: log}
}

// NewRouter builds the HTTP surface of the room.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)
	r.Use(cors)

	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/participants", h.handleJoin)
	r.Get("/participants", h.handleListParticipants)
	r.Post("/status", h.handleHeartbeat)
	r.Post("/messages", h.handlePostMessage)
	r.Get("/messages", h.handleListMessages)
	r.Put("/messages/{id}", h.handleEditMessage)
	r.Delete("/messages/{id}", h.handleDeleteMessage)
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	var payload joinRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondFailure(w, r, fmt.Errorf("%w: invalid request body", errors.ErrValidationFailed))
		return
	}
	participant, err := h.participants.Join(r.Context(), domain.JoinCommand{Name: payload.Name})
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toParticipantResponse(participant))
}

func (h *Handler) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.participants.ListParticipants(r.Context())
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, lo.Map(participants, func(p domain.Participant, _ int) participantResponse {
		return toParticipantResponse(p)
	}))
}

func (h *Handler) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	err := h.participants.Heartbeat(r.Context(), domain.HeartbeatCommand{Identity: r.Header.Get(UserHeader)})
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var payload messageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondFailure(w, r, fmt.Errorf("%w: invalid request body", errors.ErrValidationFailed))
		return
	}
	message, err := h.messages.PostMessage(r.Context(), domain.PostMessageCommand{
		Identity: r.Header.Get(UserHeader),
		To:       payload.To,
		Text:     payload.Text,
		Type:     domain.MessageType(payload.Type),
	})
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toMessageResponse(message))
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	var rawLimit *string
	if query := r.URL.Query(); query.Has("limit") {
		rawLimit = lo.ToPtr(query.Get("limit"))
	}
	limit, err := validation.ParseLimit(rawLimit)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	messages, err := h.messages.ListVisible(r.Context(), domain.ListMessagesCommand{
		Identity: r.Header.Get(UserHeader),
		Limit:    limit,
	})
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, lo.Map(messages, func(m domain.Message, _ int) messageResponse {
		return toMessageResponse(m)
	}))
}

func (h *Handler) handleEditMessage(w http.ResponseWriter, r *http.Request) {
	var payload messageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondFailure(w, r, fmt.Errorf("%w: invalid request body", errors.ErrValidationFailed))
		return
	}
	message, err := h.messages.EditMessage(r.Context(), domain.EditMessageCommand{
		ID:       chi.URLParam(r, "id"),
		Identity: r.Header.Get(UserHeader),
		To:       payload.To,
		Text:     payload.Text,
		Type:     domain.MessageType(payload.Type),
	})
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toMessageResponse(message))
}

func (h *Handler) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	err := h.messages.DeleteMessage(r.Context(), domain.DeleteMessageCommand{
		ID:       chi.URLParam(r, "id"),
		Identity: r.Header.Get(UserHeader),
	})
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
