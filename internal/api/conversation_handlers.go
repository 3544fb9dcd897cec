package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/internal/repository"
	"github.com/tavola/backoffice/internal/validation"
)

// getConversationsHandler lists customer conversations, optionally filtered
// by ?status=active|closed
func (s *Server) getConversationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var status models.ConversationStatus

	switch raw := r.URL.Query().Get("status"); raw {
	case "":
	case string(models.ConversationStatusActive):
		status = models.ConversationStatusActive
	case string(models.ConversationStatusClosed):
		status = models.ConversationStatusClosed
	default:
		s.respondWithError(w, http.StatusBadRequest, "Unknown conversation status: "+raw)
		return
	}

	conversations, err := s.conversationService.GetConversations(ctx, status)

	if err != nil {
		s.logger.Error("Failed to list conversations", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve conversations")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: conversations})
}

// getMessagesHandler returns a conversation's messages and clears its unread
// counter
func (s *Server) getMessagesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	id := vars["id"]

	messages, err := s.conversationService.GetMessages(ctx, id)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		s.logger.Error("Failed to get messages", "error", err, "conversationID", id)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve messages")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: messages})
}

// sendMessageHandler sends a restaurant-side reply into a conversation
func (s *Server) sendMessageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	id := vars["id"]

	var req validation.SendMessageRequest

	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	message, err := s.conversationService.SendMessage(ctx, id, req.Text)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		s.logger.Error("Failed to send message", "error", err, "conversationID", id)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: message})
}
