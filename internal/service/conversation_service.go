package service

import (
	"context"
	"fmt"

	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/internal/repository"
	"github.com/tavola/backoffice/pkg/logger"
)

// ConversationService handles customer conversation threads
type ConversationService struct {
	convRepo   *repository.ConversationRepository
	outboxRepo *repository.OutboxRepository
	logger     logger.Logger
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	convRepo *repository.ConversationRepository,
	outboxRepo *repository.OutboxRepository,
	logger logger.Logger,
) *ConversationService {
	return &ConversationService{
		convRepo:   convRepo,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// GetConversations lists conversation threads, optionally filtered by status
func (s *ConversationService) GetConversations(ctx context.Context, status models.ConversationStatus) ([]*models.Conversation, error) {
	return s.convRepo.GetAll(ctx, status)
}

// GetMessages lists a conversation's messages and clears its unread counter
func (s *ConversationService) GetMessages(ctx context.Context, conversationID string) ([]*models.Message, error) {
	if _, err := s.convRepo.GetByID(ctx, conversationID); err != nil {
		return nil, err
	}

	messages, err := s.convRepo.GetMessages(ctx, conversationID)

	if err != nil {
		return nil, err
	}

	if err := s.convRepo.MarkRead(ctx, conversationID); err != nil {
		// Reading still succeeded; the badge will catch up next time
		s.logger.Warn("Failed to clear unread counter", "error", err, "conversationID", conversationID)
	}

	return messages, nil
}

// SendMessage appends an outgoing message and queues it for delivery through
// the outbox in the same transaction
func (s *ConversationService) SendMessage(ctx context.Context, conversationID, text string) (*models.Message, error) {
	if _, err := s.convRepo.GetByID(ctx, conversationID); err != nil {
		return nil, err
	}

	msg := models.NewMessage(conversationID, text)

	outboxMsg, err := models.NewMessageSentEvent(msg)

	if err != nil {
		s.logger.Error("Failed to create outbox message", "error", err)
		return nil, fmt.Errorf("failed to create outbox message: %w", err)
	}

	tx, err := s.convRepo.BeginTx(ctx)

	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	if err = s.convRepo.CreateMessageInTx(tx, msg); err != nil {
		return nil, err
	}

	if err = s.outboxRepo.CreateInTx(tx, outboxMsg); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error("Failed to commit transaction", "error", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Message sent", "conversationID", conversationID, "messageID", msg.ID)
	return msg, nil
}
