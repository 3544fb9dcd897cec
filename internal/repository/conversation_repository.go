package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tavola/backoffice/internal/database"
	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/pkg/logger"
)

// ConversationRepository handles database operations for conversations and messages
type ConversationRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *database.Database, logger logger.Logger) *ConversationRepository {
	return &ConversationRepository{
		db:     db,
		logger: logger,
	}
}

// GetAll retrieves conversations, optionally filtered by status, most recent first
func (r *ConversationRepository) GetAll(ctx context.Context, status models.ConversationStatus) ([]*models.Conversation, error) {
	query := `
		SELECT id, customer_name, customer_phone, last_message, last_message_time, unread_count, status
		FROM conversations
		WHERE ($1 = '' OR status = $1)
		ORDER BY last_message_time DESC
	`

	var conversations []*models.Conversation
	err := r.db.DB.SelectContext(ctx, &conversations, query, status)

	if err != nil {
		r.logger.Error("Failed to get conversations", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return conversations, nil
}

// GetByID retrieves a conversation by its ID
func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	query := `
		SELECT id, customer_name, customer_phone, last_message, last_message_time, unread_count, status
		FROM conversations
		WHERE id = $1
	`

	var conversation models.Conversation
	err := r.db.DB.GetContext(ctx, &conversation, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get conversation", "error", err, "conversationID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &conversation, nil
}

// GetMessages retrieves the messages of a conversation, oldest first
func (r *ConversationRepository) GetMessages(ctx context.Context, conversationID string) ([]*models.Message, error) {
	query := `
		SELECT id, conversation_id, text, sender, sent_at, delivery_status
		FROM messages
		WHERE conversation_id = $1
		ORDER BY sent_at ASC
	`

	var messages []*models.Message
	err := r.db.DB.SelectContext(ctx, &messages, query, conversationID)

	if err != nil {
		r.logger.Error("Failed to get messages", "error", err, "conversationID", conversationID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return messages, nil
}

// CreateMessageInTx appends a message and refreshes the conversation summary row
func (r *ConversationRepository) CreateMessageInTx(tx *sql.Tx, msg *models.Message) error {
	insert := `
		INSERT INTO messages (id, conversation_id, text, sender, sent_at, delivery_status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(
		insert,
		msg.ID,
		msg.ConversationID,
		msg.Text,
		msg.Sender,
		msg.SentAt,
		msg.DeliveryStatus,
	)

	if err != nil {
		r.logger.Error("Failed to create message", "error", err, "conversationID", msg.ConversationID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	update := `
		UPDATE conversations
		SET last_message = $1, last_message_time = $2
		WHERE id = $3
	`

	result, err := tx.Exec(update, msg.Text, msg.SentAt, msg.ConversationID)

	if err != nil {
		r.logger.Error("Failed to update conversation summary", "error", err, "conversationID", msg.ConversationID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// MarkRead clears the unread counter on a conversation
func (r *ConversationRepository) MarkRead(ctx context.Context, conversationID string) error {
	query := `UPDATE conversations SET unread_count = 0 WHERE id = $1`

	_, err := r.db.DB.ExecContext(ctx, query, conversationID)

	if err != nil {
		r.logger.Error("Failed to mark conversation read", "error", err, "conversationID", conversationID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// CountActive counts conversations with active status
func (r *ConversationRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM conversations WHERE status = $1`

	err := r.db.DB.GetContext(ctx, &count, query, models.ConversationStatusActive)

	if err != nil {
		r.logger.Error("Failed to count active conversations", "error", err)
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return count, nil
}

// BeginTx starts a new database transaction
func (r *ConversationRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.DB.BeginTx(ctx, nil)

	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return tx, nil
}
