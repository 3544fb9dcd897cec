package models

import (
	"time"
)

// ConversationStatus marks a customer thread as active or closed
type ConversationStatus string

const (
	ConversationStatusActive ConversationStatus = "active"
	ConversationStatusClosed ConversationStatus = "closed"
)

// MessageSender identifies which side of the conversation sent a message
type MessageSender string

const (
	MessageSenderCustomer   MessageSender = "customer"
	MessageSenderRestaurant MessageSender = "restaurant"
)

// Conversation is a customer chat thread shown in the back office
type Conversation struct {
	ID              string             `db:"id" json:"id"`
	CustomerName    string             `db:"customer_name" json:"customer_name"`
	CustomerPhone   string             `db:"customer_phone" json:"customer_phone"`
	LastMessage     string             `db:"last_message" json:"last_message"`
	LastMessageTime time.Time          `db:"last_message_time" json:"last_message_time"`
	UnreadCount     int                `db:"unread_count" json:"unread_count"`
	Status          ConversationStatus `db:"status" json:"status"`
}

// Message is a single message within a conversation
type Message struct {
	ID             string        `db:"id" json:"id"`
	ConversationID string        `db:"conversation_id" json:"conversation_id"`
	Text           string        `db:"text" json:"text"`
	Sender         MessageSender `db:"sender" json:"sender"`
	SentAt         time.Time     `db:"sent_at" json:"sent_at"`
	DeliveryStatus string        `db:"delivery_status" json:"delivery_status"`
}

// NewMessage creates a message sent by the restaurant side
func NewMessage(conversationID, text string) *Message {
	return &Message{
		ID:             GenerateID("msg"),
		ConversationID: conversationID,
		Text:           text,
		Sender:         MessageSenderRestaurant,
		SentAt:         GetCurrentTime(),
		DeliveryStatus: "sent",
	}
}
