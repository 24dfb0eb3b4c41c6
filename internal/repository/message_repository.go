package repository

import (
	"context"
	"strings"
	"time"

	"gatortrader/internal/models"
)

// messageDescriptor is the second concrete entity behind the generic
// gateway. Messages are write-once: no revision timestamp exists to stamp.
type messageDescriptor struct{}

func (messageDescriptor) Table() string { return "message" }

func (messageDescriptor) MapRow(row map[string]interface{}) (*models.Message, error) {
	return models.MapMessageRow(row)
}

func (messageDescriptor) Validate(message *models.Message) error {
	if message.SenderID <= 0 {
		return &ValidationError{Field: "sender_id", Reason: "must reference the sender"}
	}
	if message.RecipientID <= 0 {
		return &ValidationError{Field: "recipient_id", Reason: "must reference the recipient"}
	}
	if message.PostID <= 0 {
		return &ValidationError{Field: "post_id", Reason: "must reference a post"}
	}
	if strings.TrimSpace(message.MessageBody) == "" {
		return &ValidationError{Field: "message_body", Reason: "must not be empty"}
	}
	return nil
}

func (messageDescriptor) StampNew(message *models.Message, now time.Time) {
	message.CreateDate = now
}

func (messageDescriptor) InsertValues(message *models.Message) map[string]interface{} {
	return map[string]interface{}{
		"sender_id":    message.SenderID,
		"recipient_id": message.RecipientID,
		"post_id":      message.PostID,
		"message_body": message.MessageBody,
		"create_date":  message.CreateDate,
	}
}

func (messageDescriptor) AssignID(message *models.Message, id int64) { message.ID = id }

type MessageRepositoryImpl struct {
	gateway    *Gateway
	descriptor EntityDescriptor[*models.Message]
}

func NewMessageRepository(gateway *Gateway) *MessageRepositoryImpl {
	return &MessageRepositoryImpl{gateway: gateway, descriptor: messageDescriptor{}}
}

func (r *MessageRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	return GetSingleRowByID(ctx, r.gateway, r.descriptor, id)
}

func (r *MessageRepositoryImpl) GetByPostID(ctx context.Context, postID int64) ([]*models.Message, error) {
	filters := FilterSet{
		Filters:   []Filter{{Column: "post_id", Op: "=", Value: postID}},
		Sort:      "create_date",
		Direction: DirectionAsc,
	}
	return GetMultipleByFilters(ctx, r.gateway, r.descriptor, filters)
}

func (r *MessageRepositoryImpl) Insert(ctx context.Context, message *models.Message) (*models.Message, error) {
	return InsertNewRecord(ctx, r.gateway, r.descriptor, message)
}
