package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

type ByChatMessageIDs struct {
	ChatMessageIDs []uuid.UUID
}

func (s ByChatMessageIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_message_id IN ?", s.ChatMessageIDs)
}

// UserOwnedBy constrains session reads and writes to the owning user.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
