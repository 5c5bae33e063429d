package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatCitation links a persisted answer to the sources it was grounded on.
// Title and Scope are denormalized so history reads stay join-free.
type ChatCitation struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatMessageId uuid.UUID `gorm:"type:uuid;not null;index"`
	SourceId      uuid.UUID `gorm:"type:uuid;not null;index"`
	SourceType    string    `gorm:"type:varchar(20);not null"`
	Title         string    `gorm:"type:varchar(255);not null"`
	Scope         string    `gorm:"type:varchar(50);not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	ChatMessage *ChatMessage `gorm:"foreignKey:ChatMessageId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ChatCitation) TableName() string {
	return "chat_citations"
}
