package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadDocumentRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Scope   string `json:"scope" validate:"required,oneof=finance marketing hr engineering general"`
	Content string `json:"content" validate:"required"`
}

type UploadDocumentResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Scope     string    `json:"scope"`
	CreatedAt time.Time `json:"created_at"`
}

// PublishEmbedDocumentMessage is the payload sent over the ingestion topic.
// The consumer chunks, embeds and indexes the referenced document.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type GetAllDocumentsResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Scope     string    `json:"scope"`
	Indexed   bool      `json:"indexed"`
	CreatedAt time.Time `json:"created_at"`
}
