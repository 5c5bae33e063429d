package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/specification"
	"ai-helpdesk-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Upload(ctx context.Context, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error)
	GetAll(ctx context.Context) ([]*dto.GetAllDocumentsResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

// Upload stores the document and queues it for chunking and embedding. The
// document is searchable only after the consumer marks it indexed.
func (c *documentService) Upload(ctx context.Context, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document := entity.Document{
		Id:        uuid.New(),
		Title:     req.Title,
		Scope:     req.Scope,
		Content:   req.Content,
		Indexed:   false,
		CreatedAt: time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	msgJson, err := json.Marshal(dto.PublishEmbedDocumentMessage{DocumentId: document.Id})
	if err != nil {
		return nil, err
	}
	if err := c.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.UploadDocumentResponse{
		Id:        document.Id,
		Title:     document.Title,
		Scope:     document.Scope,
		CreatedAt: document.CreatedAt,
	}, nil
}

func (c *documentService) GetAll(ctx context.Context) ([]*dto.GetAllDocumentsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllDocumentsResponse, 0, len(documents))
	for _, document := range documents {
		result = append(result, &dto.GetAllDocumentsResponse{
			Id:        document.Id,
			Title:     document.Title,
			Scope:     document.Scope,
			Indexed:   document.Indexed,
			CreatedAt: document.CreatedAt,
		})
	}

	return result, nil
}
