package service

import (
	"context"
	"fmt"

	"legalaid-intake-be/internal/dto"
	"legalaid-intake-be/pkg/wizard"
)

type ITemplateService interface {
	// List returns the backend's templates, optionally only those for one
	// document type.
	List(ctx context.Context, documentType string) ([]dto.TemplateResponse, error)
}

// TemplateSource is the part of the legal API the template listing needs.
type TemplateSource interface {
	FetchTemplates(ctx context.Context) ([]wizard.TemplateDescriptor, error)
}

type templateService struct {
	source TemplateSource
}

func NewTemplateService(source TemplateSource) ITemplateService {
	return &templateService{source: source}
}

func (s *templateService) List(ctx context.Context, documentType string) ([]dto.TemplateResponse, error) {
	var filter wizard.DocumentType
	if documentType != "" {
		d, err := wizard.ParseDocumentType(documentType)
		if err != nil {
			return nil, err
		}
		filter = d
	}

	templates, err := s.source.FetchTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch templates: %w", err)
	}

	res := make([]dto.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		if filter != "" && t.DocumentType != filter {
			continue
		}
		res = append(res, dto.TemplateResponse{
			Id:           t.ID,
			Name:         t.Name,
			DocumentType: string(t.DocumentType),
			Available:    t.Available,
		})
	}
	return res, nil
}
