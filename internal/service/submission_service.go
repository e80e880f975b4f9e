package service

import (
	"context"
	"errors"
	"time"

	"legalaid-intake-be/internal/dto"
	"legalaid-intake-be/internal/entity"
	"legalaid-intake-be/internal/repository/specification"
	"legalaid-intake-be/internal/repository/unitofwork"
	"legalaid-intake-be/pkg/wizard"

	"github.com/google/uuid"
)

var ErrSubmissionNotFound = errors.New("submission not found")

const maxSubmissionPageSize = 100

type SubmissionFilter struct {
	DocumentType string
	Since        time.Time
	Page         int
	Limit        int
}

type ISubmissionService interface {
	List(ctx context.Context, userId uuid.UUID, filter SubmissionFilter) (*dto.SubmissionListResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SubmissionResponse, error)
}

type submissionService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewSubmissionService(uowFactory unitofwork.RepositoryFactory) ISubmissionService {
	return &submissionService{uowFactory: uowFactory}
}

func (s *submissionService) List(ctx context.Context, userId uuid.UUID, filter SubmissionFilter) (*dto.SubmissionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > maxSubmissionPageSize {
		filter.Limit = 10
	}

	specs := []specification.Specification{specification.OwnedBy{UserID: userId}}
	if filter.DocumentType != "" {
		d, err := wizard.ParseDocumentType(filter.DocumentType)
		if err != nil {
			return nil, err
		}
		specs = append(specs, specification.ByDocumentType{DocumentType: string(d)})
	}
	if !filter.Since.IsZero() {
		specs = append(specs, specification.CreatedAfter{Time: filter.Since})
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).SubmissionRepository()
	total, err := repo.Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	page := append(specs, specification.Pagination{Limit: filter.Limit, Offset: (filter.Page - 1) * filter.Limit})
	rows, err := repo.FindAll(ctx, page...)
	if err != nil {
		return nil, err
	}

	res := &dto.SubmissionListResponse{
		Items: make([]dto.SubmissionResponse, 0, len(rows)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for _, row := range rows {
		// values carry personal data; the list only shows what was filed and when
		item := toSubmissionResponse(row)
		item.Values = nil
		res.Items = append(res.Items, item)
	}
	return res, nil
}

func (s *submissionService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SubmissionResponse, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).SubmissionRepository()
	row, err := repo.FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrSubmissionNotFound
	}

	res := toSubmissionResponse(row)
	return &res, nil
}

func toSubmissionResponse(s *entity.Submission) dto.SubmissionResponse {
	return dto.SubmissionResponse{
		Id:            s.Id,
		DocumentType:  s.DocumentType,
		Action:        s.Action,
		ServerId:      s.ServerId,
		Values:        s.Values,
		ReceiptSentAt: s.ReceiptSentAt,
		CreatedAt:     s.CreatedAt,
	}
}
