package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"legalaid-intake-be/internal/dto"
	"legalaid-intake-be/internal/pkg/logger"
	"legalaid-intake-be/internal/repository/memory"
	"legalaid-intake-be/pkg/wizard"

	"github.com/google/uuid"
)

type IWizardService interface {
	Schemas() []dto.SchemaResponse
	Open(ctx context.Context, userId uuid.UUID, documentType string) (*dto.WizardStateResponse, error)
	SetFields(ctx context.Context, userId uuid.UUID, documentType string, values map[string]string) (*dto.WizardStateResponse, error)
	Next(ctx context.Context, userId uuid.UUID, documentType string) (*dto.NextResponse, error)
	Back(ctx context.Context, userId uuid.UUID, documentType string) (*dto.WizardStateResponse, error)
	Jump(ctx context.Context, userId uuid.UUID, documentType string, index int) (*dto.WizardStateResponse, error)
	Reset(ctx context.Context, userId uuid.UUID, documentType string) (*dto.WizardStateResponse, error)
	SaveProgress(ctx context.Context, userId uuid.UUID, documentType string) (*dto.WizardStateResponse, error)
}

type wizardService struct {
	registry    *wizard.Registry
	sessions    *memory.SessionRepository
	drafts      *wizard.DraftStore
	coordinator *wizard.Coordinator
	publisher   IPublisherService
	logger      logger.ILogger
}

func NewWizardService(
	registry *wizard.Registry,
	sessions *memory.SessionRepository,
	drafts *wizard.DraftStore,
	coordinator *wizard.Coordinator,
	publisher IPublisherService,
	log logger.ILogger,
) IWizardService {
	return &wizardService{
		registry:    registry,
		sessions:    sessions,
		drafts:      drafts,
		coordinator: coordinator,
		publisher:   publisher,
		logger:      log,
	}
}

func (s *wizardService) Schemas() []dto.SchemaResponse {
	out := make([]dto.SchemaResponse, 0, len(s.registry.DocumentTypes()))
	for _, d := range s.registry.DocumentTypes() {
		schema, err := s.registry.Schema(d)
		if err != nil {
			continue
		}
		out = append(out, toSchemaResponse(schema))
	}
	return out
}

// session returns the caller's live wizard for documentType, opening it from
// the stored draft on first use.
func (s *wizardService) session(ctx context.Context, userId uuid.UUID, documentType string) (*wizard.Wizard, error) {
	d, err := wizard.ParseDocumentType(documentType)
	if err != nil {
		return nil, err
	}
	schema, err := s.registry.Schema(d)
	if err != nil {
		return nil, err
	}

	owner := userId.String()
	return s.sessions.GetOrCreate(owner, d, func() *wizard.Wizard {
		return wizard.Open(ctx, schema, wizard.Options{
			Drafts:      s.drafts,
			DraftKey:    wizard.DraftKey(owner, d),
			Coordinator: s.coordinator,
		})
	}), nil
}

func (s *wizardService) Open(ctx context.Context, userId uuid.UUID, documentType string) (*dto.WizardStateResponse, error) {
	w, err := s.session(ctx, userId, documentType)
	if err != nil {
		return nil, err
	}
	return toStateResponse(w), nil
}

func (s *wizardService) SetFields(ctx context.Context, userId uuid.UUID, documentType string, values map[string]string) (*dto.WizardStateResponse, error) {
	w, err := s.session(ctx, userId, documentType)
	if err != nil {
		return nil, err
	}
	if err := w.SetFields(ctx, values); err != nil {
		return nil, err
	}
	return toStateResponse(w), nil
}

func (s *wizardService) Next(ctx context.Context, userId uuid.UUID, documentType string) (*dto.NextResponse, error) {
	w, err := s.session(ctx, userId, documentType)
	if err != nil {
		return nil, err
	}

	out, err := w.Next(ctx)
	if err != nil {
		return nil, err
	}

	if out.Submission != nil && out.Submission.Success {
		s.publishCompleted(ctx, userId, w.Schema(), out)
	}

	return &dto.NextResponse{
		Advanced:   out.Advanced,
		Gate:       out.Gate,
		Submission: out.Submission,
		State:      toStateResponse(w),
	}, nil
}

// publishCompleted hands the accepted submission to the background consumer.
// The submission already happened, so a failure here is logged, not returned.
func (s *wizardService) publishCompleted(ctx context.Context, userId uuid.UUID, schema *wizard.Schema, out wizard.NextOutcome) {
	msg := dto.SubmissionCompletedMessage{
		UserId:       userId.String(),
		DocumentType: string(schema.DocumentType()),
		Action:       string(schema.Submit()),
		ServerId:     out.Submission.ServerID,
		Values:       out.Submitted,
		SubmittedAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err == nil {
		err = s.publisher.Publish(ctx, payload)
	}
	if err != nil {
		s.logger.Error("WizardService", "Failed to publish completed submission", map[string]interface{}{
			"user_id":       userId,
			"document_type": msg.DocumentType,
			"server_id":     msg.ServerId,
			"error":         err.Error(),
		})
	}
}

func (s *wizardService) Back(ctx context.Context, userId uuid.UUID, documentType string) (*dto.WizardStateResponse, error) {
	w, err := s.session(ctx, userId, documentType)
	if err != nil {
		return nil, err
	}
	if err := w.Back(ctx); err != nil {
		return nil, err
	}
	return toStateResponse(w), nil
}

func (s *wizardService) Jump(ctx context.Context, userId uuid.UUID, documentType string, index int) (*dto.WizardStateResponse, error) {
	w, err := s.session(ctx, userId, documentType)
	if err != nil {
		return nil, err
	}
	if err := w.JumpToStep(ctx, index); err != nil {
		return nil, err
	}
	return toStateResponse(w), nil
}

// Reset discards the caller's wizard and draft. The next request opens a
// fresh session.
func (s *wizardService) Reset(ctx context.Context, userId uuid.UUID, documentType string) (*dto.WizardStateResponse, error) {
	d, err := wizard.ParseDocumentType(documentType)
	if err != nil {
		return nil, err
	}
	schema, err := s.registry.Schema(d)
	if err != nil {
		return nil, err
	}

	owner := userId.String()
	if w, ok := s.sessions.Get(owner, d); ok {
		if err := w.Reset(ctx); err != nil {
			return nil, err
		}
		s.sessions.Delete(owner, d)
	} else {
		s.drafts.Clear(ctx, wizard.DraftKey(owner, d))
	}

	return &dto.WizardStateResponse{
		DocumentType: string(d),
		Phase:        string(wizard.PhaseEditing),
		StepCount:    schema.StepCount(),
		Values:       map[string]string{},
	}, nil
}

func (s *wizardService) SaveProgress(ctx context.Context, userId uuid.UUID, documentType string) (*dto.WizardStateResponse, error) {
	w, err := s.session(ctx, userId, documentType)
	if err != nil {
		return nil, err
	}
	if err := w.SaveProgress(ctx); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return toStateResponse(w), nil
}

func toStateResponse(w *wizard.Wizard) *dto.WizardStateResponse {
	st := w.State()
	return &dto.WizardStateResponse{
		DocumentType:    string(st.DocumentType),
		Phase:           string(w.Phase()),
		ActiveStepIndex: st.ActiveStepIndex,
		StepCount:       w.Schema().StepCount(),
		Values:          st.Values,
		LastPersistedAt: st.LastPersistedAt,
	}
}

func toSchemaResponse(schema *wizard.Schema) dto.SchemaResponse {
	res := dto.SchemaResponse{
		DocumentType: string(schema.DocumentType()),
		Label:        schema.Label(),
		Submit:       string(schema.Submit()),
		Steps:        make([]dto.StepResponse, 0, schema.StepCount()),
	}
	for _, step := range schema.Steps() {
		sr := dto.StepResponse{
			Index:  step.Index,
			Label:  step.Label,
			Gate:   string(step.Gate),
			Review: step.IsReview(),
			Fields: make([]dto.FieldResponse, 0, len(step.FieldIDs)),
		}
		for _, id := range step.FieldIDs {
			f, ok := schema.Field(id)
			if !ok {
				continue
			}
			sr.Fields = append(sr.Fields, dto.FieldResponse{
				Id:       f.ID,
				Label:    f.Label,
				Kind:     string(f.Kind),
				Required: f.Required,
				Options:  f.Options,
			})
		}
		res.Steps = append(res.Steps, sr)
	}
	return res
}
