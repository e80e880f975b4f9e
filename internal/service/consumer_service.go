package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"legalaid-intake-be/internal/dto"
	"legalaid-intake-be/internal/entity"
	"legalaid-intake-be/internal/pkg/logger"
	"legalaid-intake-be/internal/pkg/mailer"
	"legalaid-intake-be/internal/repository/specification"
	"legalaid-intake-be/internal/repository/unitofwork"
	"legalaid-intake-be/pkg/events"
	"legalaid-intake-be/pkg/wizard"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	// Consume processes completed submissions until ctx is cancelled.
	Consume(ctx context.Context) error
	// ResendPendingReceipts retries receipts whose first send failed.
	ResendPendingReceipts(ctx context.Context) (int, error)
}

const receiptBatchSize = 50

// EventPublisher puts events on the shared bus. *nats.Publisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	events     EventPublisher
	logger     logger.ILogger
	now        func() time.Time
}

// NewConsumerService wires the submission consumer. mailer and events may be
// nil when SMTP or NATS are not configured.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	mailer mailer.IEmailService,
	events EventPublisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		mailer:     mailer,
		events:     events,
		logger:     log,
		now:        time.Now,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}
	cs.logger.Info("ConsumerService", "Consuming completed submissions", map[string]interface{}{"topic": cs.topicName})

	for msg := range messages {
		cs.processMessage(ctx, msg)
	}
	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SubmissionCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // a malformed message never becomes valid
		return
	}

	if err := cs.handle(ctx, payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to process submission", map[string]interface{}{
			"server_id": payload.ServerId,
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()
}

// handle is safe to repeat for the same message: a submission already
// recorded under its server id is not recorded or emailed again, and its
// CASE_CREATED event carries the same timestamp.
func (cs *consumerService) handle(ctx context.Context, payload dto.SubmissionCompletedMessage) error {
	userId, err := uuid.Parse(payload.UserId)
	if err != nil {
		cs.logger.Warn("ConsumerService", "Submission without valid user", map[string]interface{}{"user_id": payload.UserId})
		return nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()
	repo := uow.SubmissionRepository()

	existing, err := repo.FindOne(ctx, specification.ByServerID{ServerID: payload.ServerId})
	if err != nil {
		return fmt.Errorf("lookup submission: %w", err)
	}

	submission := existing
	if submission == nil {
		submission = &entity.Submission{
			Id:           uuid.New(),
			UserId:       userId,
			DocumentType: payload.DocumentType,
			Action:       payload.Action,
			ServerId:     payload.ServerId,
			Values:       payload.Values,
			ReceiptEmail: strings.TrimSpace(payload.Values["email"]),
			CreatedAt:    payload.SubmittedAt,
		}
		if err := repo.Create(ctx, submission); err != nil {
			return fmt.Errorf("record submission: %w", err)
		}
		cs.logger.Info("ConsumerService", "Submission recorded", map[string]interface{}{
			"submission_id": submission.Id,
			"document_type": submission.DocumentType,
		})
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit submission: %w", err)
	}

	// receipt bookkeeping happens after the record is committed
	repo = cs.uowFactory.NewUnitOfWork(ctx).SubmissionRepository()

	if submission.ReceiptEmail != "" && submission.ReceiptSentAt == nil {
		cs.sendReceipt(ctx, repo.MarkReceiptSent, submission)
	}

	// republished on every delivery so a failed publish is retried by the
	// nack; the dashboard ignores a create it has already applied
	if payload.Action == string(wizard.ActionCreateCase) {
		return cs.publishCaseCreated(ctx, userId, payload)
	}
	return nil
}

func (cs *consumerService) ResendPendingReceipts(ctx context.Context) (int, error) {
	if cs.mailer == nil {
		return 0, nil
	}
	repo := cs.uowFactory.NewUnitOfWork(ctx).SubmissionRepository()
	pending, err := repo.FindAll(ctx,
		specification.ReceiptPending{},
		specification.Pagination{Limit: receiptBatchSize},
	)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, s := range pending {
		if cs.sendReceipt(ctx, repo.MarkReceiptSent, s) {
			sent++
		}
	}
	return sent, nil
}

func (cs *consumerService) sendReceipt(ctx context.Context, mark func(context.Context, uuid.UUID, time.Time) error, s *entity.Submission) bool {
	if cs.mailer == nil {
		return false
	}
	err := cs.mailer.SendReceipt(s.ReceiptEmail, mailer.Receipt{
		FullName:     s.Values["fullName"],
		DocumentType: s.DocumentType,
		Reference:    s.ServerId,
		SubmittedAt:  s.CreatedAt,
	})
	if err != nil {
		// the submission is recorded; ResendPendingReceipts picks this up later
		cs.logger.Warn("ConsumerService", "Receipt email failed", map[string]interface{}{"submission_id": s.Id, "error": err.Error()})
		return false
	}
	if err := mark(ctx, s.Id, cs.now()); err != nil {
		cs.logger.Warn("ConsumerService", "Failed to mark receipt sent", map[string]interface{}{"submission_id": s.Id, "error": err.Error()})
	}
	return true
}

func (cs *consumerService) publishCaseCreated(ctx context.Context, userId uuid.UUID, payload dto.SubmissionCompletedMessage) error {
	if cs.events == nil {
		return nil
	}
	at := payload.SubmittedAt
	if at.IsZero() {
		at = cs.now().UTC()
	}
	ev := events.BaseEvent{
		Type: events.TypeCaseCreated,
		Data: map[string]interface{}{
			"user_id":       userId.String(),
			"case_id":       payload.ServerId,
			"title":         caseTitle(payload),
			"document_type": payload.DocumentType,
			"status":        "open",
			"updated_at":    at.Format(time.RFC3339Nano),
		},
		OccurredAt: at,
	}
	if err := cs.events.Publish(ctx, ev); err != nil {
		return fmt.Errorf("publish %s: %w", events.TypeCaseCreated, err)
	}
	return nil
}

func caseTitle(payload dto.SubmissionCompletedMessage) string {
	name := strings.TrimSpace(payload.Values["fullName"])
	if name == "" {
		return payload.DocumentType
	}
	return fmt.Sprintf("%s: %s", payload.DocumentType, name)
}
