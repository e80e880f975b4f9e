package wizard

import (
	"context"
	"fmt"
	"strings"
)

// TemplateDescriptor describes a document template offered by the backend.
type TemplateDescriptor struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	DocumentType DocumentType `json:"document_type"`
	Available    bool         `json:"available"`
}

// DocumentHandle identifies what the backend created on submission.
type DocumentHandle struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// API is the remote collaborator behind the wizard.
type API interface {
	FetchTemplates(ctx context.Context) ([]TemplateDescriptor, error)
	GenerateDocument(ctx context.Context, d DocumentType, values map[string]string) (DocumentHandle, error)
	CreateCase(ctx context.Context, d DocumentType, values map[string]string) (DocumentHandle, error)
	CheckEligibility(ctx context.Context, values map[string]string) (EligibilityResult, error)
	SaveProgress(ctx context.Context, record PersistenceRecord) error
}

// TemplateCache is implemented by APIs that cache the template list. A
// denied template gate drops the cache so the next attempt sees fresh data.
type TemplateCache interface {
	InvalidateTemplates()
}

const coordinatorModule = "SubmissionCoordinator"

// Coordinator sequences the remote side effects of a wizard: step gates and
// the final submission. Every remote failure is converted into a result value.
type Coordinator struct {
	api      API
	registry *Registry
	log      Logger
}

func NewCoordinator(api API, registry *Registry, log Logger) *Coordinator {
	if log == nil {
		log = nopLogger{}
	}
	return &Coordinator{api: api, registry: registry, log: log}
}

// Submit calls the schema's submit action exactly once. It never retries.
func (c *Coordinator) Submit(ctx context.Context, d DocumentType, values map[string]string) SubmissionResult {
	schema, err := c.registry.Schema(d)
	if err != nil {
		return SubmissionResult{ErrorMessage: err.Error()}
	}

	var handle DocumentHandle
	switch schema.Submit() {
	case ActionCreateCase:
		handle, err = c.api.CreateCase(ctx, d, values)
	default:
		handle, err = c.api.GenerateDocument(ctx, d, values)
	}
	if err != nil {
		c.log.Warn(coordinatorModule, "Submission failed", map[string]interface{}{
			"document_type": d,
			"action":        schema.Submit(),
			"error":         err.Error(),
		})
		return SubmissionResult{ErrorMessage: failureMessage(err)}
	}

	c.log.Debug(coordinatorModule, "Submission accepted", map[string]interface{}{"document_type": d, "server_id": handle.ID})
	return SubmissionResult{Success: true, ServerID: handle.ID}
}

// RunGate evaluates the asynchronous check attached to a step.
func (c *Coordinator) RunGate(ctx context.Context, gate Gate, d DocumentType, values map[string]string) GateResult {
	res := GateResult{Gate: gate}

	switch gate {
	case GateNone:
		res.Allowed = true

	case GateEligibility:
		answer, err := c.api.CheckEligibility(ctx, values)
		if err != nil {
			c.log.Warn(coordinatorModule, "Eligibility check failed", map[string]interface{}{"document_type": d, "error": err.Error()})
			res.Failure = failureMessage(err)
			return res
		}
		res.Allowed = answer.Eligible
		res.Reason = answer.Reason

	case GateTemplate:
		templates, err := c.api.FetchTemplates(ctx)
		if err != nil {
			c.log.Warn(coordinatorModule, "Template fetch failed", map[string]interface{}{"document_type": d, "error": err.Error()})
			res.Failure = failureMessage(err)
			return res
		}
		for _, t := range templates {
			if t.DocumentType == d && t.Available {
				res.Allowed = true
				return res
			}
		}
		res.Reason = fmt.Sprintf("no %s template is currently available", d)
		if tc, ok := c.api.(TemplateCache); ok {
			tc.InvalidateTemplates()
		}

	default:
		res.Failure = fmt.Sprintf("unknown gate %q", gate)
	}
	return res
}

func (c *Coordinator) SaveProgress(ctx context.Context, record PersistenceRecord) error {
	return c.api.SaveProgress(ctx, record)
}

func failureMessage(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "submission failed"
}
