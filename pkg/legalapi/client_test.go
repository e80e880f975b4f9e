package legalapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"legalaid-intake-be/pkg/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Token: "secret", Timeout: 2 * time.Second})
}

func TestClient_FetchTemplatesCaches(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/templates", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"templates":[{"id":"t1","name":"Eviction answer","document_type":"housing","available":true}]}`))
	})

	ctx := context.Background()
	first, err := c.FetchTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, wizard.DocumentHousing, first[0].DocumentType)

	first[0].Name = "mutated"
	second, err := c.FetchTemplates(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Eviction answer", second[0].Name)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	c.InvalidateTemplates()
	_, err = c.FetchTemplates(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_DeniedTemplateGateRefetches(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			_, _ = w.Write([]byte(`{"templates":[{"id":"t1","document_type":"housing","available":false}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"templates":[{"id":"t1","document_type":"housing","available":true}]}`))
	})
	coord := wizard.NewCoordinator(c, wizard.MustLoadRegistry(), nil)
	ctx := context.Background()

	res := coord.RunGate(ctx, wizard.GateTemplate, wizard.DocumentHousing, nil)
	assert.False(t, res.Allowed)

	res = coord.RunGate(ctx, wizard.GateTemplate, wizard.DocumentHousing, nil)
	assert.True(t, res.Allowed)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_SubmitRoutes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch r.URL.Path {
		case "/documents/generate":
			assert.Equal(t, wizard.DocumentFeeWaiver, req.DocumentType)
			_, _ = w.Write([]byte(`{"id":"doc-1","url":"https://files.example/doc-1.pdf"}`))
		case "/cases":
			assert.Equal(t, "Ana", req.Values["fullName"])
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"case-9"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	doc, err := c.GenerateDocument(ctx, wizard.DocumentFeeWaiver, map[string]string{"fullName": "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)

	cs, err := c.CreateCase(ctx, wizard.DocumentImmigration, map[string]string{"fullName": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "case-9", cs.ID)
}

func TestClient_NonSuccessBecomesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"county is not served"}`))
	})

	_, err := c.GenerateDocument(context.Background(), wizard.DocumentExpungement, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Contains(t, err.Error(), "county is not served")
}

func TestClient_EligibilityAndSave(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/eligibility/expungement":
			_, _ = w.Write([]byte(`{"eligible":false,"reason":"waiting period not met"}`))
		case "/drafts/housing":
			assert.Equal(t, http.MethodPut, r.Method)
			w.WriteHeader(http.StatusNoContent)
		}
	})

	ctx := context.Background()
	res, err := c.CheckEligibility(ctx, map[string]string{"county": "Kern"})
	require.NoError(t, err)
	assert.False(t, res.Eligible)
	assert.Equal(t, "waiting period not met", res.Reason)

	require.NoError(t, c.SaveProgress(ctx, wizard.PersistenceRecord{DocumentType: wizard.DocumentHousing}))
}

func TestClient_TransportFailureFeedsCoordinator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, Timeout: time.Second})
	coord := wizard.NewCoordinator(c, wizard.MustLoadRegistry(), nil)
	res := coord.Submit(context.Background(), wizard.DocumentFeeWaiver, map[string]string{"fullName": "Jane"})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.ErrorMessage)
}
