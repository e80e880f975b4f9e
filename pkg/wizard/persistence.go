package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// KeyValueStore is the local key-value collaborator drafts are written to.
// Implementations must apply writes in call order so the last edit wins.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Logger is the subset of the service logger the wizard reports through.
type Logger interface {
	Debug(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}

const persistenceModule = "DraftStore"

// DraftKey is the storage key of the single draft an owner keeps per
// document type.
func DraftKey(owner string, d DocumentType) string {
	return fmt.Sprintf("draft:%s:%s", owner, d)
}

// DraftStore saves and restores PersistenceRecords as JSON text. It never
// surfaces storage failures: writes are fire-and-forget and unreadable drafts
// restore as nil.
type DraftStore struct {
	kv  KeyValueStore
	log Logger
}

func NewDraftStore(kv KeyValueStore, log Logger) *DraftStore {
	if log == nil {
		log = nopLogger{}
	}
	return &DraftStore{kv: kv, log: log}
}

func (s *DraftStore) Save(ctx context.Context, key string, record PersistenceRecord) {
	if record.Values == nil {
		record.Values = map[string]string{}
	}
	data, err := json.Marshal(record)
	if err != nil {
		s.log.Error(persistenceModule, "Failed to encode draft", map[string]interface{}{"key": key, "error": err.Error()})
		return
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.log.Warn(persistenceModule, "Draft write dropped", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (s *DraftStore) Restore(ctx context.Context, key string) *PersistenceRecord {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn(persistenceModule, "Draft read failed, starting empty", map[string]interface{}{"key": key, "error": err.Error()})
		return nil
	}
	if !found {
		return nil
	}

	var record PersistenceRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.log.Warn(persistenceModule, "Malformed draft ignored", map[string]interface{}{"key": key, "error": err.Error()})
		return nil
	}
	if !record.DocumentType.Valid() {
		s.log.Warn(persistenceModule, "Draft has unknown document type", map[string]interface{}{"key": key, "document_type": record.DocumentType})
		return nil
	}
	if record.Values == nil {
		record.Values = map[string]string{}
	}
	return &record
}

func (s *DraftStore) Clear(ctx context.Context, key string) {
	if err := s.kv.Remove(ctx, key); err != nil {
		s.log.Warn(persistenceModule, "Draft removal failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func newRecord(state FormState, at time.Time) PersistenceRecord {
	snap := state.Snapshot()
	return PersistenceRecord{
		DocumentType:    snap.DocumentType,
		Values:          snap.Values,
		ActiveStepIndex: snap.ActiveStepIndex,
		SavedAt:         at,
	}
}
