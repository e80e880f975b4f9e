package memory

import (
	"time"

	"legalaid-intake-be/pkg/wizard"

	"github.com/patrickmn/go-cache"
)

// SessionRepository holds the live wizard of every owner and document type.
// Idle sessions expire; their drafts stay in the draft store and are restored
// on the next open.
type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func sessionKey(owner string, d wizard.DocumentType) string {
	return owner + "/" + string(d)
}

// GetOrCreate returns the cached wizard or stores the one built by open.
// Access refreshes the expiry.
func (r *SessionRepository) GetOrCreate(owner string, d wizard.DocumentType, open func() *wizard.Wizard) *wizard.Wizard {
	key := sessionKey(owner, d)
	if x, found := r.cache.Get(key); found {
		w := x.(*wizard.Wizard)
		r.cache.SetDefault(key, w)
		return w
	}

	w := open()
	if err := r.cache.Add(key, w, cache.DefaultExpiration); err != nil {
		// Another request opened it first; use theirs.
		if x, found := r.cache.Get(key); found {
			return x.(*wizard.Wizard)
		}
		r.cache.SetDefault(key, w)
	}
	return w
}

func (r *SessionRepository) Get(owner string, d wizard.DocumentType) (*wizard.Wizard, bool) {
	if x, found := r.cache.Get(sessionKey(owner, d)); found {
		return x.(*wizard.Wizard), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(owner string, d wizard.DocumentType) {
	r.cache.Delete(sessionKey(owner, d))
}

