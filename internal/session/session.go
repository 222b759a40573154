// Package session keeps per-conversation context so that follow-up
// questions can inherit the locations and years of earlier ones.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/apigeo/carbone-cli/internal/db"
	"github.com/apigeo/carbone-cli/internal/nlq"
)

// Store persists conversation context keyed by session id. Get returns a
// zero-value context, not an error, for unknown sessions.
type Store interface {
	Get(ctx context.Context, sessionID string) (nlq.SessionContext, error)
	Put(ctx context.Context, sessionID string, sc nlq.SessionContext) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore is an in-process Store with a sliding expiry, suitable for a
// single-instance deployment or the ask command.
type MemoryStore struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time

	entries map[string]memoryEntry
}

type memoryEntry struct {
	sc      nlq.SessionContext
	touched time.Time
}

// NewMemory returns a MemoryStore whose entries expire ttl after their last
// write. A non-positive ttl disables expiry.
func NewMemory(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (nlq.SessionContext, error) {
	m.mu.RLock()
	e, ok := m.entries[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nlq.SessionContext{}, nil
	}
	if m.ttl > 0 && m.now().Sub(e.touched) > m.ttl {
		m.mu.Lock()
		delete(m.entries, sessionID)
		m.mu.Unlock()
		return nlq.SessionContext{}, nil
	}
	return e.sc, nil
}

func (m *MemoryStore) Put(_ context.Context, sessionID string, sc nlq.SessionContext) error {
	m.mu.Lock()
	m.entries[sessionID] = memoryEntry{sc: sc, touched: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.entries, sessionID)
	m.mu.Unlock()
	return nil
}

// PostgresStore persists context in the nlq_sessions table so that a
// conversation survives server restarts.
type PostgresStore struct {
	pool db.Pool
}

func NewPostgres(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Get(ctx context.Context, sessionID string) (nlq.SessionContext, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx,
		`SELECT context FROM nlq_sessions WHERE session_id = $1`, sessionID,
	).Scan(&raw)
	if eris.Is(err, pgx.ErrNoRows) {
		return nlq.SessionContext{}, nil
	}
	if err != nil {
		return nlq.SessionContext{}, eris.Wrap(err, "session: get")
	}
	var sc nlq.SessionContext
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nlq.SessionContext{}, eris.Wrap(err, "session: decode context")
	}
	return sc, nil
}

func (p *PostgresStore) Put(ctx context.Context, sessionID string, sc nlq.SessionContext) error {
	raw, err := json.Marshal(sc)
	if err != nil {
		return eris.Wrap(err, "session: encode context")
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO nlq_sessions (session_id, context, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id) DO UPDATE SET
			context = excluded.context,
			updated_at = now()`,
		sessionID, raw,
	)
	return eris.Wrap(err, "session: put")
}

func (p *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM nlq_sessions WHERE session_id = $1`, sessionID)
	return eris.Wrap(err, "session: delete")
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
