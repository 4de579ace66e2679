package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peterkacmarik/dockify/internal/classifier"
	"github.com/peterkacmarik/dockify/internal/cleaner"
	"github.com/peterkacmarik/dockify/internal/exporter"
	"github.com/peterkacmarik/dockify/internal/fields"
	"github.com/peterkacmarik/dockify/internal/llm"
	"github.com/peterkacmarik/dockify/internal/model"
	"github.com/peterkacmarik/dockify/internal/reader"
	"github.com/peterkacmarik/dockify/internal/store"
)

// ErrSessionNotFound signals an unknown or expired session id.
var ErrSessionNotFound = errors.New("intake session not found")

// Deps carries the collaborators a Manager wires into each session.
type Deps struct {
	Analyzer  *classifier.Analyzer
	Enhancer  *llm.Adapter
	Fields    *fields.Service
	Validator *cleaner.Validator
	Exporter  *exporter.Exporter
	Store     *store.Store
}

// Manager owns the live intake sessions.
type Manager struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(deps Deps) *Manager {
	return &Manager{
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// Upload reads and analyzes an uploaded file, creates a session seeded
// with the suggested mapping (filtered to active field keys) and moves
// it straight to Mapping.
func (m *Manager) Upload(ctx context.Context, filename, mimeType string, data []byte) (*Session, error) {
	kind := reader.DetectKind(filename, mimeType)
	grid, inferences, err := reader.Read(data, kind)
	if err != nil {
		return nil, err
	}

	analysis := m.deps.Analyzer.Analyze(grid, inferences)
	if m.deps.Enhancer != nil {
		m.deps.Enhancer.Enhance(ctx, analysis)
	}

	active := make(map[string]bool)
	for _, key := range m.deps.Fields.ActiveKeys() {
		active[key] = true
	}
	mapping := make(map[int]string)
	for col, key := range analysis.SuggestedMapping() {
		if active[key] {
			mapping[col] = key
		}
	}

	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		validator: m.deps.Validator,
		exporter:  m.deps.Exporter,
		step:      StepMapping,
		grid:      grid,
		analysis:  analysis,
		mapping:   mapping,
		page:      1,
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session, nil
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Drop removes a session entirely.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// PaginationLimit reads the stored preview page size.
func (m *Manager) PaginationLimit() (int, error) {
	return m.deps.Store.PaginationLimit()
}

// SaveTemplate persists a session's current mapping for a customer so
// later uploads from the same source can reuse it.
func (m *Manager) SaveTemplate(sessionID, customerID, name string) (model.MappingTemplate, error) {
	session, err := m.Get(sessionID)
	if err != nil {
		return model.MappingTemplate{}, err
	}

	mapping := invertMapping(session.Mapping())
	if len(mapping) == 0 {
		return model.MappingTemplate{}, fmt.Errorf("session %s has no mapping to save", sessionID)
	}
	return m.deps.Store.SaveTemplate(customerID, name, mapping)
}
