package split

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps splits and templates in process memory.
// It implements Store and TemplateStore; InTx serializes all units of work.
type MemoryStore struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	splits    map[string]*SplitWithParticipants
	templates map[string]*Template
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		splits:    make(map[string]*SplitWithParticipants),
		templates: make(map[string]*Template),
	}
}

// CreateSplitRecord stores copies of the record and participants
func (m *MemoryStore) CreateSplitRecord(ctx context.Context, record *SplitRecord, participants []*Participant) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.splits[record.ID] = cloneSplit(&SplitWithParticipants{Record: record, Participants: participants})
	return record.ID, nil
}

// GetSplitRecord returns a copy of the split if it belongs to the group
func (m *MemoryStore) GetSplitRecord(ctx context.Context, groupID int64, id string) (*SplitWithParticipants, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.splits[id]
	if !ok || s.Record.GroupID != groupID {
		return nil, ErrSplitNotFound
	}
	return cloneSplit(s), nil
}

// ListSplitRecords returns copies of the group's splits, newest first
func (m *MemoryStore) ListSplitRecords(ctx context.Context, groupID int64, status *RecordStatus) ([]*SplitWithParticipants, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*SplitWithParticipants
	for _, s := range m.splits {
		if s.Record.GroupID != groupID {
			continue
		}
		if status != nil && s.Record.Status != *status {
			continue
		}
		out = append(out, cloneSplit(s))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Record.CreatedAt.Equal(out[j].Record.CreatedAt) {
			return out[i].Record.ID > out[j].Record.ID
		}
		return out[i].Record.CreatedAt.After(out[j].Record.CreatedAt)
	})
	return out, nil
}

// InTx stages writes on copies and publishes them only when fn succeeds
func (m *MemoryStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := &memoryTx{store: m, staged: make(map[string]*SplitWithParticipants)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range tx.staged {
		m.splits[id] = s
	}
	return nil
}

type memoryTx struct {
	store  *MemoryStore
	staged map[string]*SplitWithParticipants
}

func (t *memoryTx) LockSplitRecord(ctx context.Context, groupID int64, id string) (*SplitWithParticipants, error) {
	if s, ok := t.staged[id]; ok {
		if s.Record.GroupID != groupID {
			return nil, ErrSplitNotFound
		}
		return cloneSplit(s), nil
	}

	s, err := t.store.GetSplitRecord(ctx, groupID, id)
	if err != nil {
		return nil, err
	}
	t.staged[id] = s
	return cloneSplit(s), nil
}

func (t *memoryTx) UpdateParticipantStatus(ctx context.Context, splitID string, userID int64, status ParticipantStatus, reason *string, at time.Time) error {
	s, ok := t.staged[splitID]
	if !ok {
		return ErrSplitNotFound
	}
	p := s.Participant(userID)
	if p == nil {
		return ErrParticipantNotFound
	}

	p.Status = status
	switch status {
	case ParticipantConfirmed:
		p.ConfirmedAt = &at
	case ParticipantSettled:
		p.SettledAt = &at
	case ParticipantDeclined:
		p.DeclineReason = reason
	}
	return nil
}

func (t *memoryTx) UpdateRecordStatus(ctx context.Context, splitID string, status RecordStatus) error {
	s, ok := t.staged[splitID]
	if !ok {
		return ErrSplitNotFound
	}
	s.Record.Status = status
	return nil
}

// CreateTemplate stores a copy of the template
func (m *MemoryStore) CreateTemplate(ctx context.Context, t *Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.templates[t.ID] = cloneTemplate(t)
	return nil
}

// GetTemplate returns a copy of the template if it belongs to the group
func (m *MemoryStore) GetTemplate(ctx context.Context, groupID int64, id string) (*Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.templates[id]
	if !ok || t.GroupID != groupID {
		return nil, ErrTemplateNotFound
	}
	return cloneTemplate(t), nil
}

// ListTemplates returns the group's templates ordered by name
func (m *MemoryStore) ListTemplates(ctx context.Context, groupID int64) ([]*Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Template
	for _, t := range m.templates {
		if t.GroupID == groupID {
			out = append(out, cloneTemplate(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func cloneSplit(s *SplitWithParticipants) *SplitWithParticipants {
	record := *s.Record
	participants := make([]*Participant, len(s.Participants))
	for i, p := range s.Participants {
		cp := *p
		participants[i] = &cp
	}
	return &SplitWithParticipants{Record: &record, Participants: participants}
}

func cloneTemplate(t *Template) *Template {
	out := *t
	out.Participants = make([]*TemplateParticipant, len(t.Participants))
	for i, p := range t.Participants {
		cp := *p
		out.Participants[i] = &cp
	}
	return &out
}
