// Package store keeps analysis sessions in memory so rooms can be reviewed,
// corrected and exported after detection.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/floorplan-sandbox/internal/rooms"
)

// ErrNotFound is returned for unknown session, page or room IDs.
var ErrNotFound = errors.New("not found")

// Session is the stored result of one analysis request.
type Session struct {
	ID              string                       `json:"id"`
	Classification  rooms.ConstructionType       `json:"classification"`
	CustomRoomTypes []rooms.TypeDefinition       `json:"customRoomTypes,omitempty"`
	Rooms           map[string][]rooms.Detection `json:"rooms"`
	Sources         map[string]string            `json:"sources,omitempty"`
	CreatedAt       time.Time                    `json:"createdAt"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
}

// Store is a concurrency-safe session map. Callers always receive copies.
type Store struct {
	sessions map[string]*Session
	limit    int
	mu       sync.RWMutex
	now      func() time.Time
}

// New creates an empty store with no session limit.
func New() *Store {
	return NewWithLimit(0)
}

// NewWithLimit creates an empty store holding at most limit sessions. When
// full, Save evicts the least recently updated session. A limit of zero or
// less means unbounded.
func NewWithLimit(limit int) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		limit:    max(limit, 0),
		now:      time.Now,
	}
}

// Save stores a copy of s under a fresh ID and returns the stored copy.
// Any ID already set on s is ignored.
func (st *Store) Save(s Session) Session {
	c := s.clone()
	c.ID = uuid.New().String()
	c.CreatedAt = st.now().UTC()
	c.UpdatedAt = c.CreatedAt
	if c.Rooms == nil {
		c.Rooms = make(map[string][]rooms.Detection)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.limit > 0 {
		for len(st.sessions) >= st.limit {
			st.evictOldest()
		}
	}
	st.sessions[c.ID] = c
	return *c.clone()
}

// evictOldest drops the session with the earliest UpdatedAt, breaking ties
// by ID. Callers hold the write lock.
func (st *Store) evictOldest() {
	var oldest *Session
	for _, s := range st.sessions {
		if oldest == nil || s.UpdatedAt.Before(oldest.UpdatedAt) ||
			(s.UpdatedAt.Equal(oldest.UpdatedAt) && s.ID < oldest.ID) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(st.sessions, oldest.ID)
	}
}

// Get returns a copy of the session with the given ID.
func (st *Store) Get(id string) (Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	return *s.clone(), nil
}

// UpdateRoom applies edit to one room of one page and returns the updated
// room. The room is marked manual.
func (st *Store) UpdateRoom(id, pageID, roomID string, edit rooms.Edit) (rooms.Detection, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return rooms.Detection{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	dets, ok := s.Rooms[pageID]
	if !ok {
		return rooms.Detection{}, fmt.Errorf("page %q: %w", pageID, ErrNotFound)
	}
	for i := range dets {
		if dets[i].ID != roomID {
			continue
		}
		if err := dets[i].ApplyEdit(edit, s.CustomRoomTypes); err != nil {
			return rooms.Detection{}, err
		}
		s.UpdatedAt = st.now().UTC()
		return dets[i], nil
	}
	return rooms.Detection{}, fmt.Errorf("room %q: %w", roomID, ErrNotFound)
}

// Delete removes a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	delete(st.sessions, id)
	return nil
}

// List returns copies of all sessions, oldest first.
func (st *Store) List() []Session {
	st.mu.RLock()
	result := make([]Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		result = append(result, *s.clone())
	}
	st.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Len reports the number of stored sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (s *Session) clone() *Session {
	c := *s
	if s.CustomRoomTypes != nil {
		c.CustomRoomTypes = append([]rooms.TypeDefinition(nil), s.CustomRoomTypes...)
	}
	if s.Rooms != nil {
		c.Rooms = make(map[string][]rooms.Detection, len(s.Rooms))
		for k, v := range s.Rooms {
			c.Rooms[k] = append([]rooms.Detection(nil), v...)
		}
	}
	if s.Sources != nil {
		c.Sources = make(map[string]string, len(s.Sources))
		for k, v := range s.Sources {
			c.Sources[k] = v
		}
	}
	return &c
}
