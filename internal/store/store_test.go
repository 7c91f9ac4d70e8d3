package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/floorplan-sandbox/internal/rooms"
)

func testSession() Session {
	return Session{
		Classification: rooms.Residential,
		Rooms: map[string][]rooms.Detection{
			"page-a": {
				{ID: "r1", Label: "North Zone", Type: rooms.Kitchen, Confidence: 0.8, Color: "#EF4444",
					Boundary: rooms.Boundary{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.3}},
				{ID: "r2", Label: "South Zone", Type: rooms.Bedroom, Confidence: 0.7, Color: "#3B82F6"},
			},
		},
		Sources: map[string]string{"page-a": "mock"},
	}
}

func TestSave_AssignsIDAndTimestamps(t *testing.T) {
	st := New()
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return fixed }

	in := testSession()
	in.ID = "caller-chosen"
	s := st.Save(in)

	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", s.ID, err)
	}
	if !s.CreatedAt.Equal(fixed) || !s.UpdatedAt.Equal(fixed) {
		t.Errorf("timestamps: %v %v", s.CreatedAt, s.UpdatedAt)
	}
	if st.Len() != 1 {
		t.Errorf("Len: got %d, want 1", st.Len())
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	st := New()
	s := st.Save(testSession())

	got, err := st.Get(s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	got.Rooms["page-a"][0].Type = "Mutated"
	got.Rooms["page-b"] = nil

	again, _ := st.Get(s.ID)
	if again.Rooms["page-a"][0].Type != rooms.Kitchen {
		t.Error("mutating a returned session changed the store")
	}
	if _, ok := again.Rooms["page-b"]; ok {
		t.Error("added page leaked into the store")
	}
}

func TestSave_CopiesInput(t *testing.T) {
	st := New()
	in := testSession()
	s := st.Save(in)
	in.Rooms["page-a"][0].Label = "Changed"

	got, _ := st.Get(s.ID)
	if got.Rooms["page-a"][0].Label != "North Zone" {
		t.Error("store shares slices with caller input")
	}
}

func TestGet_NotFound(t *testing.T) {
	if _, err := New().Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateRoom(t *testing.T) {
	st := New()
	s := st.Save(testSession())

	typ := rooms.Bathroom
	conf := 1.4
	updated, err := st.UpdateRoom(s.ID, "page-a", "r1", rooms.Edit{Type: &typ, Confidence: &conf})
	if err != nil {
		t.Fatalf("UpdateRoom failed: %v", err)
	}
	if updated.Type != rooms.Bathroom || updated.Color != "#06B6D4" {
		t.Errorf("type/color: %s %s", updated.Type, updated.Color)
	}
	if updated.Confidence != 1 {
		t.Errorf("confidence: got %v, want 1", updated.Confidence)
	}
	if !updated.Manual {
		t.Error("edited room should be manual")
	}

	got, _ := st.Get(s.ID)
	if got.Rooms["page-a"][0] != updated {
		t.Error("edit was not persisted")
	}
	if got.Rooms["page-a"][1].Manual {
		t.Error("other rooms should be untouched")
	}
}

func TestUpdateRoom_CustomColor(t *testing.T) {
	st := New()
	in := testSession()
	in.CustomRoomTypes = []rooms.TypeDefinition{{Label: "Lab", Color: "#22C55E"}}
	s := st.Save(in)

	typ := "Lab"
	updated, err := st.UpdateRoom(s.ID, "page-a", "r2", rooms.Edit{Type: &typ})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Color != "#22C55E" {
		t.Errorf("color: got %s", updated.Color)
	}
}

func TestUpdateRoom_Errors(t *testing.T) {
	st := New()
	s := st.Save(testSession())
	bad := rooms.Boundary{X: 0.9, Y: 0, Width: 0.5, Height: 0.1}

	tests := []struct {
		name     string
		id       string
		page     string
		room     string
		edit     rooms.Edit
		notFound bool
	}{
		{"unknown session", "nope", "page-a", "r1", rooms.Edit{}, true},
		{"unknown page", s.ID, "page-z", "r1", rooms.Edit{}, true},
		{"unknown room", s.ID, "page-a", "r9", rooms.Edit{}, true},
		{"invalid boundary", s.ID, "page-a", "r1", rooms.Edit{Boundary: &bad}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.UpdateRoom(tt.id, tt.page, tt.room, tt.edit)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrNotFound) != tt.notFound {
				t.Errorf("ErrNotFound = %v, want %v (%v)", errors.Is(err, ErrNotFound), tt.notFound, err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	st := New()
	s := st.Save(testSession())

	if err := st.Delete(s.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := st.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Error("session still present after delete")
	}
	if err := st.Delete(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestList_OldestFirst(t *testing.T) {
	st := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	st.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}

	first := st.Save(testSession())
	second := st.Save(testSession())

	list := st.List()
	if len(list) != 2 {
		t.Fatalf("got %d sessions, want 2", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Error("List should be ordered by creation time")
	}
}

func TestSave_EvictsLeastRecentlyUpdated(t *testing.T) {
	st := NewWithLimit(2)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	st.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}

	first := st.Save(testSession())
	second := st.Save(testSession())

	// Editing the first session makes the second the stalest.
	label := "Pantry"
	if _, err := st.UpdateRoom(first.ID, "page-a", "r1", rooms.Edit{Label: &label}); err != nil {
		t.Fatal(err)
	}

	third := st.Save(testSession())
	if st.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", st.Len())
	}
	if _, err := st.Get(second.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second session should have been evicted, got %v", err)
	}
	for _, id := range []string{first.ID, third.ID} {
		if _, err := st.Get(id); err != nil {
			t.Errorf("session %s should be kept: %v", id, err)
		}
	}
}

func TestNew_Unbounded(t *testing.T) {
	for _, st := range []*Store{New(), NewWithLimit(-3)} {
		for i := 0; i < 50; i++ {
			st.Save(testSession())
		}
		if st.Len() != 50 {
			t.Errorf("Len: got %d, want 50", st.Len())
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	st := New()
	s := st.Save(testSession())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			conf := 0.5
			_, _ = st.UpdateRoom(s.ID, "page-a", "r1", rooms.Edit{Confidence: &conf})
		}()
		go func() {
			defer wg.Done()
			_, _ = st.Get(s.ID)
			_ = st.List()
		}()
	}
	wg.Wait()

	got, _ := st.Get(s.ID)
	if got.Rooms["page-a"][0].Confidence != 0.5 {
		t.Errorf("confidence: got %v", got.Rooms["page-a"][0].Confidence)
	}
}
