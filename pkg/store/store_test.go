package store

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/roomforge/pkg/layout"
)

func testLayout() layout.Layout {
	return layout.Layout{
		Lot:    layout.Lot{Width: 40, Height: 30},
		Status: layout.StatusOK,
		Rooms: []layout.Room{
			{Name: "Living", Type: "living", Zone: "public", X: 0, Y: 0, Width: 15, Height: 13},
		},
	}
}

func TestMemoryStoreSaveAssignsID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Save(ctx, testLayout())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("Save should assign an ID")
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != id {
		t.Errorf("stored ID = %q, want %q", got.ID, id)
	}
	if len(got.Rooms) != 1 || got.Rooms[0].Name != "Living" {
		t.Errorf("stored rooms wrong: %+v", got.Rooms)
	}
}

func TestMemoryStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	l := testLayout()
	l.ID = "fixed-id"
	if _, err := s.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	l.Status = layout.StatusPartial
	id, err := s.Save(ctx, l)
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("upsert should keep the ID, got %q", id)
	}

	got, _ := s.Get(ctx, "fixed-id")
	if got.Status != layout.StatusPartial {
		t.Error("upsert should overwrite the stored layout")
	}

	ids, _ := s.List(ctx)
	if len(ids) != 1 {
		t.Errorf("List = %v, want single ID", ids)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, _ := s.Save(ctx, testLayout())
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Error("Get after Delete should return ErrNotFound")
	}

	// Deleting an unknown ID is not an error
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}
