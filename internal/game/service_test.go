package game

import (
	"context"
	"errors"
	"testing"
)

func TestCreateRequiresNameAndSystem(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "owner", CreateInput{Name: "Chrono Trigger"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields got %v", err)
	}
	if _, err := svc.Create(ctx, "owner", CreateInput{System: "SNES"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields got %v", err)
	}

	g, err := svc.Create(ctx, "owner", CreateInput{Name: "Chrono Trigger", System: "SNES", Condition: "good", Price: 120})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.OwnerID != "owner" || g.ID == "" {
		t.Fatalf("unexpected game %+v", g)
	}
}

func TestBrowseAndSearch(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "a", CreateInput{Name: "Chrono Trigger", System: "SNES"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "b", CreateInput{Name: "Gran Turismo", System: "PS1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := svc.Browse(ctx, "")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 games got %d", len(all))
	}

	hits, err := svc.Browse(ctx, "chrono")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "Chrono Trigger" {
		t.Fatalf("unexpected search result %+v", hits)
	}

	bySystem, err := svc.Browse(ctx, "ps1")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(bySystem) != 1 || bySystem[0].Name != "Gran Turismo" {
		t.Fatalf("unexpected search result %+v", bySystem)
	}
}

func TestUpdateAndDeleteRequireOwnership(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	g, err := svc.Create(ctx, "owner", CreateInput{Name: "Chrono Trigger", System: "SNES"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Update(ctx, "stranger", g.ID, UpdateInput{Price: 99}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner got %v", err)
	}
	if err := svc.Delete(ctx, "stranger", g.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner got %v", err)
	}

	if err := svc.Update(ctx, "owner", g.ID, UpdateInput{Price: 99, Condition: "mint"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price != 99 || got.Condition != "mint" || got.Name != "Chrono Trigger" {
		t.Fatalf("unexpected game after update %+v", got)
	}

	if err := svc.Delete(ctx, "owner", g.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}
