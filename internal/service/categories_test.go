package service

import (
	"context"
	"errors"
	"testing"

	"yukid/internal/db"
)

func TestCategoryCreateDefaultsColor(t *testing.T) {
	store := db.SetupTestDB(t)
	svc := newCatSvc(store, testLogger())
	ctx := context.Background()

	id, err := svc.Create(ctx, "Pets", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	cats, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, c := range cats {
		if c.ID == id {
			if c.Color == nil || *c.Color != defaultCategoryColor {
				t.Errorf("color = %v, want %q", c.Color, defaultCategoryColor)
			}
			return
		}
	}
	t.Error("created category not listed")
}

func TestCategoryCreateRequiresName(t *testing.T) {
	store := db.SetupTestDB(t)
	svc := newCatSvc(store, testLogger())

	if _, err := svc.Create(context.Background(), "", "#fff"); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestCategoryNamesIncludeSeeds(t *testing.T) {
	store := db.SetupTestDB(t)
	svc := newCatSvc(store, testLogger())

	names, err := svc.Names(context.Background())
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 15 {
		t.Fatalf("got %d names", len(names))
	}
	var hasDining bool
	for _, n := range names {
		if n == "Dining" {
			hasDining = true
		}
	}
	if !hasDining {
		t.Errorf("names = %v, missing Dining", names)
	}
}
