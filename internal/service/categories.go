package service

import (
	"context"

	"yukid/internal/db"
	"yukid/internal/types"

	"github.com/charmbracelet/log"
)

// ----- interface ---------------------------------------------------------------------------

type CategoryService interface {
	List(ctx context.Context) ([]types.Category, error)

	// Names returns category display names, the form extraction prompts
	// consume.
	Names(ctx context.Context) ([]string, error)

	// Create adds a user-defined category. An empty color gets the neutral
	// default.
	Create(ctx context.Context, name, color string) (string, error)
}

type catSvc struct {
	store *db.DB
	log   *log.Logger
}

func newCatSvc(store *db.DB, logger *log.Logger) CategoryService {
	return &catSvc{store: store, log: logger}
}

// ----- methods -----------------------------------------------------------------------------

const defaultCategoryColor = "#71717a"

func (s *catSvc) List(ctx context.Context) ([]types.Category, error) {
	cats, err := s.store.Categories(ctx)
	if err != nil {
		return nil, wrapErr("CategoryService.List", err)
	}
	return cats, nil
}

func (s *catSvc) Names(ctx context.Context) ([]string, error) {
	names, err := s.store.CategoryNames(ctx)
	if err != nil {
		return nil, wrapErr("CategoryService.Names", err)
	}
	return names, nil
}

func (s *catSvc) Create(ctx context.Context, name, color string) (string, error) {
	if name == "" {
		return "", wrapErr("CategoryService.Create", ErrValidation)
	}
	if color == "" {
		color = defaultCategoryColor
	}

	id, err := s.store.CreateCategory(ctx, name, color)
	if err != nil {
		return "", wrapErr("CategoryService.Create", err)
	}
	return id, nil
}
