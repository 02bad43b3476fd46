package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

type CategoryService struct {
	categories CategoryStore
	log        *zap.Logger
	auditor    Auditor
}

func NewCategoryService(categories CategoryStore, opts Options) *CategoryService {
	opts = opts.withDefaults()
	return &CategoryService{categories: categories, log: opts.Logger, auditor: opts.Auditor}
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*entities.Category, error) {
	category, err := in.Validate()
	if err != nil {
		return nil, err
	}
	if err := s.categories.CreateCategory(ctx, &category); err != nil {
		return nil, err
	}
	s.log.Info("Category created", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	s.auditor.LogCreate(ctx, "category", category.ID)
	return &category, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*entities.Category, error) {
	return s.categories.GetCategoryByID(ctx, id)
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*entities.Category, error) {
	changes, err := in.Validate()
	if err != nil {
		return nil, err
	}
	category, err := s.categories.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = changes.Name
	category.Order = changes.Order
	if err := s.categories.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.log.Info("Category updated", zap.Uint("category_id", id))
	s.auditor.LogUpdate(ctx, "category", id)
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.log.Info("Category deleted", zap.Uint("category_id", id))
	s.auditor.LogDelete(ctx, "category", id)
	return nil
}

// List returns every category in display order.
func (s *CategoryService) List(ctx context.Context) ([]entities.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []entities.Category{}
	}
	return categories, nil
}
