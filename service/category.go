package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"Pharmetix/dao"
	"Pharmetix/models"
	"Pharmetix/pkg/errs"
	"Pharmetix/pkg/log"
	"Pharmetix/pkg/utils"
	"Pharmetix/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CategoryService struct {
	CategoryRepo *dao.Category
	MedicineRepo *dao.Medicine
}

var _ ICategoryService = (*CategoryService)(nil)

type ICategoryService interface {
	ListCategories(ctx context.Context, q *types.CategoryListQuery) (*types.ListResult[*types.CategoryView], error)
	GetCategory(ctx context.Context, id int64) (*types.CategoryView, error)
	CreateCategory(ctx context.Context, req *types.CreateCategoryRequest) (*types.CategoryView, error)
	UpdateCategory(ctx context.Context, id int64, req *types.UpdateCategoryRequest) (*types.CategoryView, error)
	DeleteCategory(ctx context.Context, id int64) error
}

func categoryView(c *models.Category, count int64) *types.CategoryView {
	return &types.CategoryView{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          c.Slug,
		Description:   c.Description,
		Image:         c.Image,
		IsActive:      c.IsActive,
		IsFeatured:    c.IsFeatured,
		MedicineCount: count,
	}
}

func (s *CategoryService) ListCategories(ctx context.Context, q *types.CategoryListQuery) (*types.ListResult[*types.CategoryView], error) {
	ps := dao.Predicates{
		dao.Raw("is_active = ? AND is_deleted = ?", true, false),
		dao.Search(q.Search, "name", "slug", "description"),
		dao.EqPtr("is_featured", q.IsFeatured),
	}
	page := q.PageQuery.Normalize()
	cats, total, err := s.CategoryRepo.List(ctx, ps, page)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	counts, err := s.MedicineRepo.CountByCategories(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*types.CategoryView, 0, len(cats))
	for _, c := range cats {
		views = append(views, categoryView(c, counts[c.ID]))
	}
	return &types.ListResult[*types.CategoryView]{Data: views, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*types.CategoryView, error) {
	cat, err := s.CategoryRepo.FindVisible(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("category with ID %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	count, err := s.MedicineRepo.CountInCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return categoryView(cat, count), nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *types.CreateCategoryRequest) (*types.CategoryView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Validation("category name is required")
	}
	base := utils.Slugify(req.Slug)
	if base == "" {
		base = utils.Slugify(name)
	}
	slug, err := uniqueSlug(ctx, base, 0, s.CategoryRepo.SlugTaken)
	if err != nil {
		return nil, err
	}

	cat := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    req.IsActive == nil || *req.IsActive,
		IsFeatured:  req.IsFeatured,
	}
	if err := s.CategoryRepo.Create(ctx, nil, cat); err != nil {
		return nil, err
	}
	log.L.Info("category created", zap.Int64("category_id", cat.ID), zap.String("slug", slug))
	return categoryView(cat, 0), nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, req *types.UpdateCategoryRequest) (*types.CategoryView, error) {
	cat, err := s.CategoryRepo.FindVisible(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("category with ID %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	data := map[string]any{}
	name := cat.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errs.Validation("category name cannot be empty")
		}
		data["name"] = name
	}
	// 改名时 slug 跟着重新生成
	if req.Slug != nil || name != cat.Name {
		base := ""
		if req.Slug != nil {
			base = utils.Slugify(*req.Slug)
		}
		if base == "" {
			base = utils.Slugify(name)
		}
		slug, err := uniqueSlug(ctx, base, id, s.CategoryRepo.SlugTaken)
		if err != nil {
			return nil, err
		}
		data["slug"] = slug
	}
	if req.Description != nil {
		data["description"] = *req.Description
	}
	if req.Image != nil {
		data["image"] = *req.Image
	}
	if req.IsActive != nil {
		data["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		data["is_featured"] = *req.IsFeatured
	}
	if len(data) > 0 {
		if _, err := s.CategoryRepo.UpdateById(ctx, nil, id, data); err != nil {
			return nil, err
		}
	}
	return s.GetCategory(ctx, id)
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.CategoryRepo.FindVisible(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("category with ID %d not found", id)
		}
		return err
	}
	count, err := s.MedicineRepo.CountInCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.Conflict("category is used by %d medicine(s) and cannot be deleted", count)
	}
	now := time.Now()
	_, err = s.CategoryRepo.UpdateById(ctx, nil, id, map[string]any{
		"is_deleted": true,
		"is_active":  false,
		"deleted_at": &now,
	})
	return err
}
