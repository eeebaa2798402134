package handler

import (
	"Pharmetix/config"
	"Pharmetix/models"
	"Pharmetix/pkg/context"
	"Pharmetix/pkg/response"
	"Pharmetix/service"
	"Pharmetix/types"

	"github.com/gin-gonic/gin"
)

type Category struct {
	Config          *config.Config
	CategoryService service.ICategoryService
}

func (h *Category) RegisterRouter(r gin.IRouter) {
	admin := authorize(h.Config, models.RoleAdmin)

	cat := r.Group("/v1/categories")
	cat.GET("", context.Wrap(h.ListCategories))
	cat.GET("/:id", context.Wrap(h.GetCategory))
	cat.POST("", admin, context.Wrap(h.CreateCategory))
	cat.PATCH("/:id", admin, context.Wrap(h.UpdateCategory))
	cat.DELETE("/:id", admin, context.Wrap(h.DeleteCategory))
}

func (h *Category) ListCategories(c *gin.Context) error {
	var q types.CategoryListQuery
	if err := context.BindQuery(c, &q); err != nil {
		return err
	}
	res, err := h.CategoryService.ListCategories(c.Request.Context(), &q)
	if err != nil {
		return err
	}
	successList(c, res)
	return nil
}

func (h *Category) GetCategory(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	cat, err := h.CategoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, cat)
	return nil
}

func (h *Category) CreateCategory(c *gin.Context) error {
	var req types.CreateCategoryRequest
	if err := context.BindJSON(c, &req); err != nil {
		return err
	}
	cat, err := h.CategoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Created(c, cat)
	return nil
}

func (h *Category) UpdateCategory(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdateCategoryRequest
	if err := context.BindJSON(c, &req); err != nil {
		return err
	}
	cat, err := h.CategoryService.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		return err
	}
	response.Success(c, cat)
	return nil
}

func (h *Category) DeleteCategory(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.CategoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		return err
	}
	response.Success(c, gin.H{"id": id})
	return nil
}
