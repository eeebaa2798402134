package handler

import (
	"strconv"

	"Pharmetix/config"
	"Pharmetix/models"
	"Pharmetix/pkg/context"
	"Pharmetix/pkg/response"
	"Pharmetix/service"
	"Pharmetix/types"

	"github.com/gin-gonic/gin"
)

type Review struct {
	Config        *config.Config
	ReviewService service.IReviewService
}

func (h *Review) RegisterRouter(r gin.IRouter) {
	review := r.Group("/v1/reviews")
	review.POST("", authorize(h.Config, models.RoleCustomer), context.Wrap(h.CreateReview))
	review.GET("/latest", context.Wrap(h.LatestReviews))
	review.GET("", authorize(h.Config, models.RoleAdmin), context.Wrap(h.ListReviews))
}

func (h *Review) CreateReview(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.CreateReviewRequest
	if err := context.BindJSON(c, &req); err != nil {
		return err
	}
	review, err := h.ReviewService.CreateReview(c.Request.Context(), uid, &req)
	if err != nil {
		return err
	}
	response.Created(c, review)
	return nil
}

func (h *Review) LatestReviews(c *gin.Context) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	reviews, err := h.ReviewService.LatestReviews(c.Request.Context(), limit)
	if err != nil {
		return err
	}
	response.Success(c, reviews)
	return nil
}

func (h *Review) ListReviews(c *gin.Context) error {
	var q types.ReviewListQuery
	if err := context.BindQuery(c, &q); err != nil {
		return err
	}
	res, err := h.ReviewService.ListReviews(c.Request.Context(), &q)
	if err != nil {
		return err
	}
	successList(c, res)
	return nil
}
