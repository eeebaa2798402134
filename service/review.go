package service

import (
	"context"
	"errors"
	"strings"

	"Pharmetix/dao"
	"Pharmetix/models"
	"Pharmetix/pkg/errs"
	"Pharmetix/types"

	"gorm.io/gorm"
)

type ReviewService struct {
	ReviewRepo *dao.Review
	OrderRepo  *dao.Order
}

var _ IReviewService = (*ReviewService)(nil)

type IReviewService interface {
	CreateReview(ctx context.Context, customerID int64, req *types.CreateReviewRequest) (*models.Review, error)
	LatestReviews(ctx context.Context, limit int) ([]*models.Review, error)
	ListReviews(ctx context.Context, q *types.ReviewListQuery) (*types.ListResult[*models.Review], error)
}

// CreateReview 只能评价自己已送达订单里的药品，同一订单同一药品只评一次
func (s *ReviewService) CreateReview(ctx context.Context, customerID int64, req *types.CreateReviewRequest) (*models.Review, error) {
	if req.Rating == nil || *req.Rating < types.MinRating || *req.Rating > types.MaxRating {
		return nil, errs.Validation("rating must be between %d and %d", types.MinRating, types.MaxRating)
	}

	order, err := s.OrderRepo.FindWithItems(ctx, nil, req.OrderID, false)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("order with ID %d not found", req.OrderID)
	}
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, errs.Forbidden("you can only review your own orders")
	}
	if order.Status != models.OrderDelivered {
		return nil, errs.Validation("only delivered orders can be reviewed")
	}

	found := false
	for _, it := range order.Items {
		if it.MedicineID == req.MedicineID {
			found = true
			break
		}
	}
	if !found {
		return nil, errs.Validation("medicine with ID %d is not part of order %d", req.MedicineID, req.OrderID)
	}

	exists, err := s.ReviewRepo.Exists(ctx, customerID, req.OrderID, req.MedicineID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.Conflict("you have already reviewed this medicine for this order")
	}

	review := &models.Review{
		Rating:     *req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		CustomerID: customerID,
		OrderID:    req.OrderID,
		MedicineID: req.MedicineID,
	}
	if err := s.ReviewRepo.Create(ctx, nil, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Conflict("you have already reviewed this medicine for this order")
		}
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) LatestReviews(ctx context.Context, limit int) ([]*models.Review, error) {
	if limit <= 0 || limit > types.MaxLimit {
		limit = types.DefaultLatestReviews
	}
	return s.ReviewRepo.Latest(ctx, limit)
}

func (s *ReviewService) ListReviews(ctx context.Context, q *types.ReviewListQuery) (*types.ListResult[*models.Review], error) {
	if q.Rating != nil && (*q.Rating < types.MinRating || *q.Rating > types.MaxRating) {
		return nil, errs.Validation("rating must be between %d and %d", types.MinRating, types.MaxRating)
	}
	page := q.PageQuery.Normalize()
	items, total, err := s.ReviewRepo.List(ctx, dao.Predicates{dao.EqPtr("rating", q.Rating)}, page)
	if err != nil {
		return nil, err
	}
	return &types.ListResult[*models.Review]{Data: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}
