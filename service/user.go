package service

import (
	"context"
	"errors"

	"Pharmetix/dao"
	"Pharmetix/models"
	"Pharmetix/pkg/errs"
	"Pharmetix/pkg/log"
	"Pharmetix/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	UsersRepo *dao.Users
}

var _ IUserService = (*UserService)(nil)

type IUserService interface {
	ListUsers(ctx context.Context, q *types.UserListQuery) (*types.ListResult[*models.Users], error)
	GetUser(ctx context.Context, id int64) (*models.Users, error)
	UpdateUserStatus(ctx context.Context, id int64, status models.UserStatus) (*models.Users, error)
}

func (s *UserService) ListUsers(ctx context.Context, q *types.UserListQuery) (*types.ListResult[*models.Users], error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, errs.Validation("unknown user status %q", q.Status)
	}
	ps := dao.Predicates{
		dao.Search(q.Search, "name", "email"),
		dao.Eq("role", q.Role),
		dao.Eq("status", q.Status),
	}
	page := q.PageQuery.Normalize()
	users, total, err := s.UsersRepo.List(ctx, ps, page)
	if err != nil {
		return nil, err
	}
	return &types.ListResult[*models.Users]{Data: users, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.Users, error) {
	user, err := s.UsersRepo.FindById(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("user with ID %d not found", id)
	}
	return user, err
}

func (s *UserService) UpdateUserStatus(ctx context.Context, id int64, status models.UserStatus) (*models.Users, error) {
	if !status.Valid() {
		return nil, errs.Validation("unknown user status %q", status)
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status == status {
		return nil, errs.Conflict("user is already %s", status)
	}
	if err := s.UsersRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	log.L.Info("user status changed",
		zap.Int64("user_id", id),
		zap.String("from", string(user.Status)),
		zap.String("to", string(status)))
	user.Status = status
	return user, nil
}
