package types

import "Pharmetix/models"

type UserListQuery struct {
	PageQuery
	Search string            `form:"search"`
	Role   models.Role       `form:"role"`
	Status models.UserStatus `form:"status"`
}

type UpdateUserStatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required"`
}
