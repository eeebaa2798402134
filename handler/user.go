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

type User struct {
	Config      *config.Config
	UserService service.IUserService
}

func (u *User) RegisterRouter(r gin.IRouter) {
	admin := authorize(u.Config, models.RoleAdmin)

	user := r.Group("/v1/users")
	user.GET("/me", authorize(u.Config), context.Wrap(u.Me))
	user.GET("", admin, context.Wrap(u.ListUsers))
	user.GET("/:id", admin, context.Wrap(u.GetUser))
	user.PATCH("/:id/status", admin, context.Wrap(u.UpdateUserStatus))
}

func (u *User) Me(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	user, err := u.UserService.GetUser(c.Request.Context(), uid)
	if err != nil {
		return err
	}
	response.Success(c, user)
	return nil
}

func (u *User) ListUsers(c *gin.Context) error {
	var q types.UserListQuery
	if err := context.BindQuery(c, &q); err != nil {
		return err
	}
	res, err := u.UserService.ListUsers(c.Request.Context(), &q)
	if err != nil {
		return err
	}
	successList(c, res)
	return nil
}

func (u *User) GetUser(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := u.UserService.GetUser(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, user)
	return nil
}

func (u *User) UpdateUserStatus(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdateUserStatusRequest
	if err := context.BindJSON(c, &req); err != nil {
		return err
	}
	user, err := u.UserService.UpdateUserStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		return err
	}
	response.Success(c, user)
	return nil
}
