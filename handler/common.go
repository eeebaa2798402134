package handler

import (
	"strconv"
	"time"

	"Pharmetix/config"
	"Pharmetix/middleware"
	"Pharmetix/models"
	"Pharmetix/pkg/errs"
	"Pharmetix/pkg/response"
	"Pharmetix/types"

	"github.com/gin-gonic/gin"
)

// authorize jwt auth limited to roles; no roles means any signed in user.
func authorize(cfg *config.Config, roles ...models.Role) gin.HandlerFunc {
	expire := time.Duration(cfg.Jwt.ExpiresIn) * time.Second
	return middleware.Auth([]byte(cfg.Jwt.Secret), expire, roles...)
}

func paramID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validation("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

func successList[T any](c *gin.Context, res *types.ListResult[T]) {
	response.SuccessList(c, res.Data, response.Meta{Page: res.Page, Limit: res.Limit, Total: res.Total})
}
