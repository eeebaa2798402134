package context

import (
	"errors"
	"net/http"

	"Pharmetix/models"
	"Pharmetix/pkg/errs"
	"Pharmetix/pkg/log"
	"Pharmetix/pkg/response"
	"Pharmetix/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxRequestID = "request_id"
)

type HandlerFunc func(*gin.Context) error

func Wrap(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			// 领域错误
			if kind := errs.KindOf(err); kind != "" {
				status := response.StatusOf(kind)
				c.JSON(status, response.Response{
					Code: status,
					Msg:  err.Error(),
					Data: gin.H{"kind": kind},
				})
				return
			}
			// 业务错误
			var be *response.BizError
			if errors.As(err, &be) {
				c.JSON(be.Code, response.Response{
					Code: be.Code,
					Msg:  be.Msg,
				})
				return
			}
			log.L.Error("unhandled request error",
				zap.String("path", c.FullPath()),
				zap.String("request_id", c.GetString(CtxRequestID)),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, response.Response{
				Code: http.StatusInternalServerError,
				Msg:  "internal server error",
			})
		}
	}
}

func GetUserID(c *gin.Context) (int64, error) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, errors.New("user_id 不存在")
	}

	uid, ok := v.(int64)
	if !ok {
		return 0, errors.New("user_id 类型错误")
	}

	return uid, nil
}

// GetViewer identity placed on the context by middleware.Auth
func GetViewer(c *gin.Context) (types.Viewer, error) {
	uid, err := GetUserID(c)
	if err != nil {
		return types.Viewer{}, response.NewError(http.StatusUnauthorized, err.Error())
	}
	role, _ := c.Get(CtxRole)
	r, ok := role.(models.Role)
	if !ok {
		return types.Viewer{}, response.NewError(http.StatusUnauthorized, "role 不存在")
	}
	return types.Viewer{ID: uid, Role: r}, nil
}

// BindJSON binds the body and reports binding failures as validation errors.
func BindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return errs.Validation("invalid request body: %s", err.Error())
	}
	return nil
}

func BindQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return errs.Validation("invalid query: %s", err.Error())
	}
	return nil
}
