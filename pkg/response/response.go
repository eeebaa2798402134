package response

import (
	"net/http"

	"Pharmetix/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
	Meta *Meta  `json:"meta,omitempty"`
}

// Meta pagination info of list responses
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "success", Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: 0, Msg: "success", Data: data})
}

func SuccessList(c *gin.Context, data any, meta Meta) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "success", Data: data, Meta: &meta})
}

func Fail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, Response{Code: httpStatus, Msg: msg})
}

// StatusOf maps a service error kind to its http status.
func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindInvalidQuantity, errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindInsufficientStock, errs.KindInvalidTransition, errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
