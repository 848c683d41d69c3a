package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wfunc/region-war/internal/errors"
)

// respondOK 统一成功响应信封
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// respondError 统一错误响应信封
// AppError 按错误码映射HTTP状态；其余错误一律按内部错误处理
func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		c.JSON(appErr.HTTPStatus(), errors.NewErrorResponse(appErr, ""))
		return
	}
	internal := errors.Wrap(err, errors.ErrUnknown)
	c.JSON(http.StatusInternalServerError, errors.NewErrorResponse(internal, ""))
}
