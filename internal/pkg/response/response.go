package response

import (
	"OneVoice/internal/api/dto"
	"OneVoice/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// Error 处理错误。投递类错误携带阶段标签与 TraceID，
// 原样透出给客户端做失败定位。
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, "参数错误")
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	code := lookupCode(err)

	var se *service.StageError
	if errors.As(err, &se) {
		c.JSON(http.StatusOK, dto.Response{
			Code:    code,
			Message: se.Error(),
			TraceID: se.TraceID,
		})
		return
	}
	Fail(c, code, err.Error())
}

// lookupCode 错误可能被多层包装，用 errors.Is 沿包装链匹配
func lookupCode(err error) int {
	for sentinel, code := range service.ErrorMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	log.Error("未映射的错误", "err", err)
	return InternalServerError
}
