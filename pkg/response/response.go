package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every body carries "ok"; failures add a stable "reason" the UI can switch on.
type Rejection struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

func Success(c *gin.Context, data gin.H) {
	body := gin.H{"ok": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func Error(c *gin.Context, httpStatus int, reason string) {
	c.JSON(httpStatus, Rejection{OK: false, Reason: reason})
}

func BadRequest(c *gin.Context, reason string) {
	Error(c, http.StatusBadRequest, reason)
}

func Unauthorized(c *gin.Context, reason string) {
	Error(c, http.StatusUnauthorized, reason)
}

func Forbidden(c *gin.Context, reason string) {
	Error(c, http.StatusForbidden, reason)
}

func NotFound(c *gin.Context, reason string) {
	Error(c, http.StatusNotFound, reason)
}

func Conflict(c *gin.Context, reason string) {
	Error(c, http.StatusConflict, reason)
}

func InternalError(c *gin.Context, reason string) {
	Error(c, http.StatusInternalServerError, reason)
}
