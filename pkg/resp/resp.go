package resp

import (
	"net/http"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/apperr"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func OKMessage(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg, "data": data})
}

func Created(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": msg, "data": data})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"success": false, "message": msg})
}

// Error maps a service error onto the response envelope. Extra meta fields
// (e.g. the conflicting restaurant ids) are merged into the body. Internal
// detail is only exposed in debug mode.
func Error(c *gin.Context, err error) {
	body := gin.H{"success": false, "message": apperr.MessageOf(err)}
	for k, v := range apperr.MetaOf(err) {
		body[k] = v
	}
	if gin.Mode() == gin.DebugMode {
		body["error"] = err.Error()
	}
	c.JSON(apperr.HTTPStatus(err), body)
}
