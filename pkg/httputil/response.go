package httputil

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Confirm is set when the action needs an explicit confirmation; it holds the prompt.
	Confirm string `json:"confirm,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a 201 success response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err error) {
	status, apiErr := toError(err)
	_ = c.Error(err)
	c.JSON(status, Response{
		Success: false,
		Error:   apiErr,
	})
}

func toError(err error) (int, *Error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError, &Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		}
	}
	status := appErr.StatusCode()
	e := &Error{Code: status, Message: appErr.Message}
	if appErr.Code == errors.ErrConfirmationRequired {
		e.Confirm = appErr.Message
	}
	return status, e
}

// RespondWithView answers with the page view even when loading it failed,
// so the page keeps rendering its prior rows next to the error.
func RespondWithView(c *gin.Context, view interface{}, err error) {
	if err == nil {
		RespondWithSuccess(c, view)
		return
	}
	status, apiErr := toError(err)
	_ = c.Error(err)
	c.JSON(status, Response{
		Success: false,
		Data:    view,
		Error:   apiErr,
	})
}

// RespondWithValidation answers 400 with per-field messages.
func RespondWithValidation(c *gin.Context, err error, fields interface{}) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Data:    fields,
		Error:   &Error{Code: http.StatusBadRequest, Message: "validation failed"},
	})
}

// RespondWithAttachment streams an opaque payload as a file download.
func RespondWithAttachment(c *gin.Context, filename, contentType string, payload []byte) {
	if contentType == "" {
		contentType = "text/csv"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
