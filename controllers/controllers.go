package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SolomonOP/smart-waiter-system-sub000/lifecycle"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

var errStaffRequired = errors.New("X-Staff-ID header is required")

// statusFor maps a coordinator error kind to its HTTP status. Unknown
// errors are internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, lifecycle.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, lifecycle.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrAlreadyClaimed),
		errors.Is(err, lifecycle.ErrTableUnavailable):
		return http.StatusConflict
	case errors.Is(err, lifecycle.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondLifecycleError(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		utils.ErrorLogger.Errorf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	utils.RespondError(c, code, err)
}

// pathID parses a numeric path parameter. Responds 400 and returns
// false when it is not a positive number.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New(name+" must be a positive number"))
		return 0, false
	}
	return uint(id), true
}

// requireStaff returns the staff id placed on the context by the
// StaffIdentity middleware. Responds 400 when the header was absent.
func requireStaff(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("staff_id"); ok {
		if id, ok := v.(uint); ok {
			return id, true
		}
	}
	utils.RespondError(c, http.StatusBadRequest, errStaffRequired)
	return 0, false
}

// optionalStaff is requireStaff for endpoints guests may also call.
func optionalStaff(c *gin.Context) *uint {
	if v, ok := c.Get("staff_id"); ok {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}
