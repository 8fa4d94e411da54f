package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"gradebook/internal/service"
	pkgerrors "gradebook/pkg/errors"
	"gradebook/pkg/response"
)

// MustGetUserID reads user_id injected by the JWT middleware.
// Writes a 401 and returns false when it is missing; callers return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// MustGetRole reads role injected by the JWT middleware.
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// mustGetActor builds the caller of a service operation from the verified token.
func mustGetActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Actor{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Role: role}, true
}

// error codes by kind
var kindCodes = map[pkgerrors.Kind]struct {
	status int
	code   int
}{
	pkgerrors.KindInvalid:                     {http.StatusBadRequest, 10001},
	pkgerrors.KindForbidden:                   {http.StatusForbidden, 10003},
	pkgerrors.KindNotFound:                    {http.StatusNotFound, 20001},
	pkgerrors.KindDuplicateKey:                {http.StatusConflict, 20002},
	pkgerrors.KindOutOfRange:                  {http.StatusUnprocessableEntity, 20003},
	pkgerrors.KindEmptySubmission:             {http.StatusUnprocessableEntity, 20004},
	pkgerrors.KindEnrollmentMissing:           {http.StatusUnprocessableEntity, 20005},
	pkgerrors.KindConflictingActiveEnrollment: {http.StatusConflict, 20006},
	pkgerrors.KindDuplicateEnrollment:         {http.StatusConflict, 20007},
	pkgerrors.KindNoActiveEnrollment:          {http.StatusNotFound, 20008},
	pkgerrors.KindHasDependents:               {http.StatusConflict, 20009},
	pkgerrors.KindTransactionFailure:          {http.StatusServiceUnavailable, 20010},
}

// handleError maps a service error to its HTTP response.
func handleError(c *gin.Context, err error) {
	kind := pkgerrors.KindOf(err)
	m, ok := kindCodes[kind]
	if !ok {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	msg := pkgerrors.MessageOf(err)
	switch kind {
	case pkgerrors.KindHasDependents:
		var e *pkgerrors.Error
		if errors.As(err, &e) {
			response.ErrorWithDetails(c, m.status, m.code, msg, fmt.Sprintf("dependents=%d", e.Count))
			return
		}
	case pkgerrors.KindTransactionFailure:
		_ = c.Error(err)
	}
	response.Error(c, m.status, m.code, msg)
}

// bindError writes the 400 for a malformed body or query.
func bindError(c *gin.Context, err error) {
	response.BadRequest(c, 10001, "invalid parameters: "+err.Error())
}
