// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package system

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReqLoggerKey is the context key used to store the request-scoped logger in gin context.
const ReqLoggerKey = "reqLogger"

// RequestIDHeader carries the request correlation id on responses.
const RequestIDHeader = "X-Request-Id"

// RequestLogger returns a gin middleware that installs a request-scoped
// sugared logger annotated with a correlation id, source IP and path. The
// correlation id is echoed back in the X-Request-Id response header.
func RequestLogger(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		reqLogger := base.With(
			"requestID", requestID,
			"sourceIP", c.ClientIP(),
			"path", c.FullPath(),
		)
		c.Set(ReqLoggerKey, reqLogger)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetReqLogger returns the request-scoped sugared logger from gin.Context if present,
// otherwise returns the provided fallback.
func GetReqLogger(c *gin.Context, fallback *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return fallback
	}
	if v, ok := c.Get(ReqLoggerKey); ok {
		if l, ok2 := v.(*zap.SugaredLogger); ok2 {
			return l
		}
	}
	return fallback
}

// SubmissionFields returns key/value pairs identifying a submission, suitable
// for passing to SugaredLogger.With or Infow/Errorw calls. If email is empty
// only the reference is included.
func SubmissionFields(reference, email string) []interface{} {
	if email == "" {
		return []interface{}{"reference", reference}
	}
	return []interface{}{"reference", reference, "email", email}
}
