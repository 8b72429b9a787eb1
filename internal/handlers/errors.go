package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ArowuTest/toolsau-entries-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var conflicts = []error{
	services.ErrDrawClosed,
	services.ErrInvalidDrawState,
	services.ErrAlreadyConverted,
	services.ErrNoActiveDraw,
}

// respondError writes the status matching err. Unexpected errors are
// logged and reported with a generic message.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	var ferr *services.FeatureDisabledError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "issues": verr.Issues})
		return
	case errors.As(err, &ferr):
		msg := ferr.Message
		if msg == "" {
			msg = "This feature is temporarily unavailable"
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msg, "feature": ferr.Feature})
		return
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	for _, target := range conflicts {
		if errors.Is(err, target) {
			c.JSON(http.StatusConflict, gin.H{"error": target.Error()})
			return
		}
	}

	zap.L().Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("requestId", c.GetString("RequestID")),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// bindError turns a JSON decoding failure into field issues.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return &services.ValidationError{Issues: []services.FieldIssue{{Message: "request body is required"}}}
	case errors.As(err, &typeErr):
		return &services.ValidationError{Issues: []services.FieldIssue{{
			Path:    typeErr.Field,
			Message: "must be of type " + typeErr.Type.String(),
		}}}
	case errors.As(err, &syntaxErr):
		return &services.ValidationError{Issues: []services.FieldIssue{{Message: "malformed JSON"}}}
	default:
		return &services.ValidationError{Issues: []services.FieldIssue{{Message: err.Error()}}}
	}
}

// objectIDParam parses a path parameter. It writes a 400 and returns false
// when the value is not a valid id.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}
