package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/pkg/ctx"
	"github.com/shashiranjanraj/estoque/pkg/logger"
)

// fail maps an inventory error onto the JSON envelope.
func fail(c *ctx.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr.Fields)
	case errors.Is(err, models.ErrProductNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, models.ErrEngineInit):
		c.Error(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, models.ErrStatement), errors.Is(err, models.ErrImport):
		c.Error(http.StatusBadRequest, err.Error())
	default:
		logger.WithCtx(c.Context()).Error("request failed", "error", err)
		c.Error(http.StatusInternalServerError, "internal server error")
	}
}
