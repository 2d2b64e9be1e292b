package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/Simplici0/ledwall/internal/estimator"
	"github.com/Simplici0/ledwall/internal/pricing"
	"github.com/Simplici0/ledwall/internal/report"
)

// Quoter computes an estimate for a request that carries its own credential.
type Quoter interface {
	Estimate(req estimator.Request) (estimator.Result, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

func handleEstimateAPI(log *zap.Logger, quoter Quoter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "server.handleEstimateAPI"

		var req estimator.Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "invalid JSON"})
			return
		}

		mode, err := pricing.ParseMode(string(req.Mode))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: err.Error()})
			return
		}
		req.Mode = mode

		res, err := quoter.Estimate(req)
		if err != nil {
			if isValidationError(err) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, errorResponse{Error: err.Error()})
				return
			}
			log.Error("failed to estimate", zap.String("op", op), zap.Error(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse{Error: "internal error"})
			return
		}

		render.JSON(w, r, report.NewEstimate(res))
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, estimator.ErrInvalidDimension) ||
		errors.Is(err, estimator.ErrInvalidQuantity) ||
		errors.Is(err, estimator.ErrInvalidRate) ||
		errors.Is(err, estimator.ErrInvalidShipping)
}
