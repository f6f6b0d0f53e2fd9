package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/solenergy/solenergy.com/internal/logging"
	"github.com/solenergy/solenergy.com/internal/util"
)

func errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.Logger(r)

	var (
		status = http.StatusInternalServerError
		body   = util.ErrorResponse{Message: "Internal server error"}

		verr *util.ValidationError
		uerr util.UserError
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		body = verr.Response()
	case errors.As(err, &uerr):
		status = uerr.Status()
		body = util.ErrorResponse{Message: uerr.Message}
	}
	logger.Printf("AsHttp error %d: %v\n", status, err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Println("pathological error:", err)
	}
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	logging.Logger(r).Println("404", r.URL)
	errorResponse(
		w, r,
		util.CreateCustomError("Not found", http.StatusNotFound),
	)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	errorResponse(
		w, r,
		util.CreateCustomError(
			"Method not allowed", http.StatusMethodNotAllowed,
		),
	)
}
