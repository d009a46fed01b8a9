package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"renthub/internal/rentals/service"
	httputil "renthub/pkg/http"
	"renthub/pkg/logger"
	"renthub/pkg/model"
)

type RentalHandler struct {
	service service.RentalService
	log     *logger.Logger
}

func NewRentalHandler(service service.RentalService, log *logger.Logger) *RentalHandler {
	return &RentalHandler{
		service: service,
		log:     log,
	}
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var record model.RentalRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &record); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, record); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *RentalHandler) GetByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userRef := ps.ByName("userRef")

	records, err := h.service.GetByUser(r.Context(), userRef)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByUser", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, records); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByUser", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RentalHandler) GetByVehicle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	vehicleID := ps.ByName("vehicleId")

	records, err := h.service.GetByVehicle(r.Context(), vehicleID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByVehicle", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, records); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByVehicle", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RentalHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	record, err := h.service.Complete(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Complete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, record); err != nil {
		h.log.Error("failed to write success response", "handler", "Complete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RentalHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rentals", h.Create)
	router.GET("/api/v1/rentals/user/:userRef", h.GetByUser)
	router.GET("/api/v1/rentals/vehicle/:vehicleId", h.GetByVehicle)
	router.POST("/api/v1/rentals/id/:id/complete", h.Complete)
}
