package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"renthub/internal/payments/service"
	httputil "renthub/pkg/http"
	"renthub/pkg/logger"
	"renthub/pkg/model"
)

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log,
	}
}

func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payment model.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Record", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Record(r.Context(), &payment); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Record", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, payment); err != nil {
		h.log.Error("failed to write created response", "handler", "Record", "operation", "WriteCreated", "error", err)
	}
}

func (h *PaymentHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	payment, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, payment); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) HistoryByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userRef := ps.ByName("userRef")

	payments, err := h.service.HistoryByUser(r.Context(), userRef)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "HistoryByUser", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, payments); err != nil {
		h.log.Error("failed to write success response", "handler", "HistoryByUser", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/payments", h.Record)
	router.GET("/api/v1/payments/id/:id", h.GetByID)
	router.GET("/api/v1/payments/user/:userRef", h.HistoryByUser)
}
