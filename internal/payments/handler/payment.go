package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"stayd/internal/payments/service"
	apperrors "stayd/pkg/errors"
	httputil "stayd/pkg/http"
	"stayd/pkg/logger"
	"stayd/pkg/model"

	"github.com/julienschmidt/httprouter"
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

func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !hasBearerToken(r) {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Missing or malformed authorization header")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Initiate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var p model.PaymentInitiation
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Initiate", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	link, err := h.service.Initiate(r.Context(), &p)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Initiate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"payment_link": link}); err != nil {
		h.log.Error("failed to write success response", "handler", "Initiate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var v model.PaymentVerification
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Verify", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, alreadyVerified, err := h.service.Verify(r.Context(), &v)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Verify", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	status := http.StatusCreated
	if alreadyVerified {
		status = http.StatusOK
	}
	if err := httputil.WriteJSON(w, status, httputil.SuccessResponse{Data: booking}); err != nil {
		h.log.Error("failed to write success response", "handler", "Verify", "operation", "WriteJSON", "error", err)
	}
}

func hasBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return false
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")) != ""
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/payments/initiate", h.Initiate)
	router.POST("/api/v1/payments/verify", h.Verify)
}
