package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timeoffbank"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimeOffBankHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	BulkCreate(w http.ResponseWriter, r *http.Request)
	GetMyBalance(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
}

type timeOffBankHandlerImpl struct {
	bankService timeoffbank.BankService
}

func NewTimeOffBankHandler(bankService timeoffbank.BankService) TimeOffBankHandler {
	return &timeOffBankHandlerImpl{
		bankService: bankService,
	}
}

// Create implements TimeOffBankHandler.
func (h *timeOffBankHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req timeoffbank.CreateBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.bankService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time-off bank created", result)
}

// BulkCreate implements TimeOffBankHandler.
func (h *timeOffBankHandlerImpl) BulkCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req timeoffbank.BulkCreateBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	count, err := h.bankService.BulkCreate(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time-off banks created", map[string]int{"created": count})
}

// GetMyBalance implements TimeOffBankHandler.
func (h *timeOffBankHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.bankService.GetBalance(r.Context(), actor, actor.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetBalance implements TimeOffBankHandler.
func (h *timeOffBankHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	userID := chi.URLParam(r, "userID")
	result, err := h.bankService.GetBalance(r.Context(), actor, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
