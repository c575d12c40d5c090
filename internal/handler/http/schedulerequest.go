package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedulerequest"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ScheduleRequestHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type scheduleRequestHandlerImpl struct {
	requestService schedulerequest.RequestService
}

func NewScheduleRequestHandler(requestService schedulerequest.RequestService) ScheduleRequestHandler {
	return &scheduleRequestHandlerImpl{
		requestService: requestService,
	}
}

// Submit implements ScheduleRequestHandler.
func (h *scheduleRequestHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req schedulerequest.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.requestService.Submit(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Schedule request submitted", result)
}

// Approve implements ScheduleRequestHandler.
func (h *scheduleRequestHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.requestService.Approve(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule request approved", result)
}

// Reject implements ScheduleRequestHandler.
func (h *scheduleRequestHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req schedulerequest.RejectRequest
	if r.Body != nil {
		// Body is optional; a bare reject carries no reason.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	id := chi.URLParam(r, "id")
	result, err := h.requestService.Reject(r.Context(), actor, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule request rejected", result)
}

// Cancel implements ScheduleRequestHandler.
func (h *scheduleRequestHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.requestService.Cancel(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule request cancelled", result)
}

// Get implements ScheduleRequestHandler.
func (h *scheduleRequestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.requestService.Get(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements ScheduleRequestHandler.
func (h *scheduleRequestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	q := r.URL.Query()
	filter := schedulerequest.ListFilter{
		Page:  parseIntOrDefault(q.Get("page"), 1),
		Limit: parseIntOrDefault(q.Get("limit"), 20),
	}

	if s := q.Get("user_id"); s != "" {
		filter.UserID = &s
	}
	if s := q.Get("status"); s != "" {
		status := schedulerequest.RequestStatus(s)
		filter.Status = &status
	}
	if s := q.Get("from"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.From = &t
		}
	}
	if s := q.Get("to"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.To = &t
		}
	}

	result, err := h.requestService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Requests, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}
