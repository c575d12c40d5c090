package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type GeofenceHandler interface {
	CreateLocation(w http.ResponseWriter, r *http.Request)
	ListLocations(w http.ResponseWriter, r *http.Request)
	DeactivateLocation(w http.ResponseWriter, r *http.Request)
}

type geofenceHandlerImpl struct {
	geofenceService geofence.Service
}

func NewGeofenceHandler(geofenceService geofence.Service) GeofenceHandler {
	return &geofenceHandlerImpl{
		geofenceService: geofenceService,
	}
}

// CreateLocation implements GeofenceHandler.
func (h *geofenceHandlerImpl) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req geofence.CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.geofenceService.CreateLocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance location created", result)
}

// ListLocations implements GeofenceHandler.
func (h *geofenceHandlerImpl) ListLocations(w http.ResponseWriter, r *http.Request) {
	var branchID *string
	if s := r.URL.Query().Get("branch_id"); s != "" {
		branchID = &s
	}

	locations, err := h.geofenceService.ListLocations(r.Context(), branchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, locations)
}

// DeactivateLocation implements GeofenceHandler.
func (h *geofenceHandlerImpl) DeactivateLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.geofenceService.DeactivateLocation(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance location deactivated", nil)
}
