package geofence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/geo"
	"github.com/google/uuid"
)

type GeofenceServiceImpl struct {
	geofence.LocationRepository
	defaultRadiusMeters int
}

func NewGeofenceService(locationRepo geofence.LocationRepository, defaultRadiusMeters int) geofence.Service {
	return &GeofenceServiceImpl{
		LocationRepository:  locationRepo,
		defaultRadiusMeters: defaultRadiusMeters,
	}
}

// Verify implements geofence.Verifier. Verification is advisory: any
// failure to evaluate the zone yields an unverified result, never an error.
func (g *GeofenceServiceImpl) Verify(ctx context.Context, zone geofence.Zone, coords *geofence.Coordinates) geofence.Result {
	if coords == nil {
		return geofence.Result{Verified: false}
	}

	switch zone.Mode {
	case staff.ModeBranchBased:
		return g.verifyBranchBased(zone, coords)
	case staff.ModeMultipleLocations:
		return g.verifyMultipleLocations(ctx, zone, coords)
	default:
		// flexible: no zone to check against
		return geofence.Result{Verified: false}
	}
}

// verifyBranchBased checks the coordinate against a single branch circle
// using the flat-projection distance. The approximation is part of the
// contract; see geo.PlanarDistance.
func (g *GeofenceServiceImpl) verifyBranchBased(zone geofence.Zone, coords *geofence.Coordinates) geofence.Result {
	if zone.Center == nil {
		return geofence.Result{Verified: false}
	}

	radius := zone.RadiusMeters
	if radius <= 0 {
		radius = g.defaultRadiusMeters
	}

	distance := geo.PlanarDistance(coords.Latitude, coords.Longitude, zone.Center.Latitude, zone.Center.Longitude)
	return geofence.Result{Verified: distance <= float64(radius)}
}

func (g *GeofenceServiceImpl) verifyMultipleLocations(ctx context.Context, zone geofence.Zone, coords *geofence.Coordinates) geofence.Result {
	locations, err := g.LocationRepository.ListActive(ctx, zone.BranchID)
	if err != nil {
		slog.Warn("geofence lookup failed, treating check-in as unverified", "error", err)
		return geofence.Result{Verified: false}
	}

	for _, loc := range locations {
		distance := geo.HaversineDistance(coords.Latitude, coords.Longitude, loc.Latitude, loc.Longitude)
		if distance <= float64(loc.RadiusMeters) {
			name := loc.Name
			return geofence.Result{Verified: true, LocationName: &name}
		}
	}

	return geofence.Result{Verified: false}
}

// CreateLocation implements geofence.Service.
func (g *GeofenceServiceImpl) CreateLocation(ctx context.Context, req geofence.CreateLocationRequest) (geofence.LocationResponse, error) {
	if err := req.Validate(); err != nil {
		return geofence.LocationResponse{}, err
	}

	location := geofence.AttendanceLocation{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		BranchID:     req.BranchID,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	created, err := g.LocationRepository.Create(ctx, location)
	if err != nil {
		return geofence.LocationResponse{}, fmt.Errorf("failed to create attendance location: %w", err)
	}

	return mapLocationToResponse(created), nil
}

// ListLocations implements geofence.Service.
func (g *GeofenceServiceImpl) ListLocations(ctx context.Context, branchID *string) ([]geofence.LocationResponse, error) {
	locations, err := g.LocationRepository.ListActive(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance locations: %w", err)
	}

	responses := make([]geofence.LocationResponse, 0, len(locations))
	for _, loc := range locations {
		responses = append(responses, mapLocationToResponse(loc))
	}
	return responses, nil
}

// DeactivateLocation implements geofence.Service.
func (g *GeofenceServiceImpl) DeactivateLocation(ctx context.Context, id string) error {
	if err := g.LocationRepository.Deactivate(ctx, id); err != nil {
		if errors.Is(err, geofence.ErrLocationNotFound) {
			return geofence.ErrLocationNotFound
		}
		return fmt.Errorf("failed to deactivate attendance location: %w", err)
	}
	return nil
}

func mapLocationToResponse(loc geofence.AttendanceLocation) geofence.LocationResponse {
	return geofence.LocationResponse{
		ID:           loc.ID,
		Name:         loc.Name,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		RadiusMeters: loc.RadiusMeters,
		BranchID:     loc.BranchID,
		IsActive:     loc.IsActive,
	}
}
