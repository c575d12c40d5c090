package geofence

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLocationRepo struct {
	locations []geofence.AttendanceLocation
	listErr   error
}

func (s *stubLocationRepo) Create(ctx context.Context, loc geofence.AttendanceLocation) (geofence.AttendanceLocation, error) {
	s.locations = append(s.locations, loc)
	return loc, nil
}

func (s *stubLocationRepo) GetByID(ctx context.Context, id string) (geofence.AttendanceLocation, error) {
	for _, loc := range s.locations {
		if loc.ID == id {
			return loc, nil
		}
	}
	return geofence.AttendanceLocation{}, geofence.ErrLocationNotFound
}

func (s *stubLocationRepo) ListActive(ctx context.Context, branchID *string) ([]geofence.AttendanceLocation, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.locations, nil
}

func (s *stubLocationRepo) Deactivate(ctx context.Context, id string) error {
	for i, loc := range s.locations {
		if loc.ID == id {
			s.locations[i].IsActive = false
			return nil
		}
	}
	return geofence.ErrLocationNotFound
}

// Jakarta HQ and a point roughly 50m north of it.
var (
	hq     = geofence.Coordinates{Latitude: -6.2000, Longitude: 106.8160}
	nearHQ = geofence.Coordinates{Latitude: -6.19955, Longitude: 106.8160}
	farOff = geofence.Coordinates{Latitude: -6.3000, Longitude: 106.9000}
)

func branchZone(radius int) geofence.Zone {
	center := hq
	return geofence.Zone{
		Mode:         staff.ModeBranchBased,
		Center:       &center,
		RadiusMeters: radius,
	}
}

func TestVerify_BranchBasedInsideRadius(t *testing.T) {
	svc := NewGeofenceService(&stubLocationRepo{}, 100)

	coords := nearHQ
	result := svc.Verify(context.Background(), branchZone(100), &coords)
	assert.True(t, result.Verified)
	assert.Nil(t, result.LocationName)
}

func TestVerify_BranchBasedOutsideRadius(t *testing.T) {
	svc := NewGeofenceService(&stubLocationRepo{}, 100)

	coords := farOff
	result := svc.Verify(context.Background(), branchZone(100), &coords)
	assert.False(t, result.Verified)
}

func TestVerify_BranchBasedNoCenter(t *testing.T) {
	svc := NewGeofenceService(&stubLocationRepo{}, 100)

	coords := hq
	result := svc.Verify(context.Background(), geofence.Zone{Mode: staff.ModeBranchBased}, &coords)
	assert.False(t, result.Verified)
}

func TestVerify_NilCoordinates(t *testing.T) {
	svc := NewGeofenceService(&stubLocationRepo{}, 100)

	result := svc.Verify(context.Background(), branchZone(100), nil)
	assert.False(t, result.Verified)
}

func TestVerify_FlexibleNeverVerifies(t *testing.T) {
	svc := NewGeofenceService(&stubLocationRepo{}, 100)

	coords := hq
	result := svc.Verify(context.Background(), geofence.Zone{Mode: staff.ModeFlexible}, &coords)
	assert.False(t, result.Verified)
}

func TestVerify_MultipleLocationsCapturesName(t *testing.T) {
	repo := &stubLocationRepo{locations: []geofence.AttendanceLocation{
		{ID: "l1", Name: "Warehouse", Latitude: -6.5000, Longitude: 107.0000, RadiusMeters: 80, IsActive: true},
		{ID: "l2", Name: "HQ", Latitude: hq.Latitude, Longitude: hq.Longitude, RadiusMeters: 80, IsActive: true},
	}}
	svc := NewGeofenceService(repo, 100)

	coords := nearHQ
	result := svc.Verify(context.Background(), geofence.Zone{Mode: staff.ModeMultipleLocations}, &coords)
	require.True(t, result.Verified)
	require.NotNil(t, result.LocationName)
	assert.Equal(t, "HQ", *result.LocationName)
}

func TestVerify_MultipleLocationsNoMatch(t *testing.T) {
	repo := &stubLocationRepo{locations: []geofence.AttendanceLocation{
		{ID: "l1", Name: "HQ", Latitude: hq.Latitude, Longitude: hq.Longitude, RadiusMeters: 80, IsActive: true},
	}}
	svc := NewGeofenceService(repo, 100)

	coords := farOff
	result := svc.Verify(context.Background(), geofence.Zone{Mode: staff.ModeMultipleLocations}, &coords)
	assert.False(t, result.Verified)
}

func TestVerify_LookupFailureIsUnverified(t *testing.T) {
	repo := &stubLocationRepo{listErr: errors.New("connection refused")}
	svc := NewGeofenceService(repo, 100)

	coords := hq
	result := svc.Verify(context.Background(), geofence.Zone{Mode: staff.ModeMultipleLocations}, &coords)
	assert.False(t, result.Verified)
}

func TestCreateLocation_Validation(t *testing.T) {
	svc := NewGeofenceService(&stubLocationRepo{}, 100)

	_, err := svc.CreateLocation(context.Background(), geofence.CreateLocationRequest{
		Name:         "",
		Latitude:     200,
		RadiusMeters: 0,
	})
	require.Error(t, err)
}

func TestCreateLocation_Succeeds(t *testing.T) {
	repo := &stubLocationRepo{}
	svc := NewGeofenceService(repo, 100)

	resp, err := svc.CreateLocation(context.Background(), geofence.CreateLocationRequest{
		Name:         "HQ",
		Latitude:     hq.Latitude,
		Longitude:    hq.Longitude,
		RadiusMeters: 80,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.True(t, resp.IsActive)
	assert.Len(t, repo.locations, 1)
}

func TestDeactivateLocation_NotFound(t *testing.T) {
	svc := NewGeofenceService(&stubLocationRepo{}, 100)

	err := svc.DeactivateLocation(context.Background(), "missing")
	assert.ErrorIs(t, err, geofence.ErrLocationNotFound)
}
