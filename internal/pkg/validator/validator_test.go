package validator

import "testing"

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"a", false},
		{" a ", false},
	}

	for _, tt := range tests {
		if got := IsEmpty(tt.input); got != tt.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"6f9619ff-8b86-4d01-b42d-00cf4fc964ff", true},
		{"6F9619FF-8B86-4D01-B42D-00CF4FC964FF", true},
		{"6f9619ff8b864d01b42d00cf4fc964ff", false},
		{"not-a-uuid", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidUUID(tt.input); got != tt.want {
			t.Errorf("IsValidUUID(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2025-03-03", true},
		{"2025-02-29", false},
		{"03-03-2025", false},
		{"2025-3-3", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, got := IsValidDate(tt.input); got != tt.want {
			t.Errorf("IsValidDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsValidClockTime(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"09:00", true},
		{"23:59", true},
		{"09:00:30", true},
		{"24:00", false},
		{"9am", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, got := IsValidClockTime(tt.input); got != tt.want {
			t.Errorf("IsValidClockTime(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2025-03-03T09:00:00Z", true},
		{"2025-03-03T09:00:00+07:00", true},
		{"2025-03-03T09:00:00.123Z", true},
		{"2025-03-03 09:00:00", false},
		{"2025-03-03", false},
	}

	for _, tt := range tests {
		if _, got := IsValidDateTime(tt.input); got != tt.want {
			t.Errorf("IsValidDateTime(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCoordinateBounds(t *testing.T) {
	if !IsValidLatitude(-90) || !IsValidLatitude(90) || !IsValidLatitude(0) {
		t.Error("boundary latitudes should be valid")
	}
	if IsValidLatitude(-90.1) || IsValidLatitude(90.1) {
		t.Error("out-of-range latitudes should be invalid")
	}
	if !IsValidLongitude(-180) || !IsValidLongitude(180) {
		t.Error("boundary longitudes should be valid")
	}
	if IsValidLongitude(180.1) {
		t.Error("out-of-range longitudes should be invalid")
	}
}

func TestValidationErrorsError(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "date is required"},
		{Field: "status", Message: "status is invalid"},
	}
	want := "date: date is required; status: status is invalid"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}

	m := errs.ToMap()
	if m["date"] != "date is required" || m["status"] != "status is invalid" {
		t.Errorf("ToMap() = %v", m)
	}
}
