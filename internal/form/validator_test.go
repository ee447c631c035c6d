package form

import (
	"encoding/json"
	"testing"

	"amenitymap/internal/amenity"
	"amenitymap/internal/apperr"
)

func TestValidator_ParseLocation(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		form       LocationForm
		wantErrors Errors
	}{
		{
			name:       "empty name",
			form:       LocationForm{Name: "", Latitude: "28.7", Longitude: "77.1", Type: "hospital"},
			wantErrors: Errors{"name": "Name is required"},
		},
		{
			name:       "whitespace name",
			form:       LocationForm{Name: "   ", Latitude: "28.7", Longitude: "77.1", Type: "hospital"},
			wantErrors: Errors{"name": "Name is required"},
		},
		{
			name: "missing coordinates",
			form: LocationForm{Name: "X", Type: "school"},
			wantErrors: Errors{
				"latitude":  "Latitude is required",
				"longitude": "Longitude is required",
			},
		},
		{
			name: "non numeric coordinates",
			form: LocationForm{Name: "X", Latitude: "north", Longitude: "12a", Type: "school"},
			wantErrors: Errors{
				"latitude":  "Latitude must be a number",
				"longitude": "Longitude must be a number",
			},
		},
		{
			name: "out of range coordinates",
			form: LocationForm{Name: "X", Latitude: "91", Longitude: "-181", Type: "school"},
			wantErrors: Errors{
				"latitude":  "Latitude must be between -90 and 90",
				"longitude": "Longitude must be between -180 and 180",
			},
		},
		{
			name:       "unknown type",
			form:       LocationForm{Name: "X", Latitude: "1", Longitude: "1", Type: "museum"},
			wantErrors: Errors{"type": "Type must be one of restaurant, hospital, school, place_of_worship"},
		},
		{
			name:       "missing type",
			form:       LocationForm{Name: "X", Latitude: "1", Longitude: "1"},
			wantErrors: Errors{"type": "Type is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ParseLocation(tt.form)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected validation kind, got %v", err)
			}
			got := FieldErrors(err)
			if len(got) != len(tt.wantErrors) {
				t.Fatalf("errors = %v, want %v", got, tt.wantErrors)
			}
			for field, msg := range tt.wantErrors {
				if got[field] != msg {
					t.Errorf("%s: got %q want %q", field, got[field], msg)
				}
			}
		})
	}
}

func TestValidator_ParseLocation_Valid(t *testing.T) {
	q, err := NewValidator().ParseLocation(LocationForm{Name: " X ", Latitude: "28.7", Longitude: "77.1", Type: "hospital"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Name != "X" || q.Latitude != 28.7 || q.Longitude != 77.1 || q.Type != amenity.Hospital {
		t.Errorf("got %+v", q)
	}
}

func TestValidator_ParseAmenity(t *testing.T) {
	v := NewValidator()

	got, err := v.ParseAmenity(AmenityForm{Type: "school"})
	if err != nil || got != amenity.School {
		t.Fatalf("got %q, %v", got, err)
	}

	_, err = v.ParseAmenity(AmenityForm{Type: "bar"})
	if FieldErrors(err)["type"] == "" {
		t.Fatalf("expected type error, got %v", err)
	}
}

func TestValue_UnmarshalJSON(t *testing.T) {
	var f LocationForm
	body := `{"name":"X","latitude":28.7,"longitude":"77.1","type":null}`
	if err := json.Unmarshal([]byte(body), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Latitude != "28.7" || f.Longitude != "77.1" || f.Type != "" {
		t.Errorf("got %+v", f)
	}

	if err := json.Unmarshal([]byte(`{"latitude":true}`), &f); err == nil {
		t.Error("expected error for boolean latitude")
	}
}
