// Package form binds and validates the location form and the amenity
// selector. Validation failures are reported per field so the page can show
// them next to the inputs.
package form

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Value is a form value that accepts both JSON strings and JSON numbers, so
// API clients can send {"latitude": 28.7} as well as {"latitude": "28.7"}.
type Value string

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = Value(n.String())
	return nil
}

func (v Value) String() string {
	return string(v)
}

func (v Value) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
}

// LocationForm is the raw submission. Fields stay strings until validation
// passes so the page can echo exactly what the user typed.
type LocationForm struct {
	Name      Value `form:"name" json:"name" validate:"required"`
	Latitude  Value `form:"latitude" json:"latitude" validate:"required,numeric,latitude"`
	Longitude Value `form:"longitude" json:"longitude" validate:"required,numeric,longitude"`
	Type      Value `form:"type" json:"type" validate:"required,amenity"`
}

// AmenityForm is the selector submission.
type AmenityForm struct {
	Type Value `form:"type" json:"type" validate:"required,amenity"`
}

// Errors maps a form field name to its message.
type Errors map[string]string

func (f *LocationForm) normalize() {
	f.Name = Value(strings.TrimSpace(string(f.Name)))
	f.Latitude = Value(strings.TrimSpace(string(f.Latitude)))
	f.Longitude = Value(strings.TrimSpace(string(f.Longitude)))
	f.Type = Value(strings.TrimSpace(string(f.Type)))
}
