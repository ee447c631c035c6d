package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"amenitymap/internal/amenity"
	"amenitymap/internal/apperr"
	"amenitymap/internal/models"

	"github.com/go-playground/validator/v10"
)

var labels = map[string]string{
	"name":      "Name",
	"latitude":  "Latitude",
	"longitude": "Longitude",
	"type":      "Type",
}

// Validator wraps the go-playground validator with the form's custom rules
// and messages.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("amenity", func(fl validator.FieldLevel) bool {
		_, err := amenity.Parse(fl.Field().String())
		return err == nil
	})
	return &Validator{v: v}
}

// ParseLocation validates f and converts it into a LocationQuery. On failure
// the returned *apperr.Error carries an Errors value in Details.
func (val *Validator) ParseLocation(f LocationForm) (models.LocationQuery, error) {
	f.normalize()
	if err := val.check(f); err != nil {
		return models.LocationQuery{}, err
	}

	// Both values passed the numeric rule, so parsing cannot fail.
	lat, _ := f.Latitude.Float()
	lon, _ := f.Longitude.Float()
	t, _ := amenity.Parse(f.Type.String())

	return models.LocationQuery{
		Name:      f.Name.String(),
		Latitude:  lat,
		Longitude: lon,
		Type:      t,
	}, nil
}

func (val *Validator) ParseAmenity(f AmenityForm) (amenity.Type, error) {
	f.Type = Value(strings.TrimSpace(string(f.Type)))
	if err := val.check(f); err != nil {
		return "", err
	}
	t, _ := amenity.Parse(f.Type.String())
	return t, nil
}

func (val *Validator) check(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindInternal, "validation failed", err)
	}
	fieldErrs := make(Errors, len(verrs))
	for _, fe := range verrs {
		if _, seen := fieldErrs[fe.Field()]; !seen {
			fieldErrs[fe.Field()] = message(fe)
		}
	}
	return apperr.Validation("invalid form").WithDetails(fieldErrs)
}

func message(fe validator.FieldError) string {
	label, ok := labels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "numeric":
		return label + " must be a number"
	case "latitude":
		return "Latitude must be between -90 and 90"
	case "longitude":
		return "Longitude must be between -180 and 180"
	case "amenity":
		return fmt.Sprintf("%s must be one of %s", label, amenity.Names(", "))
	default:
		return label + " is invalid"
	}
}

// FieldErrors extracts per-field messages from an error returned by this
// package. It returns nil for any other error.
func FieldErrors(err error) Errors {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return nil
	}
	fe, _ := e.Details.(Errors)
	return fe
}
