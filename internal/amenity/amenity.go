// Package amenity defines the closed set of point-of-interest categories the
// map can display, together with their icons and OpenStreetMap tag values.
package amenity

import (
	"fmt"
	"strings"
)

// Type is an OpenStreetMap amenity category.
type Type string

const (
	Restaurant     Type = "restaurant"
	Hospital       Type = "hospital"
	School         Type = "school"
	PlaceOfWorship Type = "place_of_worship"
)

// Default is the type selected before the user picks one.
const Default = Restaurant

// Icon describes how markers of a type are drawn.
type Icon struct {
	Glyph     string `json:"glyph"`
	ClassName string `json:"className"`
}

type descriptor struct {
	label string
	icon  Icon
}

var all = []Type{Restaurant, Hospital, School, PlaceOfWorship}

var descriptors = map[Type]descriptor{
	Restaurant:     {label: "Restaurant", icon: Icon{Glyph: "🍽️", ClassName: "marker-restaurant"}},
	Hospital:       {label: "Hospital", icon: Icon{Glyph: "🏥", ClassName: "marker-hospital"}},
	School:         {label: "School", icon: Icon{Glyph: "🏫", ClassName: "marker-school"}},
	PlaceOfWorship: {label: "Place of worship", icon: Icon{Glyph: "🛐", ClassName: "marker-place-of-worship"}},
}

// All returns every known type in display order.
func All() []Type {
	out := make([]Type, len(all))
	copy(out, all)
	return out
}

// Parse matches s case-insensitively against the known types.
func Parse(s string) (Type, error) {
	s = strings.TrimSpace(s)
	for _, t := range all {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown amenity type %q", s)
}

func (t Type) Valid() bool {
	_, ok := descriptors[t]
	return ok
}

// Tag is the value of the OSM "amenity" key for this type.
func (t Type) Tag() string {
	return string(t)
}

func (t Type) Label() string {
	if d, ok := descriptors[t]; ok {
		return d.label
	}
	return string(t)
}

func (t Type) Icon() Icon {
	if d, ok := descriptors[t]; ok {
		return d.icon
	}
	return Icon{Glyph: "📍", ClassName: "marker-default"}
}

// Names returns the type values joined for use in messages and validation tags.
func Names(sep string) string {
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = string(t)
	}
	return strings.Join(names, sep)
}
