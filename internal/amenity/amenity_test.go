package amenity

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    Type
		wantErr bool
	}{
		{"exact match", "hospital", Hospital, false},
		{"case-insensitive", "PLACE_OF_WORSHIP", PlaceOfWorship, false},
		{"surrounding spaces", "  school ", School, false},
		{"unknown", "museum", "", true},
		{"empty", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v; wantErr %v", tc.input, err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("Parse(%q) = %q; want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestIconsAreDistinct(t *testing.T) {
	seen := make(map[string]Type)
	for _, ty := range All() {
		if !ty.Valid() {
			t.Fatalf("%q reported invalid", ty)
		}
		cls := ty.Icon().ClassName
		if other, dup := seen[cls]; dup {
			t.Fatalf("%q and %q share icon class %q", ty, other, cls)
		}
		seen[cls] = ty
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 types, got %d", len(seen))
	}
}

func TestUnknownTypeFallsBack(t *testing.T) {
	var ty Type = "museum"
	if ty.Valid() {
		t.Fatal("museum should not be valid")
	}
	if got := ty.Icon().ClassName; got != "marker-default" {
		t.Errorf("Icon().ClassName = %q; want marker-default", got)
	}
	if got := ty.Label(); got != "museum" {
		t.Errorf("Label() = %q; want museum", got)
	}
}

func TestNames(t *testing.T) {
	if got := Names(" "); got != "restaurant hospital school place_of_worship" {
		t.Errorf("Names = %q", got)
	}
}
