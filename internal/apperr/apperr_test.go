package apperr

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindBadRequest, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUnavailable, http.StatusServiceUnavailable},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusBadRequest},
	}
	for _, tt := range tests {
		if got := New(tt.kind, "x").HTTPStatus(); got != tt.want {
			t.Errorf("kind %d: got %d want %d", tt.kind, got, tt.want)
		}
	}
}

func TestGetKind_Wrapped(t *testing.T) {
	base := Validation("bad input").WithOp("form.Parse")
	wrapped := fmt.Errorf("submit: %w", base)

	if !Is(wrapped, KindValidation) {
		t.Fatalf("expected validation kind through wrapping, got %d", GetKind(wrapped))
	}
	if base.Error() != "form.Parse: bad input" {
		t.Errorf("Error() = %q", base.Error())
	}
	if GetKind(fmt.Errorf("plain")) != KindUnknown {
		t.Error("plain error should be KindUnknown")
	}
}
