package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsUnwrapsWrappedError(t *testing.T) {
	base := Conflict("busy", errors.New("submission in flight"))
	wrapped := fmt.Errorf("submit: %w", base)

	got := As(wrapped, "internal")
	if got.Status != http.StatusConflict || got.Code != "busy" {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestAsFallsBack(t *testing.T) {
	got := As(errors.New("boom"), "internal")
	if got.Status != http.StatusInternalServerError || got.Code != "internal" || got.Error() != "boom" {
		t.Fatalf("unexpected: %+v", got)
	}
}
