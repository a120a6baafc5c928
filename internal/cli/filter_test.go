package cli

import (
	"testing"

	lerrors "github.com/linealens/linealens/pkg/errors"
)

func TestValidateLayers(t *testing.T) {
	if err := validateLayers(nil); err != nil {
		t.Errorf("validateLayers(nil) error: %v", err)
	}
	if err := validateLayers([]string{"staging", "mart-internal"}); err != nil {
		t.Errorf("validateLayers(known) error: %v", err)
	}

	err := validateLayers([]string{"staging", "gold"})
	if err == nil {
		t.Fatal("validateLayers should reject unknown layer names")
	}
	if lerrors.GetCode(err) != lerrors.ErrCodeInvalidInput {
		t.Errorf("code = %s, want %s", lerrors.GetCode(err), lerrors.ErrCodeInvalidInput)
	}
}
