// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package validation

import (
	"strings"
	"testing"
)

type pageRequest struct {
	UserID string `validate:"required"`
	Page   int    `validate:"min=1"`
	Limit  int    `validate:"min=1,max=100"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	if err := ValidateStruct(&pageRequest{UserID: "sara", Page: 1, Limit: 20}); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStruct_SingleFailure(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&pageRequest{UserID: "sara", Page: 0, Limit: 20})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if len(err.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1", len(err.Errors()))
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "Page" {
		t.Errorf("details field = %v, want Page", apiErr.Details["field"])
	}
}

func TestValidateStruct_MultipleFailures(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&pageRequest{Page: 0, Limit: 500})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if len(err.Errors()) != 3 {
		t.Fatalf("got %d errors, want 3", len(err.Errors()))
	}
	apiErr := err.ToAPIError()
	if !strings.Contains(apiErr.Message, "UserID") || !strings.Contains(apiErr.Message, "Limit") {
		t.Errorf("message %q does not name all failed fields", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("details missing fields list")
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned distinct instances")
	}
}
