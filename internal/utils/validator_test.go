// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signInForm struct {
	Username string `json:"username" validate:"required,username"`
	Status   string `json:"status" validate:"omitempty,po_status"`
	Rating   int    `json:"quality_rating" validate:"gte=0,lte=100"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(&signInForm{Username: "budi.s@vms+1", Status: "completed", Rating: 100}))

	tests := []struct {
		name  string
		form  signInForm
		field string
		tag   string
	}{
		{"missing username", signInForm{}, "username", "required"},
		{"username with spaces", signInForm{Username: "budi santoso"}, "username", "username"},
		{"unknown status", signInForm{Username: "budi", Status: "shipped"}, "status", "po_status"},
		{"rating above range", signInForm{Username: "budi", Rating: 101}, "quality_rating", "lte"},
		{"negative rating", signInForm{Username: "budi", Rating: -1}, "quality_rating", "gte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := GetValidationErrors(ValidateStruct(&tt.form))
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.tag, errs[0].Tag)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestGetValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, GetValidationErrors(nil))
	assert.Empty(t, GetValidationErrors(assert.AnError))
}
