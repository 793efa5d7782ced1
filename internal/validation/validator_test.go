package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
)

type testRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Rating   int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Status   string `json:"status" validate:"required,oneof=want reading read abandoned"`
}

func TestValidate_Passes(t *testing.T) {
	v := New()
	err := v.Validate(testRequest{Username: "marina", Rating: 4, Status: "read"})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	v := New()
	err := v.Validate(testRequest{Status: "read"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["username"])
}

func TestValidate_RatingOutOfRange(t *testing.T) {
	v := New()
	err := v.Validate(testRequest{Username: "marina", Rating: 6, Status: "read"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	details := domainErr.Details.(map[string]string)
	assert.Equal(t, "must be less than or equal to 5", details["rating"])
}

func TestValidate_UsesJSONTagNames(t *testing.T) {
	v := New()
	err := v.Validate(testRequest{Username: "ab", Status: "paused"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	details := domainErr.Details.(map[string]string)
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "status")
	assert.Equal(t, "must be one of: want reading read abandoned", details["status"])
}
