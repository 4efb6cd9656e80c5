package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"name":           "name",
		"createdAtStart": "created_at_start",
		"sortType":       "sort_type",
		"email":          "email",
	}
	for in, out := range cases {
		assert.Equal(t, out, ToSnakeCase(in))
	}
}

func TestFieldErrorMessages(t *testing.T) {
	err := NewRequiredFieldError("email")
	assert.Equal(t, "email is required", AsAppError(err).Detail)

	err = NewInvalidFieldError("createdAtStart")
	assert.Equal(t, "created_at_start is invalid", AsAppError(err).Detail)
}

func TestResolveMapsTaxonomyToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{NewRequiredFieldError("name"), 400, "name is required"},
		{NewInvalidEnumError("status", "ERROR", []string{"active", "disable"}), 400,
			"Invalid status [ERROR], accepted values: [active, disable]"},
		{NewInvalidDateError("nope"), 400,
			"Invalid date [nope], accepted formats: [yyyy-MM-dd, yyyy-MM-ddTHH:mm:ssZ]"},
		{NewInvalidArgument("The 'page' field must be greater than or equal to 1"), 400,
			"The 'page' field must be greater than or equal to 1"},
		{NewNotFound("User not found"), 404, "User not found"},
		{NewPreconditionFailed("The 'limit' field is greater than the configured maximum limit [100]"), 412,
			"The 'limit' field is greater than the configured maximum limit [100]"},
		{NewMethodNotAllowed(), 405, ""},
		{NewRouteNotFound(), 404, ""},
	}

	for _, tc := range cases {
		response := Resolve(tc.err)
		require.NotNil(t, response)
		assert.Equal(t, tc.status, response.Status)
		assert.Equal(t, http.StatusText(tc.status), response.Title)
		assert.Equal(t, tc.detail, response.Detail)
		assert.Nil(t, response.Type)
		assert.Nil(t, response.OriginalMessage)
	}
}

func TestResolveDefaultsToInternalFault(t *testing.T) {
	response := Resolve(errors.New("connection reset"))

	assert.Equal(t, 500, response.Status)
	assert.Equal(t, "Internal Server Error", response.Title)
	assert.Equal(t, "connection reset", response.Detail)
}

func TestWithOriginalMessageDoesNotMutateOriginal(t *testing.T) {
	response := Resolve(NewNotFound("User not found"))
	attached := response.WithOriginalMessage(json.RawMessage(`{"id":"123"}`))

	assert.Nil(t, response.OriginalMessage)
	require.NotNil(t, attached.OriginalMessage)
	assert.Equal(t, response.Status, attached.Status)
	assert.Equal(t, response.Detail, attached.Detail)
}

func TestErrorResponseJSONShape(t *testing.T) {
	response := Resolve(NewNotFound("User not found"))
	body, err := json.Marshal(response)
	require.NoError(t, err)

	assert.JSONEq(t, `{"status":404,"title":"Not Found","detail":"User not found","type":null}`, string(body))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("broken pipe")
	err := NewInternalFault(cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "broken pipe", AsAppError(err).Detail)
}
