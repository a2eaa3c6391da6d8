package errorbank

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{BadRequest("bad"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("bad token"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("taken"), http.StatusConflict},
		{Unprocessable("mismatch"), http.StatusUnprocessableEntity},
		{Internal("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode(), tc.err.Message())
	}
}

func TestGRPCCodes(t *testing.T) {
	assert.Equal(t, codes.Unauthenticated, Unauthorized("no token").GRPCCode())
	assert.Equal(t, codes.PermissionDenied, Forbidden("bad token").GRPCCode())
	assert.Equal(t, codes.NotFound, NotFound("missing").GRPCCode())
}

func TestFrom_WrapsPlainErrors(t *testing.T) {
	cause := errors.New("disk on fire")

	appErr := From(cause)

	assert.Equal(t, KindInternal, appErr.Kind())
	assert.ErrorIs(t, appErr, cause)
}

func TestFrom_PreservesAppErrors(t *testing.T) {
	original := NotFound("missing", WithDetail("id", 4))

	appErr := From(original)

	assert.Same(t, original, appErr)
	assert.Equal(t, 4, appErr.Details()["id"])
}

func TestFrom_Nil(t *testing.T) {
	assert.Nil(t, From(nil))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Internal("wrapped", WithCause(cause))

	assert.ErrorIs(t, err, cause)
}
