package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[*Error]int{
		Validation("bad"):                 http.StatusBadRequest,
		Conflict("dup"):                   http.StatusBadRequest,
		NotFound("missing"):               http.StatusNotFound,
		Unauthorized("no token"):          http.StatusUnauthorized,
		Forbidden("not yours"):            http.StatusForbidden,
		Dependency("db", errors.New("x")): http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, err.HTTPStatus(), err.Error())
	}
}

func TestFromAndIs(t *testing.T) {
	wrapped := fmt.Errorf("placing order: %w", Forbidden("not yours"))
	assert.True(t, Is(wrapped, KindForbidden))
	assert.False(t, Is(wrapped, KindNotFound))
	assert.Equal(t, KindForbidden, From(wrapped).Kind)

	plain := errors.New("connection refused")
	e := From(plain)
	assert.Equal(t, KindDependency, e.Kind)
	assert.ErrorIs(t, e, plain)
}

func TestPublicMessageHidesCause(t *testing.T) {
	e := Dependency("save order", errors.New("pq: relation \"orders\" does not exist"))
	assert.Equal(t, "Server error", e.PublicMessage())
	assert.Equal(t, "Category already exists", Conflict("Category already exists").PublicMessage())
}
