package dErrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	err := New(CodeNotOwner, "caller is not the custodian")
	assert.True(t, HasCode(err, CodeNotOwner))
	assert.False(t, HasCode(err, CodeNotAuthorized))

	wrapped := fmt.Errorf("transfer rejected: %w", err)
	assert.True(t, HasCode(wrapped, CodeNotOwner))

	assert.False(t, HasCode(fmt.Errorf("plain"), CodeNotOwner))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeMineNotFound, CodeOf(New(CodeMineNotFound, "no such mine")))
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("plain")))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotAuthorized:         http.StatusForbidden,
		CodeNotOwner:              http.StatusForbidden,
		CodeCertNotAuthorized:     http.StatusForbidden,
		CodeMineExists:            http.StatusConflict,
		CodeBatchExists:           http.StatusConflict,
		CodeAlreadyCertified:      http.StatusConflict,
		CodeMineNotFound:          http.StatusNotFound,
		CodeBatchNotFound:         http.StatusNotFound,
		CodeCertificationNotFound: http.StatusNotFound,
		CodeBadRequest:            http.StatusBadRequest,
		CodeInternal:              http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), "code %d", code)
	}
}
