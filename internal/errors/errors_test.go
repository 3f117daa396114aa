package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	inner := SchemaError("missing columns", stderrors.New("BOBOT"))
	wrapped := Wrap(inner, "analysis failed")

	assert.Equal(t, CodeSchemaError, GetCode(wrapped))
	assert.Equal(t, "analysis failed: missing columns: BOBOT", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, inner))
}

func TestWrapPlainError(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	err := Wrapf(stderrors.New("disk full"), "write %s", "out.csv")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Equal(t, "write out.csv: disk full", err.Error())
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("reading upload: %w", InvalidInput("bad file", nil))
	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeValidationError, stderrors.New("level"))
	assert.Equal(t, CodeValidationError, GetCode(err))
	assert.Nil(t, WithCode(CodeValidationError, nil))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{SchemaError("missing", nil), http.StatusUnprocessableEntity},
		{InvalidInput("bad", nil), http.StatusBadRequest},
		{WithCode(CodeValidationError, stderrors.New("level")), http.StatusBadRequest},
		{WithCode(CodeNotFound, stderrors.New("no session")), http.StatusNotFound},
		{stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
