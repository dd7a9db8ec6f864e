package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	meta := MetadataFor(CodeValidation)
	assert.Equal(t, http.StatusBadRequest, meta.HTTPStatus)
	assert.True(t, meta.DetailsAllowed)

	meta = MetadataFor(CodeStateConflict)
	assert.Equal(t, http.StatusUnprocessableEntity, meta.HTTPStatus)
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeDependency, cause, "load order")

	require.NotNil(t, err)
	assert.Equal(t, CodeDependency, err.Code())
	assert.ErrorIs(t, err, cause)
}

func TestAsUnwrapsNestedError(t *testing.T) {
	inner := New(CodeNotFound, "order not found")
	outer := fmt.Errorf("handling request: %w", inner)

	typed := As(outer)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())
	assert.Equal(t, "order not found", typed.Message())
}

func TestAsReturnsNilForPlainError(t *testing.T) {
	assert.Nil(t, As(fmt.Errorf("plain")))
	assert.Nil(t, As(nil))
}

func TestDumpCollectsChain(t *testing.T) {
	cause := fmt.Errorf("timeout")
	err := Wrap(CodeDependency, cause, "persist order")

	dump := Dump(err)
	assert.Equal(t, string(CodeDependency), dump.Code)
	require.Len(t, dump.Chain, 2)
	assert.Contains(t, dump.Chain[1], "timeout")
}
