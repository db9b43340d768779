package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusForCode(ResourceAlreadyExists))
	assert.Equal(t, http.StatusConflict, StatusForCode(AuthEmailAlreadyExists))
	assert.Equal(t, http.StatusMethodNotAllowed, StatusForCode(CollectionNotEmpty))
	assert.Equal(t, http.StatusNotFound, StatusForCode(ProductNotFound))
	assert.Equal(t, http.StatusBadRequest, StatusForCode(ValidationRequired))
	assert.Equal(t, http.StatusInternalServerError, StatusForCode(InternalServerError))

	// Unknown codes never leak as client errors.
	assert.Equal(t, http.StatusInternalServerError, StatusForCode("SOMETHING_NEW"))
}

func TestParseError_StatusFollowsParsedCode(t *testing.T) {
	// A duplicate slug is a conflict.
	dup := ParseError(errors.New(`duplicate key value violates unique constraint "idx_products_slug"`), "product create")
	assert.Equal(t, ResourceAlreadyExists, dup.Code)
	assert.Equal(t, http.StatusConflict, StatusForCode(dup.Code))

	// An unclassified storage failure stays internal, not 409.
	unknown := ParseError(errors.New("disk I/O error"), "product create")
	assert.Equal(t, InternalServerError, unknown.Code)
	assert.Equal(t, http.StatusInternalServerError, StatusForCode(unknown.Code))
}
