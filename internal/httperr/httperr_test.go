package httperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/narrateapp/narrate/internal/httperr"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, httperr.StatusOf(httperr.BadRequest("bad")))
	assert.Equal(t, http.StatusNotFound, httperr.StatusOf(httperr.NotFound("missing")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, httperr.StatusOf(httperr.PayloadTooLarge("big")))
	assert.Equal(t, http.StatusServiceUnavailable, httperr.StatusOf(httperr.Unavailable("down")))
	assert.Equal(t, http.StatusGatewayTimeout, httperr.StatusOf(httperr.GatewayTimeout("slow")))
	assert.Equal(t, 422, httperr.StatusOf(httperr.Upstream(422, "vendor said no")))

	assert.Equal(t, http.StatusInternalServerError, httperr.StatusOf(errors.New("plain")))
}

func TestStatusSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("context: %w", httperr.NotFound("voice x not found"))
	assert.Equal(t, http.StatusNotFound, httperr.StatusOf(err))
}
