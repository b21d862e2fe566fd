package api

import (
	"testing"

	"github.com/passbi/passbi_core/internal/stochastic"
	"github.com/stretchr/testify/assert"
)

func TestParseArrTimeAcceptsSecondsOfDay(t *testing.T) {
	secs, err := parseArrTime("29400")
	assert.NoError(t, err)
	assert.Equal(t, 29400, secs)
}

func TestParseArrTimeAcceptsClockString(t *testing.T) {
	secs, err := parseArrTime("08:10:00")
	assert.NoError(t, err)
	assert.Equal(t, 29400, secs)
}

func TestParseArrTimeRejectsGarbage(t *testing.T) {
	_, err := parseArrTime("not-a-time")
	assert.Error(t, err)
}

func TestToStochasticRouteResponseOnEmptyRouteErrors(t *testing.T) {
	_, err := toStochasticRouteResponse(&stochastic.Route{})
	assert.ErrorIs(t, err, stochastic.ErrEmptyRoute)
}
