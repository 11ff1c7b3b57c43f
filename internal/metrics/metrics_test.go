package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	Register()

	before := testutil.ToFloat64(reservationsCreated.WithLabelValues("room"))
	IncReservationCreated("room")
	assert.Equal(t, before+1, testutil.ToFloat64(reservationsCreated.WithLabelValues("room")))

	before = testutil.ToFloat64(conflicts.WithLabelValues("asset"))
	IncConflict("asset")
	assert.Equal(t, before+1, testutil.ToFloat64(conflicts.WithLabelValues("asset")))

	before = testutil.ToFloat64(availabilityQueries.WithLabelValues("vehicle"))
	IncAvailabilityQuery("vehicle")
	IncAvailabilityQuery("vehicle")
	assert.Equal(t, before+2, testutil.ToFloat64(availabilityQueries.WithLabelValues("vehicle")))
}
