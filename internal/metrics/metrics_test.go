package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		IncHTTP("test_endpoint")
		IncGRPC("/snowpool.marketplace.v1.MarketplaceService/Quote", "OK")
		IncServiceRequest("00100")
		IncOperatorService("00100")
		IncBooking("scheduled")
		IncQuote()
		IncRateLimited()
	})
}

func TestSetCurrentDemand(t *testing.T) {
	SetCurrentDemand("02100", 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(currentDemand.WithLabelValues("02100")))

	SetCurrentDemand("02100", 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(currentDemand.WithLabelValues("02100")))
}

func TestIncBooking(t *testing.T) {
	before := testutil.ToFloat64(bookingsCreated.WithLabelValues("cancelled"))
	IncBooking("cancelled")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsCreated.WithLabelValues("cancelled")))
}
