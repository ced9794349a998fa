package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts list requests per resource and offset bucket.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "list_requests_total",
			Help: "Total number of paginated list requests",
		},
		[]string{"resource", "offset_range"},
	)

	// PageSize observes the effective limit of list requests.
	PageSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "list_page_size",
			Help:    "Effective limit of paginated list requests",
			Buckets: []float64{10, 25, 50, 100, 250, 500},
		},
		[]string{"resource"},
	)
)

// RecordRequest records one list request for resource.
func RecordRequest(resource string, p Params) {
	RequestsTotal.WithLabelValues(resource, offsetBucket(p.Offset)).Inc()
	PageSize.WithLabelValues(resource).Observe(float64(p.Limit))
}

func offsetBucket(offset int) string {
	switch {
	case offset == 0:
		return "0"
	case offset < 500:
		return "1-499"
	case offset < 5000:
		return "500-4999"
	default:
		return "5000+"
	}
}
