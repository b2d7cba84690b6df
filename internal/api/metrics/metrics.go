// Package metrics defines and registers the custom Prometheus metrics for
// the library catalog API. It is the single source of truth for metric
// names, labels, and help strings; metrics register themselves with the
// default registry at init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// GraphQLOperationsTotal counts executed GraphQL operations.
// Label:
//   - operation: the client-supplied operation name, or "unnamed"
var GraphQLOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graphql_operations_total",
		Help:      "Total number of GraphQL operations executed.",
	},
	[]string{"operation"},
)

// GraphQLErrorsTotal counts GraphQL errors returned to clients.
// Label:
//   - code: extensions.code of the error ("UNAUTHORIZED", "BAD_USER_INPUT"),
//     or "INTERNAL" when no code is attached
var GraphQLErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graphql_errors_total",
		Help:      "Total number of GraphQL errors, labelled by extension code.",
	},
	[]string{"code"},
)

// GraphQLOperationDuration measures end-to-end execution time of a GraphQL
// operation.
var GraphQLOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "graphql_operation_duration_seconds",
		Help:      "Duration of GraphQL operation execution.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// BooksAddedTotal counts books created through the addBook mutation.
var BooksAddedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_added_total",
		Help:      "Total number of books added to the catalog.",
	},
)

// SubscribersActive tracks the number of live bookAdded subscription
// listeners.
var SubscribersActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "subscribers_active",
		Help:      "Current number of active bookAdded subscribers.",
	},
)
