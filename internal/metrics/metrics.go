package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discussion_requests_total",
			Help: "Total number of discussion API requests.",
		}, []string{"method", "status"})
	decodeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discussion_decode_errors_total",
			Help: "Total number of responses that could not be parsed.",
		})
	newResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discussion_watch_new_responses_total",
			Help: "Total number of new responses seen by watch rules.",
		})
	watchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discussion_watch_failures_total",
			Help: "Total number of failed watch polls.",
		})
)

func ObserveRequest(method string, status int) {
	requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func ObserveDecodeError() {
	decodeErrors.Inc()
}

func ObserveNewResponses(n int) {
	newResponses.Add(float64(n))
}

func ObserveWatchFailure() {
	watchFailures.Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		if err := server.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("metrics server shutdown failed")
		}
	}()

	logrus.WithField("addr", addr).Info("Serving metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
