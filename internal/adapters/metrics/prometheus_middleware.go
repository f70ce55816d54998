package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/mars-sim/mars-sim-sub009/internal/application/mediator"
)

// PrometheusMiddleware times every command and query sent through the mediator and counts
// outcomes per request type. A nil collector turns it into a pass-through.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(requestName(request), time.Since(start).Seconds(), Outcome(err))
		return response, err
	}
}

// requestName strips the pointer and package from a request type:
// "*commands.AbortMissionCommand" becomes "AbortMissionCommand"
func requestName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
