package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Next performs the actual request of an enquiry and returns the raw response body.
type Next func(ctx context.Context, e Enquiry) ([]byte, error)

// Interceptor wraps the request of every round. Implementations may
// inspect or rewrite the enquiry, short-circuit, or post-process the body.
type Interceptor interface {
	Invoke(ctx context.Context, e Enquiry, next Next) ([]byte, error)
}

// InterceptorFunc adapts a function into an Interceptor.
type InterceptorFunc func(ctx context.Context, e Enquiry, next Next) ([]byte, error)

func (f InterceptorFunc) Invoke(ctx context.Context, e Enquiry, next Next) ([]byte, error) {
	return f(ctx, e, next)
}

// Passthrough calls next unchanged.
var Passthrough Interceptor = InterceptorFunc(func(ctx context.Context, e Enquiry, next Next) ([]byte, error) {
	return next(ctx, e)
})

// Chain composes interceptors; the first one is outermost.
func Chain(interceptors ...Interceptor) Interceptor {
	var list []Interceptor
	for _, i := range interceptors {
		if i != nil {
			list = append(list, i)
		}
	}
	if len(list) == 0 {
		return Passthrough
	}
	if len(list) == 1 {
		return list[0]
	}
	return InterceptorFunc(func(ctx context.Context, e Enquiry, next Next) ([]byte, error) {
		call := next
		for i := len(list) - 1; i >= 0; i-- {
			inner, icpt := call, list[i]
			call = func(ctx context.Context, e Enquiry) ([]byte, error) {
				return icpt.Invoke(ctx, e, inner)
			}
		}
		return call(ctx, e)
	})
}

// LoggingInterceptor logs each round at debug level. The response body is
// logged at trace level with its output items collapsed.
func LoggingInterceptor(logger logrus.FieldLogger) Interceptor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return InterceptorFunc(func(ctx context.Context, e Enquiry, next Next) ([]byte, error) {
		log := logger.WithFields(logrus.Fields{
			"model":     e.Model.String(),
			"items":     len(e.Context),
			"functions": len(e.Functions),
		})
		log.Debug("sending enquiry")

		start := time.Now()
		body, err := next(ctx, e)
		if err != nil {
			log.WithError(err).Debug("enquiry failed")
			return nil, err
		}

		log.WithFields(logrus.Fields{
			"duration":      time.Since(start),
			"response_id":   gjson.GetBytes(body, "id").String(),
			"output_tokens": gjson.GetBytes(body, "usage.output_tokens").Int(),
		}).Debug("enquiry completed")

		if traceEnabled(logger) {
			log.WithField("body", redact(body)).Trace("response body")
		}
		return body, nil
	})
}

func traceEnabled(logger logrus.FieldLogger) bool {
	switch l := logger.(type) {
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.TraceLevel)
	case *logrus.Entry:
		return l.Logger != nil && l.Logger.IsLevelEnabled(logrus.TraceLevel)
	}
	return false
}

func redact(body []byte) string {
	out := gjson.GetBytes(body, "output")
	if !out.IsArray() {
		return string(body)
	}
	short, err := sjson.SetBytes(body, "output", fmt.Sprintf("[%d items]", len(out.Array())))
	if err != nil {
		return string(body)
	}
	return string(short)
}
