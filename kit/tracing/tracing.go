// Package tracing wraps the opentracing calls shared by the storage
// packages.
package tracing

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"
)

// LogError adds a span log for an error and marks the span as failed.
// Returns unchanged error, so useful to wrap as in:
//
//	return 0, tracing.LogError(span, err)
func LogError(span opentracing.Span, err error) error {
	if err == nil {
		return nil
	}
	ext.Error.Set(span, true)
	span.LogFields(log.Error(err))
	return err
}

// StartSpanFromContextWithOperationName starts a span named operationName,
// a child of whatever span ctx carries.
func StartSpanFromContextWithOperationName(ctx context.Context, operationName string) (opentracing.Span, context.Context) {
	return opentracing.StartSpanFromContext(ctx, operationName)
}

// FinishSpan records err on span, if there is one, and finishes it. It is
// meant to be deferred with a named error result:
//
//	defer func() { tracing.FinishSpan(span, err) }()
func FinishSpan(span opentracing.Span, err error) {
	LogError(span, err)
	span.Finish()
}
