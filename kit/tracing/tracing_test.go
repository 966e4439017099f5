package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockTracer(t *testing.T) *mocktracer.MockTracer {
	t.Helper()
	tracer := mocktracer.New()
	old := opentracing.GlobalTracer()
	opentracing.SetGlobalTracer(tracer)
	t.Cleanup(func() { opentracing.SetGlobalTracer(old) })
	return tracer
}

func TestFinishSpan(t *testing.T) {
	tracer := withMockTracer(t)

	parent, ctx := StartSpanFromContextWithOperationName(context.Background(), "parent")
	child, _ := StartSpanFromContextWithOperationName(ctx, "child")
	FinishSpan(child, errors.New("boom"))
	FinishSpan(parent, nil)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 2)

	assert.Equal(t, "child", spans[0].OperationName)
	assert.Equal(t, true, spans[0].Tag("error"))
	require.Len(t, spans[0].Logs(), 1)
	assert.Equal(t, spans[1].SpanContext.SpanID, spans[0].ParentID)

	assert.Equal(t, "parent", spans[1].OperationName)
	assert.Nil(t, spans[1].Tag("error"))
	assert.Empty(t, spans[1].Logs())
}

func TestLogError_Nil(t *testing.T) {
	withMockTracer(t)

	span, _ := StartSpanFromContextWithOperationName(context.Background(), "op")
	assert.NoError(t, LogError(span, nil))

	err := errors.New("boom")
	assert.Equal(t, err, LogError(span, err))
}
