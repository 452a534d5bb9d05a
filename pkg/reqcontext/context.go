package reqcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type KeyContext string

var (
	keyRequestID KeyContext = "request_id"
	keyOperation KeyContext = "operation"
	keyStartTime KeyContext = "start_time"
)

// Metadata describes the request a context belongs to
type Metadata struct {
	RequestID string
	Operation string
	StartTime time.Time
}

// Begin tags ctx with a request id and operation name. An empty requestID
// gets a fresh UUID.
func Begin(ctx context.Context, requestID, operation string) context.Context {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = context.WithValue(ctx, keyRequestID, requestID)
	ctx = context.WithValue(ctx, keyOperation, operation)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())
	return ctx
}

// GetRequestID extracts the request id from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// GetOperation extracts the operation name from context
func GetOperation(ctx context.Context) string {
	op, _ := ctx.Value(keyOperation).(string)
	return op
}

// GetMetadata extracts all request metadata from context
func GetMetadata(ctx context.Context) Metadata {
	start, _ := ctx.Value(keyStartTime).(time.Time)
	return Metadata{
		RequestID: GetRequestID(ctx),
		Operation: GetOperation(ctx),
		StartTime: start,
	}
}

// Fields returns zap fields for the request metadata in ctx
func Fields(ctx context.Context) []zap.Field {
	m := GetMetadata(ctx)
	fields := make([]zap.Field, 0, 3)
	if m.RequestID != "" {
		fields = append(fields, zap.String("request_id", m.RequestID))
	}
	if m.Operation != "" {
		fields = append(fields, zap.String("operation", m.Operation))
	}
	if !m.StartTime.IsZero() {
		fields = append(fields, zap.Duration("elapsed", time.Since(m.StartTime)))
	}
	return fields
}
