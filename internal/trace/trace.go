package trace

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qiniu/x/xlog"
)

// TraceID 表示一次运行的追踪 ID
type TraceID string

// TracePrefix 是追踪 ID 的统一前缀
const TracePrefix = "qareport"

// NewTraceID 创建新的追踪 ID
func NewTraceID(op string) TraceID {
	return TraceID(fmt.Sprintf("%s_%s_%s", TracePrefix, op, uuid.NewString()[:8]))
}

type contextKey string

const traceLoggerKey contextKey = "trace_logger"

// NewContext 创建带有追踪日志器的上下文
func NewContext(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, traceLoggerKey, xlog.New(string(traceID)))
}

// FromContext 从上下文中获取追踪日志器，没有时返回 nil
func FromContext(ctx context.Context) *xlog.Logger {
	if logger, ok := ctx.Value(traceLoggerKey).(*xlog.Logger); ok {
		return logger
	}
	return nil
}

// Logger 返回上下文中的日志器，没有时新建一个
func Logger(ctx context.Context) *xlog.Logger {
	if logger := FromContext(ctx); logger != nil {
		return logger
	}
	return xlog.New(string(NewTraceID("run")))
}

// GetTraceID 从上下文中获取追踪 ID
func GetTraceID(ctx context.Context) TraceID {
	logger := FromContext(ctx)
	if logger == nil {
		return ""
	}
	return TraceID(logger.ReqId)
}
