package utils

import (
	"context"
	"time"
)

// DefaultQueryTimeout is the default timeout for database queries.
const DefaultQueryTimeout = 30 * time.Second

// SlowQueryTimeout is for the workbook export queries, which pull every
// computed row of a project in one pass.
const SlowQueryTimeout = 60 * time.Second

// GetQueryContext returns a context with timeout for database queries.
func GetQueryContext(parentCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	return context.WithTimeout(parentCtx, timeout)
}

// GetDefaultQueryContext returns a context with the default timeout.
func GetDefaultQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, DefaultQueryTimeout)
}

// GetSlowQueryContext returns a context with the export timeout.
func GetSlowQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, SlowQueryTimeout)
}
