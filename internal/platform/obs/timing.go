// Package obs holds minimal observability helpers shared by adapters.
package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// RequestIDKey carries the per-request id through context so gateway and
// cache timings can be correlated with the originating request.
const RequestIDKey ctxKey = "req_id"

// Time logs the duration and outcome of one named operation. Use with a
// named error return:
//
//	defer obs.Time(ctx, "amap.Route")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, name, dur.Milliseconds())
	}
}
