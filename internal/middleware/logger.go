package middleware

import (
	"context"

	"github.com/openfeed-lab/backend/pkg/router"
	"github.com/openfeed-lab/backend/pkg/xcontext"
)

// Logger records the outcome of every request after the response is written.
func Logger() router.CloserFunc {
	return func(ctx context.Context, err error) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return
		}

		if err != nil {
			xcontext.Logger(ctx).Errorf("%s %s: %v", req.Method, req.URL.Path, err)
			return
		}

		xcontext.Logger(ctx).Infof("%s %s", req.Method, req.URL.Path)
	}
}
