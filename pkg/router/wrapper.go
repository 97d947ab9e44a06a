package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/openfeed-lab/backend/pkg/errorx"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(gtx *gin.Context) {
		ctx := router.newRequestContext(gtx)

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = gtx.ShouldBindQuery(&req)
		case http.MethodPost:
			// Multipart bodies are parsed by the handler itself via the
			// http request in the context.
			if !strings.HasPrefix(gtx.ContentType(), "multipart/form-data") && gtx.Request.ContentLength > 0 {
				err = gtx.ShouldBindJSON(&req)
			}
		}

		if err != nil {
			writeResponse(gtx, newErrorResponse(errorx.New(errorx.BadRequest, "Cannot bind the request")))
			return
		}

		ctx, err = runBefores(ctx, router.befores)
		if err == nil {
			var resp *Response
			resp, err = handler(ctx, &req)
			if err == nil {
				writeResponse(gtx, newResponse(resp))
			}
		}

		if err != nil {
			writeResponse(gtx, newErrorResponse(err))
		}

		for _, closer := range router.closers {
			closer(ctx, err)
		}
	}
}

func runBefores(ctx context.Context, befores []MiddlewareFunc) (context.Context, error) {
	var err error
	for _, middleware := range befores {
		ctx, err = middleware(ctx)
		if err != nil {
			return ctx, err
		}
	}

	return ctx, nil
}
