package router

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/openfeed-lab/backend/config"
	"github.com/openfeed-lab/backend/pkg/authenticator"
	"github.com/openfeed-lab/backend/pkg/logger"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can derive a new context (for
// example, to attach the request user id) or reject the request with an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written. The err parameter is the
// error returned by the handler or a middleware, if any.
type CloserFunc func(ctx context.Context, err error)

type Router struct {
	Inner gin.IRouter

	cfg          config.Configs
	db           *gorm.DB
	logger       logger.Logger
	tokenEngine  authenticator.TokenEngine
	sessionStore sessions.Store
	snowflake    *snowflake.Node

	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	return &Router{
		Inner:        gin.New(),
		cfg:          cfg,
		db:           db,
		logger:       logger,
		tokenEngine:  authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
		sessionStore: sessions.NewCookieStore([]byte(cfg.Session.Secret)),
		snowflake:    node,
	}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

// Branch clones the router so that middlewares registered on the branch do
// not affect routes registered elsewhere.
func (r *Router) Branch() *Router {
	return &Router{
		Inner:        r.Inner,
		cfg:          r.cfg,
		db:           r.db,
		logger:       r.logger,
		tokenEngine:  r.tokenEngine,
		sessionStore: r.sessionStore,
		snowflake:    r.snowflake,
		befores:      append([]MiddlewareFunc{}, r.befores...),
		closers:      append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Static(relativePath, root string) {
	r.Inner.Static(relativePath, root)
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

func (r *Router) newRequestContext(gtx *gin.Context) context.Context {
	ctx := gtx.Request.Context()
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithHTTPRequest(ctx, gtx.Request)
	ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)
	ctx = xcontext.WithSessionStore(ctx, r.sessionStore)
	ctx = xcontext.WithSnowFlake(ctx, r.snowflake)
	return ctx
}
