package main

import (
	"net"
	"net/http"

	"github.com/openfeed-lab/backend/internal/middleware"
	"github.com/openfeed-lab/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cliCtx *cli.Context) error {
	if err := s.loadConfig(cliCtx); err != nil {
		return err
	}

	s.loadLogger()
	if err := s.loadDatabase(); err != nil {
		return err
	}

	s.loadStorage()
	s.loadRedis()
	s.loadPublisher()
	s.loadSearch()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	defer s.searchIndex.Close()
	if s.publisher != nil {
		defer s.publisher.Stop(s.ctx)
	}

	cfg := s.configs.ApiServer
	s.server = &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting api server on %s", s.server.Addr)
	if cfg.Cert != "" && cfg.Key != "" {
		return s.server.ListenAndServeTLS(cfg.Cert, cfg.Key)
	}

	return s.server.ListenAndServe()
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	// Public routes. The viewer is resolved when a token is present so the
	// projections can carry per-viewer flags.
	public := s.router.Branch()
	public.Before(middleware.NewAuthVerifier().WithOptional().Middleware())
	router.POST(public, "/register", s.authDomain.Register)
	router.POST(public, "/login", s.authDomain.Login)
	router.GET(public, "/getUser", s.userDomain.GetUser)
	router.GET(public, "/getPost", s.postDomain.Get)
	router.GET(public, "/getProfile", s.profileDomain.GetProfile)
	router.GET(public, "/getFollowers", s.profileDomain.GetFollowers)
	router.GET(public, "/getFollowings", s.profileDomain.GetFollowings)
	router.GET(public, "/getComments", s.commentDomain.GetList)
	router.GET(public, "/searchUsers", s.searchDomain.SearchUsers)
	router.GET(public, "/searchPosts", s.searchDomain.SearchPosts)

	// Authenticated routes.
	authed := s.router.Branch()
	authed.Before(middleware.NewAuthVerifier().Middleware())
	router.GET(authed, "/getTimeline", s.feedDomain.GetTimeline)
	router.POST(authed, "/createPost", s.postDomain.Create)
	router.POST(authed, "/updatePost", s.postDomain.Update)
	router.POST(authed, "/deletePost", s.postDomain.Delete)
	router.POST(authed, "/toggleLike", s.engageDomain.ToggleLike)
	router.POST(authed, "/toggleShare", s.engageDomain.ToggleShare)
	router.POST(authed, "/toggleFollow", s.engageDomain.ToggleFollow)
	router.POST(authed, "/createComment", s.commentDomain.Create)
	router.POST(authed, "/updateComment", s.commentDomain.Update)
	router.POST(authed, "/deleteComment", s.commentDomain.Delete)
	router.POST(authed, "/uploadImage", s.fileDomain.UploadImage)
	router.POST(authed, "/uploadAvatar", s.userDomain.UploadAvatar)
}
