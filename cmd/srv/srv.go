package main

import (
	"context"
	"net/http"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/openfeed-lab/backend/config"
	"github.com/openfeed-lab/backend/internal/client"
	"github.com/openfeed-lab/backend/internal/domain"
	"github.com/openfeed-lab/backend/internal/domain/search"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/crypto"
	"github.com/openfeed-lab/backend/pkg/kafka"
	"github.com/openfeed-lab/backend/pkg/logger"
	"github.com/openfeed-lab/backend/pkg/pubsub"
	"github.com/openfeed-lab/backend/pkg/router"
	"github.com/openfeed-lab/backend/pkg/storage"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"github.com/openfeed-lab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	storage      storage.Storage
	redisClient  xredis.Client
	publisher    pubsub.Publisher
	searchIndex  search.Index
	searchCaller client.SearchCaller

	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	likeRepo     repository.LikeRepository
	shareRepo    repository.ShareRepository
	followRepo   repository.FollowRepository
	commentRepo  repository.CommentRepository
	fileRepo     repository.FileRepository
	timelineRepo repository.TimelineRepository

	authDomain    domain.AuthDomain
	userDomain    domain.UserDomain
	postDomain    domain.PostDomain
	feedDomain    domain.FeedDomain
	profileDomain domain.ProfileDomain
	engageDomain  domain.EngageDomain
	commentDomain domain.CommentDomain
	searchDomain  domain.SearchDomain
	fileDomain    domain.FileDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cliCtx *cli.Context) error {
	if _, err := toml.DecodeFile(cliCtx.String("config"), &s.configs); err != nil {
		return err
	}

	if env := os.Getenv("ENV"); env != "" {
		s.configs.Env = env
	}

	if password := os.Getenv("MYSQL_PASSWORD"); password != "" {
		s.configs.Database.Password = password
	}

	if secret := os.Getenv("TOKEN_SECRET"); secret != "" {
		s.configs.Auth.TokenSecret = secret
	}

	// An empty secret must never reach the signers. A generated one
	// invalidates all tokens on restart.
	if s.configs.Auth.TokenSecret == "" {
		secret, err := crypto.GenerateRandomString()
		if err != nil {
			return err
		}

		s.configs.Auth.TokenSecret = secret
	}

	if s.configs.Session.Secret == "" {
		secret, err := crypto.GenerateRandomString()
		if err != nil {
			return err
		}

		s.configs.Session.Secret = secret
	}

	return nil
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
	s.ctx = xcontext.WithConfigs(s.ctx, s.configs)
}

func (s *srv) loadDatabase() error {
	db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		return err
	}

	s.db = db
	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

func (s *srv) loadStorage() {
	s.storage = storage.NewS3Storage(s.configs.Storage)
}

func (s *srv) loadRedis() {
	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		// The user cache is an optimization. Keep serving from the
		// database when redis is unreachable.
		s.logger.Warnf("Cannot connect to redis, running without cache: %v", err)
		return
	}

	s.redisClient = redisClient
}

func (s *srv) loadPublisher() {
	if s.configs.Kafka.Addr == "" {
		s.logger.Warnf("No kafka address, notification events are disabled")
		return
	}

	s.publisher = kafka.NewPublisher("openfeed-api", []string{s.configs.Kafka.Addr})
}

func (s *srv) loadSearch() {
	s.searchIndex = search.NewBleveIndex(s.ctx)
	s.searchCaller = client.NewSearchCaller(s.searchIndex)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository(s.searchCaller, s.redisClient)
	s.postRepo = repository.NewPostRepository(s.searchCaller)
	s.likeRepo = repository.NewLikeRepository()
	s.shareRepo = repository.NewShareRepository()
	s.followRepo = repository.NewFollowRepository()
	s.commentRepo = repository.NewCommentRepository()
	s.fileRepo = repository.NewFileRepository()
	s.timelineRepo = repository.NewTimelineRepository()
}

func (s *srv) loadDomains() {
	s.authDomain = domain.NewAuthDomain(s.userRepo)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.followRepo, s.storage)
	s.postDomain = domain.NewPostDomain(
		s.userRepo, s.postRepo, s.likeRepo, s.shareRepo, s.fileRepo, s.storage)
	s.feedDomain = domain.NewFeedDomain(
		s.userRepo, s.postRepo, s.likeRepo, s.shareRepo, s.followRepo, s.timelineRepo)
	s.profileDomain = domain.NewProfileDomain(
		s.userRepo, s.postRepo, s.likeRepo, s.shareRepo, s.followRepo)
	s.engageDomain = domain.NewEngageDomain(
		s.userRepo, s.postRepo, s.likeRepo, s.shareRepo, s.followRepo, s.publisher)
	s.commentDomain = domain.NewCommentDomain(
		s.commentRepo, s.postRepo, s.userRepo, s.publisher)
	s.searchDomain = domain.NewSearchDomain(
		s.searchCaller, s.userRepo, s.postRepo, s.likeRepo, s.shareRepo, s.followRepo)
	s.fileDomain = domain.NewFileDomain(s.fileRepo, s.storage)
}
