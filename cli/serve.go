package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-maze/api"
	api_i "github.com/beka-birhanu/vinom-maze/api/i"
	"github.com/beka-birhanu/vinom-maze/api/identity"
	mazeapi "github.com/beka-birhanu/vinom-maze/api/maze"
	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/beka-birhanu/vinom-maze/infrastruture/pathcache"
	pb "github.com/beka-birhanu/vinom-maze/infrastruture/pb_encoder"
	"github.com/beka-birhanu/vinom-maze/infrastruture/repo"
	"github.com/beka-birhanu/vinom-maze/infrastruture/token"
	"github.com/beka-birhanu/vinom-maze/logger"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	runsCollection  = "runs"
)

// Global variables for dependencies
var (
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	runRepo        i.RunRepo
	pathCache      i.PathCache
	jwtTokenizer   i.Tokenizer
	sessionAuth    *service.SessionAuth
	sessionManager *service.SessionManager
	mazeController api_i.Controller
	authController api_i.Controller
	router         *api.Router
	appLogger      logger.Logger
)

func newServeCommand() *cobra.Command {
	var ephemeral bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve maze sessions over HTTP",
		Long:  "Serve maze sessions over HTTP. Settings come from the environment or a .env file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), ephemeral)
		},
	}
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "Run without MongoDB and Redis.")
	return cmd
}

func initMongo(ctx context.Context) error {
	uri := fmt.Sprintf("mongodb://%s:%v", config.Envs.DBHost, config.Envs.DBPort)
	if config.Envs.DBUser != "" {
		uri = fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)
	}

	var err error
	mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		return fmt.Errorf("MongoDB ping failed: %w", err)
	}
	appLogger.Info("Connected to MongoDB")
	return nil
}

func initRunRepo(ctx context.Context, client *mongo.Client) {
	r := repo.NewRunRepo(client, config.Envs.DBName, runsCollection)
	if err := r.EnsureIndexes(ctx); err != nil {
		appLogger.Warning(fmt.Sprintf("Creating run indexes: %v", err))
	}
	runRepo = r
	appLogger.Info("Run repository initialized")
}

func initRedis(ctx context.Context) error {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	appLogger.Info("Connected to Redis")
	return nil
}

func initPathCache(client *redis.Client) {
	pathCache = pathcache.NewRedisPathCache(client, config.Envs.PathCacheTTL)
	appLogger.Info("Path cache initialized")
}

func initJWTTokenizer() error {
	var err error
	jwtTokenizer, err = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	if err != nil {
		return fmt.Errorf("creating JWT tokenizer: %w", err)
	}
	sessionAuth = service.NewSessionAuth(jwtTokenizer, config.Envs.TokenTTL)
	appLogger.Info("JWT Tokenizer initialized")
	return nil
}

func initSessionManager() error {
	sessionLogger, err := logger.New("SESSION-MANAGER", config.ColorCyan, os.Stdout)
	if err != nil {
		return fmt.Errorf("creating session manager logger: %w", err)
	}

	sessionManager, err = service.NewSessionManager(&service.Config{
		MazeDir:      config.Envs.MazeDir,
		PathCache:    pathCache,
		RunRepo:      runRepo,
		Logger:       sessionLogger,
		SolveTimeout: config.Envs.SolveTimeout,
		PollInterval: config.Envs.SolvePollInterval,
		MaxSessions:  config.Envs.MaxSessions,
		IdleTimeout:  config.Envs.SessionIdleTTL,
	})
	if err != nil {
		return fmt.Errorf("creating session manager: %w", err)
	}
	appLogger.Info("Session manager initialized")
	return nil
}

func initControllers() error {
	var err error
	mazeController, err = mazeapi.NewController(sessionManager, sessionAuth, &pb.Protobuf{})
	if err != nil {
		return fmt.Errorf("creating maze controller: %w", err)
	}
	authController = identity.NewIdentityServer(sessionAuth)
	appLogger.Info("Controllers initialized")
	return nil
}

func initRouter() {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{mazeController, authController},
		AuthorizationMiddleware: identity.Authoriz(sessionAuth),
		CORSOrigins:             config.Envs.CORSOrigins,
		ReadTimeout:             config.Envs.ReadTimeout,
		WriteTimeout:            config.Envs.WriteTimeout,
	})
	appLogger.Info("Router initialized")
}

func serve(ctx context.Context, ephemeral bool) error {
	var err error
	appLogger, err = logger.New("APP", config.ColorGreen, os.Stdout)
	if err != nil {
		return err
	}
	gin.SetMode(config.Envs.GinMode)

	pathCache, runRepo = nil, nil
	if !ephemeral {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		if err := initMongo(connectCtx); err != nil {
			return err
		}
		defer func() {
			_ = mongoClient.Disconnect(context.Background())
		}()
		initRunRepo(connectCtx, mongoClient)

		if err := initRedis(connectCtx); err != nil {
			return err
		}
		defer redisClient.Close()
		initPathCache(redisClient)
	} else {
		appLogger.Warning("Running without persistence")
	}

	if err := initJWTTokenizer(); err != nil {
		return err
	}
	if err := initSessionManager(); err != nil {
		return err
	}
	defer sessionManager.StopAll()
	if err := initControllers(); err != nil {
		return err
	}
	initRouter()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sessionManager.RunJanitor(sigCtx)

	errs := make(chan error, 1)
	go func() {
		errs <- router.Run()
	}()
	appLogger.Info(fmt.Sprintf("Listening on %s:%d", config.Envs.HostIP, config.Envs.RESTPort))

	select {
	case err := <-errs:
		return err
	case <-sigCtx.Done():
	}

	appLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return router.Shutdown(shutdownCtx)
}
