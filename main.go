package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"budgeting/api"
	"budgeting/cache"
	"budgeting/config"
	"budgeting/database"
	"budgeting/middleware"
	"budgeting/repository"
	"budgeting/router"
	"budgeting/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

// @title 预算管理 API
// @version 1.0
// @description 个人预算管理 API，支持注册登录、全局类别、个人预算条目的增删改查与金额增减
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println("预算管理系统 v1.0.0")
		return
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).With().Timestamp().Logger()

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}

	if cfg.IsRelease() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Info().Str("port", port).Msg("命令行指定端口")
	}

	config.PrintConfig()

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("服务异常退出")
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("关闭数据库失败")
		}
	}()

	redisCache, err := cache.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		return fmt.Errorf("Redis 初始化失败: %w", err)
	}
	defer func() {
		if err := redisCache.Close(); err != nil {
			log.Error().Err(err).Msg("关闭 Redis 失败")
		}
	}()

	var categories service.CategoryRepository
	switch cfg.CategoryStore {
	case config.CategoryStoreSQL:
		categories = repository.NewSQLCategoryRepository(db)
	default:
		client, err := repository.OpenMongo(ctx, &cfg.Mongo)
		if err != nil {
			return fmt.Errorf("MongoDB 初始化失败: %w", err)
		}
		defer disconnectMongo(client)

		mongoRepo := repository.NewMongoCategoryRepository(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("创建类别索引失败: %w", err)
		}
		categories = mongoRepo
	}
	log.Info().Str("store", cfg.CategoryStore).Msg("类别存储已就绪")

	users := repository.NewUserRepository(db)
	items := repository.NewBudgetItemRepository(db)
	jwtManager := middleware.NewJWTManager(&cfg.JWT)

	budgetService := service.NewBudgetService(items, users, redisCache, cfg.Redis.TTL)
	handlers := router.Handlers{
		Auth:     api.NewAuthHandler(service.NewAuthService(users, jwtManager)),
		Category: api.NewCategoryHandler(service.NewCategoryService(categories)),
		Budget:   api.NewBudgetHandler(budgetService),
		Export:   api.NewExportHandler(budgetService, service.NewExportService()),
	}

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router.SetupRouter(cfg, handlers, jwtManager),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Server.Port).
			Str("swagger", fmt.Sprintf("http://localhost%s/swagger/index.html", cfg.Server.Port)).
			Msg("预算管理系统已启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("收到退出信号，正在关闭服务")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务关闭超时: %w", err)
	}
	log.Info().Msg("服务已停止")
	return nil
}

func disconnectMongo(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("断开 MongoDB 失败")
	}
}
