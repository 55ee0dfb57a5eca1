package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"tableside/internal/cartstore"
	"tableside/internal/catalog"
	"tableside/internal/database"
	transport "tableside/internal/http"
	"tableside/internal/identity"
	"tableside/internal/manager"
	"tableside/internal/orderstore"
	"tableside/internal/relay"
	"tableside/internal/reviews"
	"tableside/internal/schedule"
	"tableside/internal/service"
	"tableside/internal/tables"
	"tableside/pkg/logging"
	"tableside/pkg/shutdown"
)

type Config struct {
	HTTPPort        string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsPath  string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	KafkaBrokers    []string
	OpeningTime     string
	ClosingTime     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		PostgresHost:    getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:    getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:    getEnv("POSTGRES_USER", "tableside"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "tableside"),
		PostgresDB:      getEnv("POSTGRES_DB", "tableside"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "tableside"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		OpeningTime:     getEnv("OPENING_TIME", "11:00"),
		ClosingTime:     getEnv("CLOSING_TIME", "22:00"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	log := logging.New()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db, err := database.Connect(&database.Credentials{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPass,
		DBName:   cfg.PostgresDB,
	})
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.MigrationsPath); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	mongoDB, err := cartstore.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer mongoDB.Client().Disconnect(context.Background())

	carts := cartstore.NewMongoStore(mongoDB)
	if err := carts.CreateIndexes(ctx); err != nil {
		log.Error("failed to create cart indexes", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	cat := catalog.NewRepository(db)
	orders := orderstore.NewRepository(db)
	ident := identity.NewRepository(db)
	rev := reviews.NewRepository(db)
	tab := tables.NewRepository(db, tables.NewJoinCodeStore(redisClient))
	sched := schedule.NewService(schedule.OpeningHours{
		Open:  cfg.OpeningTime,
		Close: cfg.ClosingTime,
	}, 15*time.Minute)

	menuSvc := service.NewMenuService(cat)
	cartSvc := service.NewCartService(carts)
	orderSvc := service.NewOrderService(orders, sched, carts, log)

	takeawayMgr := manager.NewTakeawayManager(menuSvc, cartSvc, orderSvc, cat, sched, rev)
	dineInMgr := manager.NewDineInManager(menuSvc, cartSvc, orderSvc, cat, tab, ident, rev)

	router := transport.NewRouter(
		transport.NewMenuHandler(takeawayMgr, cfg.RequestTimeout),
		transport.NewCartHandler(takeawayMgr, cfg.RequestTimeout),
		transport.NewTakeawayHandler(takeawayMgr, cfg.RequestTimeout),
		transport.NewDineInHandler(dineInMgr, cfg.RequestTimeout),
		ident,
		cfg.RequestTimeout,
	)

	rel := relay.New(orders, carts, log, cfg.KafkaBrokers...)
	defer rel.Close()
	go rel.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exited")
}
