package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/repository"
	mysqlRepo "github.com/inkpress/inkpress/internal/repository/mysql"
	redisRepo "github.com/inkpress/inkpress/internal/repository/redis"
	"github.com/inkpress/inkpress/internal/rest"
	"github.com/inkpress/inkpress/internal/rest/middleware"
	"github.com/inkpress/inkpress/internal/usecase/article"
	"github.com/inkpress/inkpress/internal/usecase/tag"
	"github.com/inkpress/inkpress/internal/usecase/user"
)

const (
	defaultTimeout      = 30
	defaultAddress      = ":9090"
	defaultCacheDB      = 0
	defaultBloomBitSize = 10000000
	defaultJWTHours     = 24
	dbMaxRetry          = 10
	dbRetryIntervalSec  = 2
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)

	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Printf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, err := db.DB()
			if err != nil {
				log.Printf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				continue
			}
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			log.Printf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	if err != nil {
		log.Fatal("could not connect to database after retries:", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("got error when getting sql.DB from gorm.DB", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Fatal("got error when closing the DB connection", err)
		}
	}()

	// prepare cache
	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		log.Println("failed to parse cacheDB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cacheHost + ":" + cachePort,
		Password: cachePass,
		DB:       cacheDB,
	})
	defer func() {
		err = client.Close()
		if err != nil {
			log.Fatal("got error when closing the cache connection", err)
		}
	}()

	if _, err = client.Ping(context.Background()).Result(); err != nil {
		log.Fatal("failed to open connection to cache", err)
		return
	}

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS())
	timeoutStr := os.Getenv("CONTEXT_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil {
		log.Println("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	timeoutContext := time.Duration(timeout) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))
	rest.RegisterCustomValidators()

	// Prepare Repository
	userRepo := mysqlRepo.NewUserRepository(db)
	tagRepo := mysqlRepo.NewTagRepository(db)

	// Article相关的三层架构
	// 1. DB层
	articleDBRepo := mysqlRepo.NewArticleRepository(db)
	// 2. Cache层
	articleCache := redisRepo.NewArticleCache(client)
	viewCache := redisRepo.NewViewCache(client)
	// 3. Repository协调层
	articleRepo := repository.NewArticleRepository(articleDBRepo, articleCache)

	bloomBitSizeStr := os.Getenv("BLOOM_FILTER_SIZE")
	bloomBitSize, err := strconv.ParseUint(bloomBitSizeStr, 10, 64)
	if err != nil {
		log.Printf("failed to parse bloom bit size, using default size")
		bloomBitSize = defaultBloomBitSize
	}
	bloomRepo := redisRepo.NewRedisBloomRepo(client, bloomBitSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build service Layer
	jwtSecret := os.Getenv("JWT_SECRET")
	jwtTTLStr := os.Getenv("JWT_EXPIRE_HOURS")
	jwtTTL, err := strconv.Atoi(jwtTTLStr)
	if err != nil {
		log.Println("failed to parse JWT TTL, using default 24 hours")
		jwtTTL = defaultJWTHours
	}

	articleSvc := article.NewService(articleRepo, userRepo, viewCache, bloomRepo)
	userSvc := user.NewService(userRepo, []byte(jwtSecret), time.Duration(jwtTTL)*time.Hour)
	tagSvc := tag.NewService(tagRepo)
	articleHandler := rest.NewArticleHandler(articleSvc)
	userHandler := rest.NewUserHandler(userSvc)
	tagHandler := rest.NewTagHandler(tagSvc)

	authRequired := middleware.AuthMiddleware(jwtSecret)
	authOptional := middleware.OptionalAuthMiddleware(jwtSecret)

	// Prepare slug bloom filter
	if err := articleSvc.WarmSlugFilter(ctx); err != nil {
		log.Printf("failed to warm slug bloom filter: %v\n", err)
		return
	}

	// Register routes
	route.POST("/register", userHandler.Register)
	route.POST("/login", userHandler.Login)

	route.GET("/articles", articleHandler.Feed)
	route.GET("/articles/:slug", authOptional, articleHandler.GetBySlug)
	route.POST("/articles/:slug/view", articleHandler.View)
	route.GET("/search", articleHandler.Search)
	route.GET("/tags/popular", tagHandler.Popular)
	route.GET("/tags/search", tagHandler.Search)
	route.GET("/tags/:tag/articles", articleHandler.FeedOfTag)
	route.GET("/users/:username", userHandler.GetProfile)
	route.GET("/users/:username/articles", authOptional, articleHandler.FeedOfAuthor)

	authorized := route.Group("/")
	authorized.Use(authRequired)
	{
		authorized.POST("/articles", articleHandler.Store)
		authorized.PUT("/articles/:slug", articleHandler.Update)
		authorized.DELETE("/articles/:slug", articleHandler.Delete)
		authorized.POST("/articles/:slug/publish", articleHandler.TogglePublish)
		authorized.POST("/articles/:slug/like", articleHandler.Like)
		authorized.DELETE("/articles/:slug/like", articleHandler.Unlike)
		authorized.PUT("/profile", userHandler.UpdateProfile)
	}

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
