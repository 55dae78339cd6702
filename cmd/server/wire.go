package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fadilmartias/career-coach/internal/config"
	"github.com/fadilmartias/career-coach/internal/lock"
	"github.com/fadilmartias/career-coach/internal/logger"
	"github.com/fadilmartias/career-coach/internal/model"
	"github.com/fadilmartias/career-coach/internal/quiz"
	"github.com/fadilmartias/career-coach/internal/repository"
	"github.com/fadilmartias/career-coach/internal/service"
	"github.com/fadilmartias/career-coach/internal/usecase"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type dependencies struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Locker   lock.Locker
	Users    *usecase.UserUsecase
	Insights *usecase.InsightUsecase
	Quizzes  *usecase.QuizUsecase
	Bookmark *usecase.BookmarkUsecase
}

func (d *dependencies) Close() {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func wire(ctx context.Context, log *logger.Logger) (*dependencies, error) {
	db, err := ConnectDB()
	if err != nil {
		return nil, err
	}
	deps := &dependencies{DB: db}

	questionDuration := time.Duration(config.LoadAppConfig().QuizQuestionSeconds) * time.Second
	var sessions quiz.SessionStore
	if url := config.LoadRedisConfig().URL; url != "" {
		rdb, err := ConnectRedis(ctx, url)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Redis = rdb
		deps.Locker = lock.NewRedisLocker(rdb)
		sessions = quiz.NewRedisSessionStore(rdb, quiz.DefaultSessionTTL)
	} else {
		log.Warn("REDIS_URL not set, quiz sessions and locks are process local")
		deps.Locker = lock.NoopLocker{}
		sessions = quiz.NewMemorySessionStore(quiz.DefaultSessionTTL)
	}

	gen, err := service.NewTextGenerator(ctx, log)
	if err != nil {
		deps.Close()
		return nil, err
	}

	users := repository.NewUserRepository(db)
	deps.Insights = usecase.NewInsightUsecase(repository.NewIndustryInsightRepository(db), users, gen, log)
	deps.Users = usecase.NewUserUsecase(users, deps.Insights, log)
	deps.Quizzes = usecase.NewQuizUsecase(users, repository.NewAssessmentRepository(db), gen, sessions, questionDuration, log)
	deps.Bookmark = usecase.NewBookmarkUsecase(users, log)
	return deps, nil
}

func ConnectDB() (*gorm.DB, error) {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	gormConfig := &gorm.Config{}
	if appConfig.IsProduction() {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}
	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get database instance: %w", err)
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(model.Models()...); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

// ConnectRedis parses url and verifies connectivity.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}
