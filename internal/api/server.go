package api

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/config"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/dsn"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/handler"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/middleware"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/redis"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/repository"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/storage"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/pkg"
)

func StartServer() {
	log.Println("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal("ошибка чтения конфигурации: ", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		logrus.Fatal("ошибка инициализации репозитория: ", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logrus.Fatal("ошибка подключения к Redis: ", err)
	}

	// MinIO опционален: без него недоступна только загрузка аватарок
	var minioClient *storage.MinIOClient
	if cfg.Minio.Endpoint != "" {
		minioClient, err = storage.NewMinIOClient(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
		if err != nil {
			logrus.Warn("MinIO недоступен, загрузка аватарок отключена: ", err)
			minioClient = nil
		}
	}

	authHandler := handler.NewAuthHandler(repo, redisClient, minioClient, cfg)
	pageHandler := handler.NewHandler(repo, authHandler)
	apiHandler := handler.NewAPIHandler(repo, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	r := gin.Default()

	app := pkg.NewApp(cfg, r, pageHandler, apiHandler, authMiddleware)
	app.RunApp()

	log.Println("Server down")
}
