package bootstrap

import (
	"log/slog"

	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/logger"
	"github.com/listny/listny-backend/mediastore"
	"github.com/listny/listny-backend/mongo"
	"github.com/redis/go-redis/v9"
)

type Application struct {
	Env    *Env
	Logger *slog.Logger
	Mongo  mongo.Client
	Redis  *redis.Client
	Cache  catalog_interface.BrowseCache
	Media  catalog_interface.MediaStore
}

func App() (*Application, error) {
	env, err := NewEnv()
	if err != nil {
		return nil, err
	}

	app := &Application{Env: env}
	app.Logger = logger.New(logger.Config{
		ServiceName: "listny-backend",
		Environment: env.AppEnv,
		Level:       env.LogLevel,
		LogFilePath: env.LogFile,
		MaxSizeMB:   env.LogMaxSizeMB,
		MaxBackups:  env.LogMaxBackups,
		MaxAgeDays:  env.LogMaxAgeDays,
	})

	app.Media, err = mediastore.NewCloudinaryStore(mediastore.Config{
		CloudName:   env.CloudinaryCloudName,
		APIKey:      env.CloudinaryAPIKey,
		APISecret:   env.CloudinaryAPISecret,
		Folder:      env.MediaFolder,
		CallTimeout: env.MediaTimeout(),
	}, app.Logger)
	if err != nil {
		return nil, err
	}

	app.Mongo, err = NewMongoDatabase(env, app.Logger)
	if err != nil {
		return nil, err
	}

	app.Cache, app.Redis = NewBrowseCache(env, app.Logger)
	return app, nil
}

func (app *Application) Database() mongo.Database {
	return app.Mongo.Database(app.Env.DBName)
}

// Close 释放外部连接
func (app *Application) Close() {
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("关闭 Redis 失败", "error", err.Error())
		}
	}
	CloseMongoDBConnection(app.Mongo, app.Logger)
}
