package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/listny/listny-backend/mongo"
)

const mongoAppName = "listny-backend"

// NewMongoDatabase 连接数据库并建立索引
func NewMongoDatabase(env *Env, logger *slog.Logger) (mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, mongo.ClientOptions{
		URI:            env.MongoURI,
		AppName:        mongoAppName,
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	db := client.Database(env.DBName)
	if env.MongoRebuildIndex {
		logger.Warn("重建全部索引", "db", env.DBName)
		if err := mongo.DropIndexes(ctx, db, logger); err != nil {
			logger.Warn("删除索引未全部成功", "error", err.Error())
		}
	}
	// 建索引失败不阻止启动
	if err := mongo.EnsureIndexes(ctx, db, logger); err != nil {
		logger.Warn("索引未全部建立", "error", err.Error())
	}

	logger.Info("数据库已连接", "db", env.DBName)
	return client, nil
}

func CloseMongoDBConnection(client mongo.Client, logger *slog.Logger) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		logger.Error("关闭数据库连接失败", "error", err.Error())
		return
	}
	logger.Info("数据库连接已关闭")
}
