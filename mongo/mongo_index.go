package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/listny/listny-backend/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type indexSpec struct {
	name   string
	keys   bson.D
	unique bool
}

// catalogIndexes 覆盖榜单排序、外键枚举与筛选路由
var catalogIndexes = []struct {
	collection string
	indexes    []indexSpec
}{
	{domain.CollectionSong, []indexSpec{
		{name: "album_id", keys: bson.D{{Key: "albumId", Value: 1}}},
		{name: "artist", keys: bson.D{{Key: "artist", Value: 1}}},
		{name: "genre", keys: bson.D{{Key: "genre", Value: 1}}},
		{name: "created_at", keys: bson.D{{Key: "createdAt", Value: -1}}},
		{name: "featured_play_count_compound", keys: bson.D{{Key: "isFeatured", Value: 1}, {Key: "playCount", Value: -1}}},
		{name: "play_count_created_at_compound", keys: bson.D{{Key: "playCount", Value: -1}, {Key: "createdAt", Value: -1}}},
	}},
	{domain.CollectionAlbum, []indexSpec{
		{name: "created_at", keys: bson.D{{Key: "createdAt", Value: -1}}},
		{name: "release_year", keys: bson.D{{Key: "releaseYear", Value: 1}}},
	}},
	{domain.CollectionUser, []indexSpec{
		{name: "clerk_id_unique", keys: bson.D{{Key: "clerkId", Value: 1}}, unique: true},
	}},
}

// EnsureIndexes 逐个创建索引，单个失败不影响其余索引，全部失败汇总返回
func EnsureIndexes(ctx context.Context, db Database, logger *slog.Logger) error {
	var errs []error
	for _, group := range catalogIndexes {
		view := db.Collection(group.collection).Indexes()
		for _, spec := range group.indexes {
			opts := options.Index().SetName(spec.name)
			if spec.unique {
				opts.SetUnique(true)
			}
			if _, err := view.CreateOne(ctx, mongo.IndexModel{Keys: spec.keys, Options: opts}); err != nil {
				logger.Error("创建索引失败", "collection", group.collection, "index", spec.name, "error", err.Error())
				errs = append(errs, fmt.Errorf("%s.%s: %w", group.collection, spec.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// DropIndexes 删除目录集合上除 _id 外的全部索引
func DropIndexes(ctx context.Context, db Database, logger *slog.Logger) error {
	var errs []error
	for _, group := range catalogIndexes {
		if _, err := db.Collection(group.collection).Indexes().DropAll(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", group.collection, err))
			continue
		}
		logger.Info("索引已删除", "collection", group.collection)
	}
	return errors.Join(errs...)
}
