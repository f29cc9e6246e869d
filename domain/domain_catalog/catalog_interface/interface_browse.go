package catalog_interface

import (
	"context"

	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BrowseRepository 只读投影查询，结果附带关联专辑
type BrowseRepository interface {
	FindSongs(ctx context.Context, projection catalog_models.SongProjection) ([]catalog_models.SongView, error)
	GetSong(ctx context.Context, id primitive.ObjectID) (*catalog_models.SongView, error)
	SampleSongs(ctx context.Context, size int) ([]catalog_models.SongView, error)
}

// BrowseCache 固定榜单的缓存，任何目录写操作之后失效
type BrowseCache interface {
	Get(ctx context.Context, key string) ([]catalog_models.SongView, bool, error)
	Set(ctx context.Context, key string, songs []catalog_models.SongView) error
	Invalidate(ctx context.Context) error
}
