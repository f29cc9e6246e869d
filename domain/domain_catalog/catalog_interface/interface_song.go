package catalog_interface

import (
	"context"

	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SongRepository 歌曲领域层接口
type SongRepository interface {
	// 创建：写入后回填 ID 与时间戳
	Insert(ctx context.Context, song *catalog_models.Song) error

	// 删除
	DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error)
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)

	// 查询，不存在时返回 nil, nil
	GetByID(ctx context.Context, id primitive.ObjectID) (*catalog_models.Song, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*catalog_models.Song, error)
	FindByAlbum(ctx context.Context, albumID primitive.ObjectID) ([]*catalog_models.Song, error)
}
