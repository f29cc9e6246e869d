package catalog_interface

import (
	"context"

	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlbumRepository 专辑领域层接口
type AlbumRepository interface {
	Insert(ctx context.Context, album *catalog_models.Album) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error)

	GetByID(ctx context.Context, id primitive.ObjectID) (*catalog_models.Album, error)
	List(ctx context.Context) ([]*catalog_models.Album, error)
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)

	// 反向索引原子操作，返回值表示专辑文档是否存在
	AddSong(ctx context.Context, albumID, songID primitive.ObjectID) (bool, error)
	RemoveSong(ctx context.Context, albumID, songID primitive.ObjectID) (bool, error)
}
