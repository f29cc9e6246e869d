package repository_catalog

import (
	"context"

	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"github.com/listny/listny-backend/mongo"
	"github.com/listny/listny-backend/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type albumRepository struct {
	domain.BaseRepository[catalog_models.Album]
}

func NewAlbumRepository(db mongo.Database, collection string) catalog_interface.AlbumRepository {
	return &albumRepository{
		BaseRepository: repository.NewBaseMongoRepository[catalog_models.Album](db, collection),
	}
}

// Insert 新专辑的 songs 存为空数组而不是 null
func (r *albumRepository) Insert(ctx context.Context, album *catalog_models.Album) error {
	if album.Songs == nil {
		album.Songs = []primitive.ObjectID{}
	}
	return r.BaseRepository.Insert(ctx, album)
}

func (r *albumRepository) List(ctx context.Context) ([]*catalog_models.Album, error) {
	return r.FindMany(ctx, bson.M{}, []domain.SortOrder{
		{Sort: "createdAt", Order: domain.OrderDesc},
	})
}

func (r *albumRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return r.ExistsByFilter(ctx, bson.M{"_id": id})
}

// AddSong 幂等追加，重复执行不会产生重复项
func (r *albumRepository) AddSong(ctx context.Context, albumID, songID primitive.ObjectID) (bool, error) {
	return r.UpdateByID(ctx, albumID, bson.M{"$addToSet": bson.M{"songs": songID}})
}

// RemoveSong 移除全部匹配项，目标不在列表中时为空操作
func (r *albumRepository) RemoveSong(ctx context.Context, albumID, songID primitive.ObjectID) (bool, error) {
	return r.UpdateByID(ctx, albumID, bson.M{"$pull": bson.M{"songs": songID}})
}
