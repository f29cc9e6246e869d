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

type songRepository struct {
	domain.BaseRepository[catalog_models.Song]
}

func NewSongRepository(db mongo.Database, collection string) catalog_interface.SongRepository {
	return &songRepository{
		BaseRepository: repository.NewBaseMongoRepository[catalog_models.Song](db, collection),
	}
}

// DeleteByIDs 按ID集合批量删除；空集合不访问数据库
func (r *songRepository) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// GetByIDs 结果顺序与 ids 一致，不存在的ID被跳过
func (r *songRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*catalog_models.Song, error) {
	if len(ids) == 0 {
		return []*catalog_models.Song{}, nil
	}
	found, err := r.FindMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*catalog_models.Song, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	ordered := make([]*catalog_models.Song, 0, len(found))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

// FindByAlbum 按 albumId 外键枚举，不依赖专辑文档里的索引
func (r *songRepository) FindByAlbum(ctx context.Context, albumID primitive.ObjectID) ([]*catalog_models.Song, error) {
	return r.FindMany(ctx, bson.M{"albumId": albumID}, []domain.SortOrder{
		{Sort: "createdAt", Order: domain.OrderAsc},
	})
}
