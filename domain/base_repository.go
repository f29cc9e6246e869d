package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BaseRepository 单集合通用访问
// 单条查询不存在时返回 nil, nil；写入后回填 _id 与 createdAt/updatedAt
type BaseRepository[T any] interface {
	Insert(ctx context.Context, entity *T) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	FindOne(ctx context.Context, filter interface{}) (*T, error)
	FindMany(ctx context.Context, filter interface{}, sort []SortOrder) ([]*T, error)
	ExistsByFilter(ctx context.Context, filter interface{}) (bool, error)

	// 返回值表示是否命中文档
	UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (bool, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error)
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
}
