package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BaseMongoRepository 单集合仓库，歌曲、专辑、用户仓库在其上补充领域查询
type BaseMongoRepository[T any] struct {
	db         mongo.Database
	collection string
}

func NewBaseMongoRepository[T any](db mongo.Database, collection string) domain.BaseRepository[T] {
	return &BaseMongoRepository[T]{db: db, collection: collection}
}

func (r *BaseMongoRepository[T]) coll() mongo.Collection {
	return r.db.Collection(r.collection)
}

func (r *BaseMongoRepository[T]) wrap(op string, err error) error {
	return fmt.Errorf("%s: %s: %w", r.collection, op, err)
}

func (r *BaseMongoRepository[T]) Insert(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("entity cannot be nil")
	}

	now := time.Now().UTC()
	stamp(entity, primitive.NilObjectID, now, true)

	insertedID, err := r.coll().InsertOne(ctx, entity)
	if err != nil {
		return r.wrap("insert", err)
	}
	if oid, ok := insertedID.(primitive.ObjectID); ok {
		stamp(entity, oid, now, false)
	}
	return nil
}

func (r *BaseMongoRepository[T]) GetByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

func (r *BaseMongoRepository[T]) FindOne(ctx context.Context, filter interface{}) (*T, error) {
	var entity T
	if err := r.coll().FindOne(ctx, filter).Decode(&entity); err != nil {
		if domain.IsNotFound(err) {
			return nil, nil
		}
		return nil, r.wrap("find one", err)
	}
	return &entity, nil
}

// FindMany 结果总是非 nil 切片
func (r *BaseMongoRepository[T]) FindMany(ctx context.Context, filter interface{}, sort []domain.SortOrder) ([]*T, error) {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(domain.SortDocument(sort))
	}

	cursor, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, r.wrap("find", err)
	}
	defer cursor.Close(ctx)

	entities := make([]*T, 0)
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, r.wrap("decode", err)
	}
	return entities, nil
}

func (r *BaseMongoRepository[T]) ExistsByFilter(ctx context.Context, filter interface{}) (bool, error) {
	count, err := r.coll().CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, r.wrap("count", err)
	}
	return count > 0, nil
}

// UpdateByID 总会刷新 updatedAt，调用方可只传 $addToSet/$pull 等操作符
func (r *BaseMongoRepository[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (bool, error) {
	now := time.Now().UTC()
	switch set := update["$set"].(type) {
	case bson.M:
		set["updatedAt"] = now
	case nil:
		update["$set"] = bson.M{"updatedAt": now}
	}

	result, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return false, r.wrap("update", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *BaseMongoRepository[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	deleted, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, r.wrap("delete", err)
	}
	return deleted > 0, nil
}

func (r *BaseMongoRepository[T]) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	deleted, err := r.coll().DeleteMany(ctx, filter)
	if err != nil {
		return 0, r.wrap("delete many", err)
	}
	return deleted, nil
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	objectIDType = reflect.TypeOf(primitive.ObjectID{})
)

// stamp 按 bson 标签写入 _id、createdAt、updatedAt；id 为零值时不覆盖 _id
func stamp(entity interface{}, id primitive.ObjectID, now time.Time, created bool) {
	val := reflect.ValueOf(entity).Elem()
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("bson"), ",")

		switch {
		case name == "_id" && field.Type() == objectIDType && !id.IsZero():
			field.Set(reflect.ValueOf(id))
		case name == "createdAt" && field.Type() == timeType && created:
			field.Set(reflect.ValueOf(now))
		case name == "updatedAt" && field.Type() == timeType && created:
			field.Set(reflect.ValueOf(now))
		}
	}
}
