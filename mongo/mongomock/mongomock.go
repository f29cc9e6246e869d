// Package mongomock 提供 mongo 包接口的测试替身
package mongomock

import (
	"context"
	"fmt"
	"reflect"

	"github.com/listny/listny-backend/mongo"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database 按集合名返回预先登记的 Collection
type Database struct {
	Collections map[string]mongo.Collection
}

func NewDatabase() *Database {
	return &Database{Collections: make(map[string]mongo.Collection)}
}

// With 登记集合
func (d *Database) With(name string, coll mongo.Collection) *Database {
	d.Collections[name] = coll
	return d
}

func (d *Database) Collection(name string) mongo.Collection {
	coll, ok := d.Collections[name]
	if !ok {
		panic(fmt.Sprintf("mongomock: collection %q not registered", name))
	}
	return coll
}

func (d *Database) Client() mongo.Client { return nil }

// Collection 集合Mock
type Collection struct {
	mock.Mock
}

func (m *Collection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) mongo.SingleResult {
	args := m.Called(ctx, filter)
	return args.Get(0).(mongo.SingleResult)
}

func (m *Collection) InsertOne(ctx context.Context, document interface{}) (interface{}, error) {
	args := m.Called(ctx, document)
	return args.Get(0), args.Error(1)
}

func (m *Collection) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Collection) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Collection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (mongo.Cursor, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(mongo.Cursor), args.Error(1)
}

func (m *Collection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Collection) Aggregate(ctx context.Context, pipeline interface{}) (mongo.Cursor, error) {
	args := m.Called(ctx, pipeline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(mongo.Cursor), args.Error(1)
}

func (m *Collection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*driver.UpdateResult, error) {
	args := m.Called(ctx, filter, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.UpdateResult), args.Error(1)
}

func (m *Collection) Indexes() mongo.IndexView {
	args := m.Called()
	return args.Get(0).(mongo.IndexView)
}

// SingleResult 通过 BSON 往返把 Doc 解码到目标
type SingleResult struct {
	Doc interface{}
	Err error
}

func (r *SingleResult) Decode(v interface{}) error {
	if r.Err != nil {
		return r.Err
	}
	return roundTrip(r.Doc, v)
}

// NoDocuments 模拟查询无结果
func NoDocuments() *SingleResult {
	return &SingleResult{Err: driver.ErrNoDocuments}
}

// Cursor 内存游标
type Cursor struct {
	Docs []interface{}
	pos  int
}

func NewCursor(docs ...interface{}) *Cursor {
	return &Cursor{Docs: docs, pos: -1}
}

func (c *Cursor) Close(context.Context) error { return nil }

func (c *Cursor) Next(context.Context) bool {
	c.pos++
	return c.pos < len(c.Docs)
}

func (c *Cursor) Decode(v interface{}) error {
	if c.pos < 0 || c.pos >= len(c.Docs) {
		return fmt.Errorf("mongomock: cursor out of range")
	}
	return roundTrip(c.Docs[c.pos], v)
}

func (c *Cursor) All(_ context.Context, result interface{}) error {
	slice := reflect.ValueOf(result)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("mongomock: result must be a pointer to a slice")
	}
	out := slice.Elem()
	elemType := out.Type().Elem()
	out.Set(reflect.MakeSlice(out.Type(), 0, len(c.Docs)))
	for _, doc := range c.Docs {
		target := elemType
		isPtr := target.Kind() == reflect.Ptr
		if isPtr {
			target = target.Elem()
		}
		elem := reflect.New(target)
		if err := roundTrip(doc, elem.Interface()); err != nil {
			return err
		}
		if isPtr {
			out.Set(reflect.Append(out, elem))
		} else {
			out.Set(reflect.Append(out, elem.Elem()))
		}
	}
	return nil
}

// IndexView 记录创建过的索引名
type IndexView struct {
	Created []string
	Err     error
}

func (v *IndexView) CreateOne(_ context.Context, model driver.IndexModel) (string, error) {
	if v.Err != nil {
		return "", v.Err
	}
	name := ""
	if model.Options != nil && model.Options.Name != nil {
		name = *model.Options.Name
	}
	v.Created = append(v.Created, name)
	return name, nil
}

func (v *IndexView) DropAll(context.Context) (bson.Raw, error) {
	v.Created = nil
	return nil, v.Err
}

func roundTrip(doc interface{}, v interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, v)
}
