// Package mongo 以接口包装官方驱动，仓库层只依赖这里的接口，测试用 mongomock 替换
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Client interface {
	Database(string) Database
	Ping(context.Context) error
	Disconnect(context.Context) error
}

type Database interface {
	Collection(string) Collection
	Client() Client
}

// Collection 仓库层用到的集合操作子集
type Collection interface {
	InsertOne(ctx context.Context, document interface{}) (interface{}, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	Aggregate(ctx context.Context, pipeline interface{}) (Cursor, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
	Indexes() IndexView
}

type SingleResult interface {
	Decode(interface{}) error
}

type Cursor interface {
	Next(context.Context) bool
	Decode(interface{}) error
	All(context.Context, interface{}) error
	Close(context.Context) error
}

type IndexView interface {
	CreateOne(ctx context.Context, model mongo.IndexModel) (string, error)
	DropAll(ctx context.Context) (bson.Raw, error)
}

// ClientOptions 连接参数
type ClientOptions struct {
	URI            string
	AppName        string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// Connect 建立连接并确认主节点可达。驱动层开启可重试读写，
// 主从切换期间的单次写入失败由驱动重放
func Connect(ctx context.Context, o ClientOptions) (Client, error) {
	opts := options.Client().
		ApplyURI(o.URI).
		SetRetryWrites(true).
		SetRetryReads(true)
	if o.AppName != "" {
		opts.SetAppName(o.AppName)
	}
	if o.ConnectTimeout > 0 {
		opts.SetConnectTimeout(o.ConnectTimeout).SetServerSelectionTimeout(o.ConnectTimeout)
	}
	if o.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(o.MaxPoolSize)
	}

	cl, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	c := &client{cl: cl}
	if err := c.Ping(ctx); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	return c, nil
}

type (
	client       struct{ cl *mongo.Client }
	database     struct{ db *mongo.Database }
	collection   struct{ coll *mongo.Collection }
	singleResult struct{ sr *mongo.SingleResult }
	cursor       struct{ cur *mongo.Cursor }
	indexView    struct{ iv mongo.IndexView }
)

func (c *client) Database(name string) Database {
	return &database{db: c.cl.Database(name)}
}

func (c *client) Ping(ctx context.Context) error {
	return c.cl.Ping(ctx, readpref.Primary())
}

func (c *client) Disconnect(ctx context.Context) error {
	return c.cl.Disconnect(ctx)
}

func (d *database) Collection(name string) Collection {
	return &collection{coll: d.db.Collection(name)}
}

func (d *database) Client() Client {
	return &client{cl: d.db.Client()}
}

// InsertOne 返回驱动生成或文档自带的 _id
func (c *collection) InsertOne(ctx context.Context, document interface{}) (interface{}, error) {
	res, err := c.coll.InsertOne(ctx, document)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

func (c *collection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) SingleResult {
	return &singleResult{sr: c.coll.FindOne(ctx, filter, opts...)}
}

func (c *collection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	cur, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &cursor{cur: cur}, nil
}

func (c *collection) Aggregate(ctx context.Context, pipeline interface{}) (Cursor, error) {
	cur, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return &cursor{cur: cur}, nil
}

func (c *collection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.coll.CountDocuments(ctx, filter, opts...)
}

func (c *collection) UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.coll.UpdateOne(ctx, filter, update, opts...)
}

// DeleteOne 与 DeleteMany 只返回删除数量
func (c *collection) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *collection) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *collection) Indexes() IndexView {
	return &indexView{iv: c.coll.Indexes()}
}

func (r *singleResult) Decode(v interface{}) error { return r.sr.Decode(v) }

func (c *cursor) Next(ctx context.Context) bool                  { return c.cur.Next(ctx) }
func (c *cursor) Decode(v interface{}) error                     { return c.cur.Decode(v) }
func (c *cursor) All(ctx context.Context, out interface{}) error { return c.cur.All(ctx, out) }
func (c *cursor) Close(ctx context.Context) error                { return c.cur.Close(ctx) }

func (v *indexView) CreateOne(ctx context.Context, model mongo.IndexModel) (string, error) {
	return v.iv.CreateOne(ctx, model)
}

func (v *indexView) DropAll(ctx context.Context) (bson.Raw, error) {
	return v.iv.DropAll(ctx)
}
