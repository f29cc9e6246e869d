package catalog_models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Album struct {
	// 系统保留字段
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	// 基础元数据
	Title       string `bson:"title" json:"title"`
	Artist      string `bson:"artist" json:"artist"`
	ReleaseYear int    `bson:"releaseYear" json:"releaseYear"`

	// 视觉元素
	ImageURL   string      `bson:"imageUrl" json:"imageUrl"`
	ImageAsset *MediaAsset `bson:"imageAsset,omitempty" json:"-"`

	// 反向索引：成员关系以歌曲的 albumId 为准，此列表只是缓存，只允许 $addToSet / $pull 修改
	Songs []primitive.ObjectID `bson:"songs" json:"songs"`
}

// AlbumInput 创建专辑的表单数据，releaseYear 以文本形式提交
type AlbumInput struct {
	Title       string `form:"title" binding:"required"`
	Artist      string `form:"artist" binding:"required"`
	ReleaseYear string `form:"releaseYear" binding:"required"`
}

// AlbumView 专辑详情，songs 按反向索引顺序展开为歌曲文档
type AlbumView struct {
	Album
	Songs []*Song `json:"songs"`
}

// AlbumDeleteReport 级联删除专辑的结果汇总
type AlbumDeleteReport struct {
	AlbumID       string `json:"albumId"`
	DeletedSongs  int64  `json:"deletedSongs"`
	MediaDeleted  int    `json:"mediaDeleted"`
	MediaFailures int    `json:"mediaFailures"`
}
