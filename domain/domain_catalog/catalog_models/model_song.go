package catalog_models

import (
	"time"

	"github.com/listny/listny-backend/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 字段名沿用线上 songs 集合已有的 camelCase 命名
type Song struct {
	// 系统保留字段
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"` // 文档唯一标识符
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	// 基础元数据
	Title      string `bson:"title" json:"title"`
	Artist     string `bson:"artist" json:"artist"`
	Duration   int    `bson:"duration" json:"duration"` // 时长（秒）
	Genre      string `bson:"genre,omitempty" json:"genre,omitempty"`
	IsFeatured bool   `bson:"isFeatured" json:"isFeatured"`
	PlayCount  int64  `bson:"playCount" json:"playCount"` // 由播放统计服务累加

	// 媒体资源，创建后不可变
	AudioURL   string      `bson:"audioUrl" json:"audioUrl"`
	ImageURL   string      `bson:"imageUrl" json:"imageUrl"`
	AudioAsset *MediaAsset `bson:"audioAsset,omitempty" json:"-"` // 旧数据可能缺失
	ImageAsset *MediaAsset `bson:"imageAsset,omitempty" json:"-"`

	// 关系ID索引（弱引用，专辑的 songs 列表是它的反向索引）
	AlbumID *primitive.ObjectID `bson:"albumId,omitempty" json:"albumId"`
}

// SongInput 创建歌曲的表单数据
type SongInput struct {
	Title      string `form:"title" binding:"required"`
	Artist     string `form:"artist" binding:"required"`
	Duration   int    `form:"duration" binding:"min=0"`
	AlbumID    string `form:"albumId"`
	Genre      string `form:"genre"`
	IsFeatured bool   `form:"isFeatured"`
}

// SongFiles 创建歌曲时必须同时提供音频与封面
type SongFiles struct {
	Audio *MediaFile
	Image *MediaFile
}

// AlbumSummary 歌曲列表中展示用的专辑信息（只读关联）
type AlbumSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Artist      string             `bson:"artist" json:"artist"`
	ReleaseYear int                `bson:"releaseYear" json:"releaseYear"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
}

// SongView 带关联专辑的歌曲
type SongView struct {
	Song  `bson:",inline"`
	Album *AlbumSummary `bson:"album,omitempty" json:"album"`
}

// SongCriteria 浏览查询的过滤条件，零值字段不参与过滤
type SongCriteria struct {
	Featured  *bool
	Artist    string
	Genre     string
	AlbumID   *primitive.ObjectID
	AlbumYear *int
	Search    string // 标题或艺术家，大小写不敏感的子串匹配
}

// SongProjection (过滤, 排序, 数量) 三元组，Limit 为 0 表示不限
type SongProjection struct {
	Criteria SongCriteria
	Sort     []domain.SortOrder
	Limit    int64
}
