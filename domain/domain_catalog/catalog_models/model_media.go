package catalog_models

import "io"

type MediaKind string

const (
	MediaKindAudio MediaKind = "audio"
	MediaKindImage MediaKind = "image"
)

// MediaAsset 媒体托管服务中的一个资源。PublicID 在上传时记录，删除时无需再从 URL 反推
type MediaAsset struct {
	URL          string `bson:"-" json:"url"`
	PublicID     string `bson:"publicId" json:"publicId"`
	ResourceType string `bson:"resourceType" json:"resourceType"`
	ContentType  string `bson:"contentType,omitempty" json:"contentType,omitempty"`
	Checksum     string `bson:"checksum,omitempty" json:"checksum,omitempty"` // blake2b-256
	Size         int64  `bson:"size,omitempty" json:"size,omitempty"`
}

// MediaFile 待上传的文件内容
type MediaFile struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// MediaRef 删除媒体所需的定位信息
type MediaRef struct {
	PublicID     string
	ResourceType string
}

// AudioTags 从音频内嵌标签读取的元数据
type AudioTags struct {
	Title  string
	Artist string
	Genre  string
	Year   int
}
