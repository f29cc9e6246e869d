package catalog_interface

import (
	"context"

	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
)

// MediaStore 外部媒体托管服务
type MediaStore interface {
	// Upload 上传文件并返回持久 URL 与资源标识
	Upload(ctx context.Context, kind catalog_models.MediaKind, file *catalog_models.MediaFile) (*catalog_models.MediaAsset, error)
	// Delete 删除资源，资源已不存在视为成功
	Delete(ctx context.Context, ref catalog_models.MediaRef) error
	// Resolve 返回文档中记录的资源标识；旧文档没有记录时从 URL 推导
	Resolve(kind catalog_models.MediaKind, url string, asset *catalog_models.MediaAsset) (catalog_models.MediaRef, bool)
}

// MediaInspector 上传前检查文件内容
type MediaInspector interface {
	Inspect(kind catalog_models.MediaKind, file *catalog_models.MediaFile) (*catalog_models.MediaAsset, error)
	ReadAudioTags(file *catalog_models.MediaFile) (*catalog_models.AudioTags, error)
}
