package mediastore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
)

const (
	// Cloudinary 把音频归入 video 资源类型
	ResourceTypeAudio = "video"
	ResourceTypeImage = "image"

	resultNotFound = "not found"
)

// uploaderAPI Cloudinary 上传接口中用到的部分
type uploaderAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type Config struct {
	CloudName   string
	APIKey      string
	APISecret   string
	Folder      string
	CallTimeout time.Duration
}

type cloudinaryStore struct {
	api     uploaderAPI
	folder  string
	timeout time.Duration
	logger  *slog.Logger
}

func NewCloudinaryStore(cfg Config, logger *slog.Logger) (catalog_interface.MediaStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary 初始化失败: %w", err)
	}
	return newStore(&cld.Upload, cfg, logger), nil
}

func newStore(api uploaderAPI, cfg Config, logger *slog.Logger) *cloudinaryStore {
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &cloudinaryStore{
		api:     api,
		folder:  cfg.Folder,
		timeout: timeout,
		logger:  logger,
	}
}

// Upload 上传并返回 URL 与资源标识，内容检查由调用方在上传前完成
func (s *cloudinaryStore) Upload(
	ctx context.Context,
	kind catalog_models.MediaKind,
	file *catalog_models.MediaFile,
) (*catalog_models.MediaAsset, error) {
	if file == nil || file.Content == nil {
		return nil, errors.New("empty media payload")
	}

	if _, err := file.Content.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.api.Upload(ctx, file.Content, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", result.Error.Message)
	}
	if result.SecureURL == "" || result.PublicID == "" {
		return nil, errors.New("cloudinary upload: empty result")
	}

	asset := &catalog_models.MediaAsset{
		URL:          result.SecureURL,
		PublicID:     result.PublicID,
		ResourceType: result.ResourceType,
		Size:         int64(result.Bytes),
	}
	if asset.ResourceType == "" {
		asset.ResourceType = defaultResourceType(kind)
	}

	s.logger.Debug("媒体上传完成",
		"kind", string(kind),
		"public_id", asset.PublicID,
		"bytes", asset.Size,
		"elapsed", time.Since(start).String(),
	)
	return asset, nil
}

// Delete 资源不存在返回成功，重复删除是安全的
func (s *cloudinaryStore) Delete(ctx context.Context, ref catalog_models.MediaRef) error {
	if ref.PublicID == "" {
		return errors.New("empty public id")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     ref.PublicID,
		ResourceType: ref.ResourceType,
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", ref.PublicID, err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", ref.PublicID, result.Error.Message)
	}

	switch result.Result {
	case "ok", resultNotFound:
		return nil
	default:
		return fmt.Errorf("cloudinary destroy %s: unexpected result %q", ref.PublicID, result.Result)
	}
}

// Resolve 优先使用上传时记录的资源标识
func (s *cloudinaryStore) Resolve(
	kind catalog_models.MediaKind,
	url string,
	asset *catalog_models.MediaAsset,
) (catalog_models.MediaRef, bool) {
	if asset != nil && asset.PublicID != "" {
		resourceType := asset.ResourceType
		if resourceType == "" {
			resourceType = defaultResourceType(kind)
		}
		return catalog_models.MediaRef{PublicID: asset.PublicID, ResourceType: resourceType}, true
	}

	publicID, ok := DerivePublicID(s.folder, url)
	if !ok {
		return catalog_models.MediaRef{}, false
	}
	return catalog_models.MediaRef{PublicID: publicID, ResourceType: defaultResourceType(kind)}, true
}

func defaultResourceType(kind catalog_models.MediaKind) string {
	if kind == catalog_models.MediaKindAudio {
		return ResourceTypeAudio
	}
	return ResourceTypeImage
}
