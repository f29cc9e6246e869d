package mediastore

import (
	"fmt"
	"io"

	"github.com/dhowden/tag"
	"github.com/h2non/filetype"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"golang.org/x/crypto/blake2b"
)

// 文件类型识别所需的最大头部长度
const sniffLen = 261

// ErrUnsupportedType 文件内容与声明的媒体种类不符
type ErrUnsupportedType struct {
	Kind     catalog_models.MediaKind
	Detected string
}

func (e *ErrUnsupportedType) Error() string {
	if e.Detected == "" {
		return fmt.Sprintf("unrecognized %s payload", e.Kind)
	}
	return fmt.Sprintf("%s payload has unsupported type %s", e.Kind, e.Detected)
}

type inspector struct{}

func NewInspector() catalog_interface.MediaInspector {
	return &inspector{}
}

// Inspect 识别内容类型并计算 blake2b-256 摘要，完成后把读位置复位到开头
func (i *inspector) Inspect(kind catalog_models.MediaKind, file *catalog_models.MediaFile) (*catalog_models.MediaAsset, error) {
	if file == nil || file.Content == nil {
		return nil, fmt.Errorf("missing %s payload", kind)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Content, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("读取文件头失败: %w", err)
	}
	head = head[:n]

	detected, err := filetype.Match(head)
	if err != nil {
		return nil, fmt.Errorf("文件类型识别失败: %w", err)
	}
	if detected == filetype.Unknown {
		return nil, &ErrUnsupportedType{Kind: kind}
	}
	if !acceptable(kind, head) {
		return nil, &ErrUnsupportedType{Kind: kind, Detected: detected.MIME.Value}
	}

	if _, err := file.Content.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind payload: %w", err)
	}
	hash, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(hash, file.Content)
	if err != nil {
		return nil, fmt.Errorf("校验和计算失败: %w", err)
	}
	if _, err := file.Content.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind payload: %w", err)
	}

	return &catalog_models.MediaAsset{
		ContentType: detected.MIME.Value,
		Checksum:    fmt.Sprintf("%x", hash.Sum(nil)),
		Size:        size,
	}, nil
}

// ReadAudioTags 读取内嵌标签，无标签时返回错误
func (i *inspector) ReadAudioTags(file *catalog_models.MediaFile) (*catalog_models.AudioTags, error) {
	if file == nil || file.Content == nil {
		return nil, fmt.Errorf("missing audio payload")
	}
	defer file.Content.Seek(0, io.SeekStart)

	if _, err := file.Content.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind payload: %w", err)
	}
	metadata, err := tag.ReadFrom(file.Content)
	if err != nil {
		return nil, fmt.Errorf("标签解析失败: %w", err)
	}

	return &catalog_models.AudioTags{
		Title:  metadata.Title(),
		Artist: metadata.Artist(),
		Genre:  metadata.Genre(),
		Year:   metadata.Year(),
	}, nil
}

// acceptable 部分音频容器（mp4/webm）会被识别为视频
func acceptable(kind catalog_models.MediaKind, head []byte) bool {
	switch kind {
	case catalog_models.MediaKindAudio:
		return filetype.IsAudio(head) || filetype.IsVideo(head)
	case catalog_models.MediaKindImage:
		return filetype.IsImage(head)
	default:
		return false
	}
}
