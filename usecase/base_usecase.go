package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/listny/listny-backend/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BaseUsecase 通用写入用例：统一超时与错误归类
// entity 用于错误提示，如 "user"
type BaseUsecase[T any] struct {
	repo    domain.BaseRepository[T]
	timeout time.Duration
	entity  string
}

func NewBaseUsecase[T any](repo domain.BaseRepository[T], timeout time.Duration, entity string) *BaseUsecase[T] {
	return &BaseUsecase[T]{repo: repo, timeout: timeout, entity: entity}
}

// Create 写入实体，驱动错误以 Repository 类别返回并保留原始错误链
func (uc *BaseUsecase[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, errors.New("entity cannot be nil")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if err := uc.repo.Insert(ctx, entity); err != nil {
		return nil, domain.Repository(err, "failed to create %s", uc.entity)
	}
	return entity, nil
}

// ParseObjectID 解析路径或表单中的ID，field 出现在校验错误里
func ParseObjectID(field, raw string) (primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return primitive.NilObjectID, domain.Validation("%s is required", field)
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, domain.Validation("invalid %s: %s", field, raw)
	}
	return id, nil
}
