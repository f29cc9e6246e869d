package catalog_interface

import (
	"context"

	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
)

// UserRepository 用户仓库，在通用仓库之上补充按身份服务ID查询
type UserRepository interface {
	domain.BaseRepository[catalog_models.User]
	GetByClerkID(ctx context.Context, clerkID string) (*catalog_models.User, error)
}
