package usecase_catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"github.com/listny/listny-backend/usecase"
	driver "go.mongodb.org/mongo-driver/mongo"
)

type UserUsecase struct {
	*usecase.BaseUsecase[catalog_models.User]
	repo    catalog_interface.UserRepository
	timeout time.Duration
	logger  *slog.Logger
}

func NewUserUsecase(repo catalog_interface.UserRepository, timeout time.Duration, logger *slog.Logger) catalog_interface.UserUsecase {
	return &UserUsecase{
		BaseUsecase: usecase.NewBaseUsecase[catalog_models.User](repo, timeout, "user"),
		repo:        repo,
		timeout:     timeout,
		logger:      logger,
	}
}

// SyncUser 首次登录时按身份服务ID建档，返回是否新建
func (uc *UserUsecase) SyncUser(ctx context.Context, input catalog_models.AuthCallbackInput) (bool, error) {
	clerkID := strings.TrimSpace(input.ID)
	if clerkID == "" {
		return false, domain.Validation("id is required")
	}

	lookupCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	existing, err := uc.repo.GetByClerkID(lookupCtx, clerkID)
	cancel()
	if err != nil {
		return false, domain.Repository(err, "failed to look up user")
	}
	if existing != nil {
		return false, nil
	}

	user := &catalog_models.User{
		ClerkID:  clerkID,
		FullName: normalizeText(strings.TrimSpace(input.FirstName) + " " + strings.TrimSpace(input.LastName)),
		ImageURL: strings.TrimSpace(input.ImageURL),
	}
	if _, err := uc.Create(ctx, user); err != nil {
		// 并发回调：唯一索引保证只建一次
		if driver.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}

	uc.logger.Info("用户已建档", "user_id", user.ID.Hex(), "clerk_id", clerkID)
	return true, nil
}
