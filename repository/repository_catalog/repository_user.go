package repository_catalog

import (
	"context"

	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"github.com/listny/listny-backend/mongo"
	"github.com/listny/listny-backend/repository"
	"go.mongodb.org/mongo-driver/bson"
)

type userRepository struct {
	domain.BaseRepository[catalog_models.User]
}

func NewUserRepository(db mongo.Database, collection string) catalog_interface.UserRepository {
	return &userRepository{
		BaseRepository: repository.NewBaseMongoRepository[catalog_models.User](db, collection),
	}
}

func (r *userRepository) GetByClerkID(ctx context.Context, clerkID string) (*catalog_models.User, error) {
	return r.FindOne(ctx, bson.M{"clerkId": clerkID})
}
