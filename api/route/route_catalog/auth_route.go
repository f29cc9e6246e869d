package route_catalog

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/listny/listny-backend/api/controller/controller_catalog"
	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/mongo"
	"github.com/listny/listny-backend/repository/repository_catalog"
	"github.com/listny/listny-backend/usecase/usecase_catalog"
)

func NewAuthRouter(
	timeout time.Duration,
	db mongo.Database,
	guards Guards,
	logger *slog.Logger,
	group *gin.RouterGroup,
) {
	repo := repository_catalog.NewUserRepository(db, domain.CollectionUser)
	uc := usecase_catalog.NewUserUsecase(repo, timeout, logger)
	ctrl := controller_catalog.NewAuthController(uc)

	authGroup := group.Group("/auth", guards.Limit)
	{
		authGroup.POST("/callback", ctrl.Callback)
	}
}
