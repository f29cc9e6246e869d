package route_catalog

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/listny/listny-backend/api/controller/controller_catalog"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/mongo"
)

func NewAlbumRouter(
	timeout time.Duration,
	db mongo.Database,
	cache catalog_interface.BrowseCache,
	logger *slog.Logger,
	group *gin.RouterGroup,
) {
	uc := newBrowseUsecase(timeout, db, cache, logger)
	ctrl := controller_catalog.NewAlbumController(uc)

	albumGroup := group.Group("/albums")
	{
		albumGroup.GET("", ctrl.GetAllAlbums)
		albumGroup.GET("/:id", ctrl.GetAlbumByID)
	}
}
