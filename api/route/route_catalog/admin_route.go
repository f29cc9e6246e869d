package route_catalog

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/listny/listny-backend/api/controller/controller_catalog"
	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/mediastore"
	"github.com/listny/listny-backend/mongo"
	"github.com/listny/listny-backend/repository/repository_catalog"
	"github.com/listny/listny-backend/usecase/usecase_catalog"
)

func NewAdminRouter(
	timeout time.Duration,
	db mongo.Database,
	cache catalog_interface.BrowseCache,
	media catalog_interface.MediaStore,
	maxUploadBytes int64,
	guards Guards,
	logger *slog.Logger,
	group *gin.RouterGroup,
) {
	songs := repository_catalog.NewSongRepository(db, domain.CollectionSong)
	albums := repository_catalog.NewAlbumRepository(db, domain.CollectionAlbum)

	uc := usecase_catalog.NewCatalogUsecase(songs, albums, media, mediastore.NewInspector(), cache, timeout, logger)
	ctrl := controller_catalog.NewAdminController(uc, maxUploadBytes)

	adminGroup := group.Group("/admin", guards.Limit, guards.Auth, guards.Admin)
	{
		adminGroup.GET("/check", ctrl.CheckAdmin)
		adminGroup.GET("/status", ctrl.Status)
		adminGroup.POST("/songs", ctrl.CreateSong)
		adminGroup.DELETE("/songs/:id", ctrl.DeleteSong)
		adminGroup.POST("/albums", ctrl.CreateAlbum)
		adminGroup.DELETE("/albums/:id", ctrl.DeleteAlbum)
	}
}
