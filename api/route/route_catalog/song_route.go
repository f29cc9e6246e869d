package route_catalog

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/listny/listny-backend/api/controller/controller_catalog"
	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/mongo"
	"github.com/listny/listny-backend/repository/repository_catalog"
	"github.com/listny/listny-backend/usecase/usecase_catalog"
)

func newBrowseUsecase(
	timeout time.Duration,
	db mongo.Database,
	cache catalog_interface.BrowseCache,
	logger *slog.Logger,
) catalog_interface.BrowseUsecase {
	repo := repository_catalog.NewBrowseRepository(db, domain.CollectionSong, domain.CollectionAlbum)
	songs := repository_catalog.NewSongRepository(db, domain.CollectionSong)
	albums := repository_catalog.NewAlbumRepository(db, domain.CollectionAlbum)
	return usecase_catalog.NewBrowseUsecase(repo, songs, albums, cache, timeout, logger)
}

func NewSongRouter(
	timeout time.Duration,
	db mongo.Database,
	cache catalog_interface.BrowseCache,
	guards Guards,
	logger *slog.Logger,
	group *gin.RouterGroup,
) {
	uc := newBrowseUsecase(timeout, db, cache, logger)
	ctrl := controller_catalog.NewSongController(uc)

	songGroup := group.Group("/songs")
	{
		songGroup.GET("", guards.Auth, guards.Admin, ctrl.GetAllSongs)
		songGroup.GET("/featured", ctrl.GetFeaturedSongs)
		songGroup.GET("/latest", ctrl.GetLatestSongs)
		songGroup.GET("/trending", ctrl.GetTrendingSongs)
		songGroup.GET("/top-charts", ctrl.GetTopChartSongs)
		songGroup.GET("/made-for-you", guards.Auth, ctrl.GetMadeForYouSongs)
		songGroup.GET("/random", ctrl.GetRandomSong)
		songGroup.GET("/search", ctrl.SearchSongs)
		songGroup.GET("/artist/:artist", ctrl.GetSongsByArtist)
		songGroup.GET("/album/:albumId", ctrl.GetSongsByAlbum)
		songGroup.GET("/genre/:genre", ctrl.GetSongsByGenre)
		songGroup.GET("/year/:year", ctrl.GetSongsByYear)
		songGroup.GET("/:id", ctrl.GetSongByID)
	}
}
