package controller_catalog

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/listny/listny-backend/api/controller"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
)

type SongController struct {
	BrowseUsecase catalog_interface.BrowseUsecase
}

func NewSongController(uc catalog_interface.BrowseUsecase) *SongController {
	return &SongController{BrowseUsecase: uc}
}

func (c *SongController) GetAllSongs(ctx *gin.Context) {
	c.writeList(ctx, c.BrowseUsecase.All)
}

func (c *SongController) GetFeaturedSongs(ctx *gin.Context) {
	c.writeList(ctx, c.BrowseUsecase.Featured)
}

func (c *SongController) GetLatestSongs(ctx *gin.Context) {
	c.writeList(ctx, c.BrowseUsecase.Latest)
}

func (c *SongController) GetTrendingSongs(ctx *gin.Context) {
	c.writeList(ctx, c.BrowseUsecase.Trending)
}

func (c *SongController) GetTopChartSongs(ctx *gin.Context) {
	c.writeList(ctx, c.BrowseUsecase.TopCharts)
}

func (c *SongController) GetMadeForYouSongs(ctx *gin.Context) {
	c.writeList(ctx, c.BrowseUsecase.MadeForYou)
}

func (c *SongController) GetRandomSong(ctx *gin.Context) {
	song, err := c.BrowseUsecase.Random(ctx.Request.Context())
	if err != nil {
		controller.HandleError(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, song)
}

// SearchSongs GET /songs/search?q=
func (c *SongController) SearchSongs(ctx *gin.Context) {
	songs, err := c.BrowseUsecase.Search(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		controller.HandleError(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, songs)
}

func (c *SongController) GetSongByID(ctx *gin.Context) {
	song, err := c.BrowseUsecase.ByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		controller.HandleError(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, song)
}

func (c *SongController) GetSongsByArtist(ctx *gin.Context) {
	songs, err := c.BrowseUsecase.ByArtist(ctx.Request.Context(), ctx.Param("artist"))
	if err != nil {
		controller.HandleError(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, songs)
}

func (c *SongController) GetSongsByAlbum(ctx *gin.Context) {
	songs, err := c.BrowseUsecase.ByAlbum(ctx.Request.Context(), ctx.Param("albumId"))
	if err != nil {
		controller.HandleError(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, songs)
}

func (c *SongController) GetSongsByGenre(ctx *gin.Context) {
	songs, err := c.BrowseUsecase.ByGenre(ctx.Request.Context(), ctx.Param("genre"))
	if err != nil {
		controller.HandleError(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, songs)
}

func (c *SongController) GetSongsByYear(ctx *gin.Context) {
	songs, err := c.BrowseUsecase.ByYear(ctx.Request.Context(), ctx.Param("year"))
	if err != nil {
		controller.HandleError(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, songs)
}

type listQuery func(ctx context.Context) ([]catalog_models.SongView, error)

func (c *SongController) writeList(ctx *gin.Context, query listQuery) {
	songs, err := query(ctx.Request.Context())
	if err != nil {
		controller.HandleError(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, songs)
}
