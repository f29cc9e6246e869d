package controller_catalog

import (
	"github.com/gin-gonic/gin"
	"github.com/listny/listny-backend/api/controller"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
)

type AlbumController struct {
	BrowseUsecase catalog_interface.BrowseUsecase
}

func NewAlbumController(uc catalog_interface.BrowseUsecase) *AlbumController {
	return &AlbumController{BrowseUsecase: uc}
}

func (c *AlbumController) GetAllAlbums(ctx *gin.Context) {
	albums, err := c.BrowseUsecase.ListAlbums(ctx.Request.Context())
	if err != nil {
		controller.HandleError(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, albums)
}

// GetAlbumByID 专辑详情，songs 展开为歌曲文档
func (c *AlbumController) GetAlbumByID(ctx *gin.Context) {
	album, err := c.BrowseUsecase.GetAlbum(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		controller.HandleError(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, album)
}
