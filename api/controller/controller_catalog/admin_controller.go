package controller_catalog

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/listny/listny-backend/api/controller"
	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
)

// 表单文件字段名
const (
	FieldAudioFile = "audioFile"
	FieldImageFile = "imageFile"
)

type AdminController struct {
	CatalogUsecase catalog_interface.CatalogUsecase
	MaxUploadBytes int64
}

func NewAdminController(uc catalog_interface.CatalogUsecase, maxUploadBytes int64) *AdminController {
	return &AdminController{CatalogUsecase: uc, MaxUploadBytes: maxUploadBytes}
}

func (c *AdminController) CheckAdmin(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"admin": true})
}

func (c *AdminController) Status(ctx *gin.Context) {
	controller.MessageResponse(ctx, http.StatusOK, "Admin routes working fine!", "", nil)
}

// CreateSong POST /admin/songs，multipart 表单携带 audioFile 与 imageFile
func (c *AdminController) CreateSong(ctx *gin.Context) {
	c.limitBody(ctx)

	var input catalog_models.SongInput
	if err := ctx.ShouldBind(&input); err != nil {
		c.bindError(ctx, err)
		return
	}

	audio, closeAudio, err := formFile(ctx, FieldAudioFile)
	if err != nil {
		c.bindError(ctx, err)
		return
	}
	defer closeAudio()
	image, closeImage, err := formFile(ctx, FieldImageFile)
	if err != nil {
		c.bindError(ctx, err)
		return
	}
	defer closeImage()

	song, err := c.CatalogUsecase.CreateSong(ctx.Request.Context(), input, catalog_models.SongFiles{
		Audio: audio,
		Image: image,
	})
	if err != nil {
		// 歌曲已写入但专辑索引未更新
		if song != nil && domain.IsKind(err, domain.KindPartialFailure) {
			_ = ctx.Error(err)
			controller.MessageResponse(ctx, http.StatusMultiStatus,
				"Song created but could not be added to the album", "song", song)
			return
		}
		controller.HandleError(ctx, err)
		return
	}

	controller.MessageResponse(ctx, http.StatusCreated, "Song created successfully", "song", song)
}

func (c *AdminController) DeleteSong(ctx *gin.Context) {
	if err := c.CatalogUsecase.DeleteSong(ctx.Request.Context(), ctx.Param("id")); err != nil {
		controller.HandleError(ctx, err)
		return
	}
	controller.MessageResponse(ctx, http.StatusOK, "Song deleted successfully", "", nil)
}

// CreateAlbum POST /admin/albums，封面字段为 imageFile
func (c *AdminController) CreateAlbum(ctx *gin.Context) {
	c.limitBody(ctx)

	var input catalog_models.AlbumInput
	if err := ctx.ShouldBind(&input); err != nil {
		c.bindError(ctx, err)
		return
	}

	cover, closeCover, err := formFile(ctx, FieldImageFile)
	if err != nil {
		c.bindError(ctx, err)
		return
	}
	defer closeCover()

	album, err := c.CatalogUsecase.CreateAlbum(ctx.Request.Context(), input, cover)
	if err != nil {
		controller.HandleError(ctx, err)
		return
	}

	controller.MessageResponse(ctx, http.StatusCreated, "Album created successfully", "album", album)
}

func (c *AdminController) DeleteAlbum(ctx *gin.Context) {
	report, err := c.CatalogUsecase.DeleteAlbum(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		controller.HandleError(ctx, err)
		return
	}
	controller.MessageResponse(ctx, http.StatusOK, "Album deleted successfully", "report", report)
}

func (c *AdminController) limitBody(ctx *gin.Context) {
	if c.MaxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.MaxUploadBytes)
	}
}

func (c *AdminController) bindError(ctx *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		controller.ErrorResponse(ctx, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Upload exceeds the size limit")
		return
	}
	controller.ErrorResponse(ctx, http.StatusBadRequest, string(domain.KindValidation), err.Error())
}

// formFile 打开上传文件；字段缺失时返回 nil，由用例层给出统一的校验错误
func formFile(ctx *gin.Context, field string) (*catalog_models.MediaFile, func(), error) {
	header, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}

	var f multipart.File
	if f, err = header.Open(); err != nil {
		return nil, func() {}, err
	}
	return &catalog_models.MediaFile{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  f,
	}, func() { _ = f.Close() }, nil
}
