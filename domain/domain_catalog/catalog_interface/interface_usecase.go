package catalog_interface

import (
	"context"

	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
)

// CatalogUsecase 目录写操作：维护歌曲、专辑与媒体资源之间的一致性
type CatalogUsecase interface {
	CreateSong(ctx context.Context, input catalog_models.SongInput, files catalog_models.SongFiles) (*catalog_models.Song, error)
	DeleteSong(ctx context.Context, id string) error
	CreateAlbum(ctx context.Context, input catalog_models.AlbumInput, cover *catalog_models.MediaFile) (*catalog_models.Album, error)
	DeleteAlbum(ctx context.Context, id string) (*catalog_models.AlbumDeleteReport, error)
}

// BrowseUsecase 浏览与搜索
type BrowseUsecase interface {
	All(ctx context.Context) ([]catalog_models.SongView, error)
	Featured(ctx context.Context) ([]catalog_models.SongView, error)
	Latest(ctx context.Context) ([]catalog_models.SongView, error)
	Trending(ctx context.Context) ([]catalog_models.SongView, error)
	TopCharts(ctx context.Context) ([]catalog_models.SongView, error)
	MadeForYou(ctx context.Context) ([]catalog_models.SongView, error)
	Random(ctx context.Context) (*catalog_models.SongView, error)
	Search(ctx context.Context, query string) ([]catalog_models.SongView, error)
	ByID(ctx context.Context, id string) (*catalog_models.SongView, error)
	ByArtist(ctx context.Context, artist string) ([]catalog_models.SongView, error)
	ByAlbum(ctx context.Context, albumID string) ([]catalog_models.SongView, error)
	ByGenre(ctx context.Context, genre string) ([]catalog_models.SongView, error)
	ByYear(ctx context.Context, year string) ([]catalog_models.SongView, error)

	ListAlbums(ctx context.Context) ([]*catalog_models.Album, error)
	GetAlbum(ctx context.Context, id string) (*catalog_models.AlbumView, error)
}

// UserUsecase 身份服务回调
type UserUsecase interface {
	SyncUser(ctx context.Context, input catalog_models.AuthCallbackInput) (bool, error)
}
