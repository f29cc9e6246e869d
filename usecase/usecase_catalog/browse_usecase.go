package usecase_catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"github.com/listny/listny-backend/usecase"
)

const chartLimit = 10

// 固定榜单的缓存键
const (
	keyFeatured   = "featured"
	keyLatest     = "latest"
	keyTrending   = "trending"
	keyTopCharts  = "top-charts"
	keyMadeForYou = "made-for-you"
)

var (
	byPlayCount = []domain.SortOrder{{Sort: "playCount", Order: domain.OrderDesc}}
	byNewest    = []domain.SortOrder{{Sort: "createdAt", Order: domain.OrderDesc}}
	byChart     = []domain.SortOrder{
		{Sort: "playCount", Order: domain.OrderDesc},
		{Sort: "createdAt", Order: domain.OrderDesc},
	}
)

type BrowseUsecase struct {
	repo    catalog_interface.BrowseRepository
	songs   catalog_interface.SongRepository
	albums  catalog_interface.AlbumRepository
	cache   catalog_interface.BrowseCache
	timeout time.Duration
	logger  *slog.Logger
}

func NewBrowseUsecase(
	repo catalog_interface.BrowseRepository,
	songs catalog_interface.SongRepository,
	albums catalog_interface.AlbumRepository,
	cache catalog_interface.BrowseCache,
	timeout time.Duration,
	logger *slog.Logger,
) catalog_interface.BrowseUsecase {
	return &BrowseUsecase{
		repo:    repo,
		songs:   songs,
		albums:  albums,
		cache:   cache,
		timeout: timeout,
		logger:  logger,
	}
}

func (uc *BrowseUsecase) All(ctx context.Context) ([]catalog_models.SongView, error) {
	return uc.find(ctx, catalog_models.SongProjection{Sort: byNewest})
}

func (uc *BrowseUsecase) Featured(ctx context.Context) ([]catalog_models.SongView, error) {
	featured := true
	return uc.cached(ctx, keyFeatured, catalog_models.SongProjection{
		Criteria: catalog_models.SongCriteria{Featured: &featured},
		Sort:     byPlayCount,
		Limit:    chartLimit,
	})
}

func (uc *BrowseUsecase) Latest(ctx context.Context) ([]catalog_models.SongView, error) {
	return uc.cached(ctx, keyLatest, catalog_models.SongProjection{Sort: byNewest, Limit: chartLimit})
}

func (uc *BrowseUsecase) Trending(ctx context.Context) ([]catalog_models.SongView, error) {
	return uc.cached(ctx, keyTrending, catalog_models.SongProjection{Sort: byPlayCount, Limit: chartLimit})
}

func (uc *BrowseUsecase) TopCharts(ctx context.Context) ([]catalog_models.SongView, error) {
	return uc.cached(ctx, keyTopCharts, catalog_models.SongProjection{Sort: byChart, Limit: chartLimit})
}

// MadeForYou 暂无个性化推荐，与 Trending 相同排序
func (uc *BrowseUsecase) MadeForYou(ctx context.Context) ([]catalog_models.SongView, error) {
	return uc.cached(ctx, keyMadeForYou, catalog_models.SongProjection{Sort: byPlayCount, Limit: chartLimit})
}

func (uc *BrowseUsecase) Random(ctx context.Context) (*catalog_models.SongView, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	songs, err := uc.repo.SampleSongs(ctx, 1)
	if err != nil {
		return nil, domain.Repository(err, "failed to sample songs")
	}
	if len(songs) == 0 {
		return nil, domain.NotFound("No songs found")
	}
	return &songs[0], nil
}

func (uc *BrowseUsecase) Search(ctx context.Context, query string) ([]catalog_models.SongView, error) {
	query = normalizeText(query)
	if query == "" {
		return nil, domain.Validation("Search query is required")
	}
	return uc.find(ctx, catalog_models.SongProjection{
		Criteria: catalog_models.SongCriteria{Search: query},
		Sort:     byNewest,
	})
}

func (uc *BrowseUsecase) ByID(ctx context.Context, id string) (*catalog_models.SongView, error) {
	songID, err := usecase.ParseObjectID("song id", id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	song, err := uc.repo.GetSong(ctx, songID)
	if err != nil {
		return nil, domain.Repository(err, "failed to load song")
	}
	if song == nil {
		return nil, domain.NotFound("Song not found")
	}
	return song, nil
}

func (uc *BrowseUsecase) ByArtist(ctx context.Context, artist string) ([]catalog_models.SongView, error) {
	artist = normalizeText(artist)
	if artist == "" {
		return nil, domain.Validation("artist is required")
	}
	return uc.find(ctx, catalog_models.SongProjection{
		Criteria: catalog_models.SongCriteria{Artist: artist},
		Sort:     byNewest,
	})
}

func (uc *BrowseUsecase) ByAlbum(ctx context.Context, albumID string) ([]catalog_models.SongView, error) {
	id, err := usecase.ParseObjectID("albumId", albumID)
	if err != nil {
		return nil, err
	}
	return uc.find(ctx, catalog_models.SongProjection{
		Criteria: catalog_models.SongCriteria{AlbumID: &id},
		Sort:     byNewest,
	})
}

func (uc *BrowseUsecase) ByGenre(ctx context.Context, genre string) ([]catalog_models.SongView, error) {
	genre = normalizeText(genre)
	if genre == "" {
		return nil, domain.Validation("genre is required")
	}
	return uc.find(ctx, catalog_models.SongProjection{
		Criteria: catalog_models.SongCriteria{Genre: genre},
		Sort:     byNewest,
	})
}

// ByYear 按所属专辑的发行年份过滤，没有专辑的歌曲不会出现
func (uc *BrowseUsecase) ByYear(ctx context.Context, year string) ([]catalog_models.SongView, error) {
	y, err := parseYear(year)
	if err != nil {
		return nil, err
	}
	return uc.find(ctx, catalog_models.SongProjection{
		Criteria: catalog_models.SongCriteria{AlbumYear: &y},
		Sort:     byNewest,
	})
}

func (uc *BrowseUsecase) ListAlbums(ctx context.Context) ([]*catalog_models.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	albums, err := uc.albums.List(ctx)
	if err != nil {
		return nil, domain.Repository(err, "failed to list albums")
	}
	return albums, nil
}

// GetAlbum 专辑详情，歌曲按 songs 列表顺序展开
func (uc *BrowseUsecase) GetAlbum(ctx context.Context, id string) (*catalog_models.AlbumView, error) {
	albumID, err := usecase.ParseObjectID("album id", id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	album, err := uc.albums.GetByID(ctx, albumID)
	if err != nil {
		return nil, domain.Repository(err, "failed to load album")
	}
	if album == nil {
		return nil, domain.NotFound("Album not found")
	}

	songs, err := uc.songs.GetByIDs(ctx, album.Songs)
	if err != nil {
		return nil, domain.Repository(err, "failed to load album songs")
	}
	if len(songs) != len(album.Songs) {
		uc.logger.Warn("专辑反向索引包含不存在的歌曲",
			"album_id", albumID.Hex(),
			"indexed", len(album.Songs),
			"found", len(songs),
		)
	}

	return &catalog_models.AlbumView{Album: *album, Songs: songs}, nil
}

func (uc *BrowseUsecase) find(ctx context.Context, projection catalog_models.SongProjection) ([]catalog_models.SongView, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	songs, err := uc.repo.FindSongs(ctx, projection)
	if err != nil {
		return nil, domain.Repository(err, "failed to query songs")
	}
	return songs, nil
}

// cached 缓存读写失败只降级为直接查询
func (uc *BrowseUsecase) cached(
	ctx context.Context,
	key string,
	projection catalog_models.SongProjection,
) ([]catalog_models.SongView, error) {
	if songs, hit, err := uc.cache.Get(ctx, key); err != nil {
		uc.logger.Warn("浏览缓存读取失败", "key", key, "error", err.Error())
	} else if hit {
		return songs, nil
	}

	songs, err := uc.find(ctx, projection)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, key, songs); err != nil {
		uc.logger.Warn("浏览缓存写入失败", "key", key, "error", err.Error())
	}
	return songs, nil
}
