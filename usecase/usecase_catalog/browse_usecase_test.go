package usecase_catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"github.com/listny/listny-backend/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// recordingBrowseRepo 记录收到的投影，返回固定结果
type recordingBrowseRepo struct {
	projections []catalog_models.SongProjection
	songs       []catalog_models.SongView
	sample      []catalog_models.SongView
	song        *catalog_models.SongView
	err         error
}

func (r *recordingBrowseRepo) FindSongs(_ context.Context, p catalog_models.SongProjection) ([]catalog_models.SongView, error) {
	r.projections = append(r.projections, p)
	return r.songs, r.err
}

func (r *recordingBrowseRepo) GetSong(context.Context, primitive.ObjectID) (*catalog_models.SongView, error) {
	return r.song, r.err
}

func (r *recordingBrowseRepo) SampleSongs(context.Context, int) ([]catalog_models.SongView, error) {
	return r.sample, r.err
}

func (r *recordingBrowseRepo) last() catalog_models.SongProjection {
	return r.projections[len(r.projections)-1]
}

func newBrowseFixture() (*BrowseUsecase, *recordingBrowseRepo, *memoryCatalog, *countingCache) {
	repo := &recordingBrowseRepo{songs: []catalog_models.SongView{{Song: catalog_models.Song{Title: "x"}}}}
	store := newMemoryCatalog()
	cache := newCountingCache()
	uc := NewBrowseUsecase(repo, store.songRepo(), store.albumRepo(), cache, time.Second, logger.Discard()).(*BrowseUsecase)
	return uc, repo, store, cache
}

func TestBrowse_FixedCharts(t *testing.T) {
	uc, repo, _, _ := newBrowseFixture()
	ctx := context.Background()

	_, err := uc.Featured(ctx)
	require.NoError(t, err)
	p := repo.last()
	require.NotNil(t, p.Criteria.Featured)
	assert.True(t, *p.Criteria.Featured)
	assert.Equal(t, int64(10), p.Limit)
	assert.Equal(t, "playCount", p.Sort[0].Sort)

	_, err = uc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "createdAt", repo.last().Sort[0].Sort)
	assert.Equal(t, domain.OrderDesc, repo.last().Sort[0].Order)

	_, err = uc.TopCharts(ctx)
	require.NoError(t, err)
	require.Len(t, repo.last().Sort, 2)
	assert.Equal(t, "createdAt", repo.last().Sort[1].Sort)

	_, err = uc.Trending(ctx)
	require.NoError(t, err)
	trending := repo.last()
	_, err = uc.MadeForYou(ctx)
	require.NoError(t, err)
	assert.Equal(t, trending, repo.last())
}

func TestBrowse_ChartsAreCachedUntilInvalidated(t *testing.T) {
	uc, repo, _, cache := newBrowseFixture()
	ctx := context.Background()

	first, err := uc.Trending(ctx)
	require.NoError(t, err)
	second, err := uc.Trending(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, repo.projections, 1)

	require.NoError(t, cache.Invalidate(ctx))
	_, err = uc.Trending(ctx)
	require.NoError(t, err)
	assert.Len(t, repo.projections, 2)
}

func TestBrowse_CacheErrorFallsBackToQuery(t *testing.T) {
	uc, repo, _, cache := newBrowseFixture()
	cache.getErr = errors.New("redis down")

	songs, err := uc.Latest(context.Background())
	require.NoError(t, err)
	assert.Len(t, songs, 1)
	assert.Len(t, repo.projections, 1)
}

func TestBrowse_AllIsNotCached(t *testing.T) {
	uc, repo, _, _ := newBrowseFixture()
	ctx := context.Background()

	_, _ = uc.All(ctx)
	_, _ = uc.All(ctx)
	assert.Len(t, repo.projections, 2)
	assert.Zero(t, repo.last().Limit)
}

func TestBrowse_Search(t *testing.T) {
	uc, repo, _, _ := newBrowseFixture()

	_, err := uc.Search(context.Background(), "   ")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Empty(t, repo.projections)

	_, err = uc.Search(context.Background(), " beat ")
	require.NoError(t, err)
	assert.Equal(t, "beat", repo.last().Criteria.Search)
}

func TestBrowse_Filters(t *testing.T) {
	uc, repo, _, _ := newBrowseFixture()
	ctx := context.Background()

	_, err := uc.ByArtist(ctx, "Queen")
	require.NoError(t, err)
	assert.Equal(t, "Queen", repo.last().Criteria.Artist)

	_, err = uc.ByGenre(ctx, "Rock")
	require.NoError(t, err)
	assert.Equal(t, "Rock", repo.last().Criteria.Genre)

	albumID := primitive.NewObjectID()
	_, err = uc.ByAlbum(ctx, albumID.Hex())
	require.NoError(t, err)
	assert.Equal(t, albumID, *repo.last().Criteria.AlbumID)

	_, err = uc.ByYear(ctx, "1975")
	require.NoError(t, err)
	assert.Equal(t, 1975, *repo.last().Criteria.AlbumYear)

	_, err = uc.ByYear(ctx, "last year")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	_, err = uc.ByAlbum(ctx, "bad")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestBrowse_Random(t *testing.T) {
	uc, repo, _, _ := newBrowseFixture()

	_, err := uc.Random(context.Background())
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	repo.sample = []catalog_models.SongView{{Song: catalog_models.Song{Title: "lucky"}}}
	song, err := uc.Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lucky", song.Title)
}

func TestBrowse_ByID(t *testing.T) {
	uc, repo, _, _ := newBrowseFixture()

	_, err := uc.ByID(context.Background(), primitive.NewObjectID().Hex())
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	repo.err = errors.New("socket closed")
	_, err = uc.ByID(context.Background(), primitive.NewObjectID().Hex())
	assert.True(t, domain.IsKind(err, domain.KindRepository))
}

func TestBrowse_GetAlbumKeepsIndexOrder(t *testing.T) {
	uc, _, store, _ := newBrowseFixture()
	album := store.seedAlbum("Blue", 2001)
	first := store.seedSong("first", &album.ID)
	second := store.seedSong("second", &album.ID)

	// 反向索引顺序与插入顺序相反，并包含一个悬空ID
	store.mu.Lock()
	store.albums[album.ID].Songs = []primitive.ObjectID{second.ID, primitive.NewObjectID(), first.ID}
	store.mu.Unlock()

	view, err := uc.GetAlbum(context.Background(), album.ID.Hex())
	require.NoError(t, err)
	require.Len(t, view.Songs, 2)
	assert.Equal(t, "second", view.Songs[0].Title)
	assert.Equal(t, "first", view.Songs[1].Title)

	_, err = uc.GetAlbum(context.Background(), primitive.NewObjectID().Hex())
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestBrowse_ListAlbums(t *testing.T) {
	uc, _, store, _ := newBrowseFixture()
	store.seedAlbum("A", 2000)
	store.seedAlbum("B", 2001)

	albums, err := uc.ListAlbums(context.Background())
	require.NoError(t, err)
	assert.Len(t, albums, 2)
}
