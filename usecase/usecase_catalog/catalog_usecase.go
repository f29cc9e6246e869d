package usecase_catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"github.com/listny/listny-backend/usecase"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type CatalogUsecase struct {
	songs     catalog_interface.SongRepository
	albums    catalog_interface.AlbumRepository
	media     catalog_interface.MediaStore
	inspector catalog_interface.MediaInspector
	cache     catalog_interface.BrowseCache
	timeout   time.Duration
	logger    *slog.Logger
}

func NewCatalogUsecase(
	songs catalog_interface.SongRepository,
	albums catalog_interface.AlbumRepository,
	media catalog_interface.MediaStore,
	inspector catalog_interface.MediaInspector,
	cache catalog_interface.BrowseCache,
	timeout time.Duration,
	logger *slog.Logger,
) catalog_interface.CatalogUsecase {
	return &CatalogUsecase{
		songs:     songs,
		albums:    albums,
		media:     media,
		inspector: inspector,
		cache:     cache,
		timeout:   timeout,
		logger:    logger,
	}
}

// CreateSong 上传音频与封面后写入歌曲，再把歌曲追加到专辑的反向索引。
// 反向索引更新失败时歌曲保留，同时返回歌曲和 PartialFailure。
// 上传只受媒体存储自身的单次调用超时约束；上传完成后的步骤与请求取消解耦
func (uc *CatalogUsecase) CreateSong(
	ctx context.Context,
	input catalog_models.SongInput,
	files catalog_models.SongFiles,
) (*catalog_models.Song, error) {
	title := normalizeText(input.Title)
	artist := normalizeText(input.Artist)
	if title == "" || artist == "" {
		return nil, domain.Validation("title and artist are required")
	}
	if input.Duration < 0 {
		return nil, domain.Validation("duration must not be negative")
	}
	if files.Audio == nil || files.Image == nil {
		return nil, domain.Validation("Please upload all files")
	}

	var albumID *primitive.ObjectID
	if raw := strings.TrimSpace(input.AlbumID); raw != "" {
		id, err := usecase.ParseObjectID("albumId", raw)
		if err != nil {
			return nil, err
		}
		stepCtx, cancel := uc.step(ctx)
		exists, err := uc.albums.Exists(stepCtx, id)
		cancel()
		if err != nil {
			return nil, domain.Repository(err, "failed to look up album")
		}
		if !exists {
			return nil, domain.NotFound("album %s not found", raw)
		}
		albumID = &id
	}

	audioMeta, err := uc.inspector.Inspect(catalog_models.MediaKindAudio, files.Audio)
	if err != nil {
		return nil, domain.Validation("invalid audio file: %v", err)
	}
	imageMeta, err := uc.inspector.Inspect(catalog_models.MediaKindImage, files.Image)
	if err != nil {
		return nil, domain.Validation("invalid image file: %v", err)
	}

	genre := normalizeText(input.Genre)
	if genre == "" {
		genre = uc.genreFromTags(files.Audio)
	}

	audio, image, err := uc.uploadPair(ctx, files.Audio, files.Image)
	if err != nil {
		return nil, err
	}
	mergeInspection(audio, audioMeta)
	mergeInspection(image, imageMeta)

	// 媒体已上传，后续写入和补偿不能随请求一起取消
	work := context.WithoutCancel(ctx)

	song := &catalog_models.Song{
		Title:      title,
		Artist:     artist,
		Duration:   input.Duration,
		Genre:      genre,
		IsFeatured: input.IsFeatured,
		AudioURL:   audio.URL,
		ImageURL:   image.URL,
		AudioAsset: audio,
		ImageAsset: image,
		AlbumID:    albumID,
	}

	stepCtx, cancel := uc.step(work)
	err = uc.songs.Insert(stepCtx, song)
	cancel()
	if err != nil {
		// 主记录未写入，已上传的媒体没有引用者
		uc.deleteMedia(work, catalog_models.MediaKindAudio, audio.URL, audio)
		uc.deleteMedia(work, catalog_models.MediaKindImage, image.URL, image)
		return nil, domain.Repository(err, "failed to save song")
	}
	uc.invalidate(work)

	if albumID != nil {
		stepCtx, cancel := uc.step(work)
		matched, err := uc.albums.AddSong(stepCtx, *albumID, song.ID)
		cancel()
		if err != nil || !matched {
			partial := domain.PartialFailure(err, "song created but album index update failed").
				WithDetail("song_id", song.ID.Hex()).
				WithDetail("album_id", albumID.Hex())
			if err == nil {
				partial.WithDetail("reason", "album no longer exists")
			}
			uc.logger.Error("专辑反向索引追加失败",
				"song_id", song.ID.Hex(),
				"album_id", albumID.Hex(),
				"error", partial.Error(),
			)
			return song, partial
		}
	}

	uc.logger.Info("歌曲已创建", "song_id", song.ID.Hex(), "title", song.Title)
	return song, nil
}

// uploadPair 并发上传音频与封面；任一失败时删除另一侧已成功的上传。
// 补偿删除不继承请求的取消和截止时间
func (uc *CatalogUsecase) uploadPair(
	ctx context.Context,
	audioFile, imageFile *catalog_models.MediaFile,
) (*catalog_models.MediaAsset, *catalog_models.MediaAsset, error) {
	var audio, image *catalog_models.MediaAsset

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		asset, err := uc.media.Upload(gctx, catalog_models.MediaKindAudio, audioFile)
		if err != nil {
			return err
		}
		audio = asset
		return nil
	})
	g.Go(func() error {
		asset, err := uc.media.Upload(gctx, catalog_models.MediaKindImage, imageFile)
		if err != nil {
			return err
		}
		image = asset
		return nil
	})

	if err := g.Wait(); err != nil {
		cleanup := context.WithoutCancel(ctx)
		if audio != nil {
			uc.deleteMedia(cleanup, catalog_models.MediaKindAudio, audio.URL, audio)
		}
		if image != nil {
			uc.deleteMedia(cleanup, catalog_models.MediaKindImage, image.URL, image)
		}
		return nil, nil, domain.MediaUpload(err, "media upload failed")
	}
	return audio, image, nil
}

// DeleteSong 顺序：媒体（尽力而为）→ 专辑反向索引 → 歌曲记录。
// 反向索引移除失败时中止并保留记录，重新执行即可完成。
// 每个仓库步骤单独计时，整个流程不随请求取消
func (uc *CatalogUsecase) DeleteSong(ctx context.Context, id string) error {
	songID, err := usecase.ParseObjectID("song id", id)
	if err != nil {
		return err
	}

	stepCtx, cancel := uc.step(ctx)
	song, err := uc.songs.GetByID(stepCtx, songID)
	cancel()
	if err != nil {
		return domain.Repository(err, "failed to load song")
	}
	if song == nil {
		return domain.NotFound("song %s not found", id)
	}

	work := context.WithoutCancel(ctx)
	uc.deleteMedia(work, catalog_models.MediaKindAudio, song.AudioURL, song.AudioAsset)
	uc.deleteMedia(work, catalog_models.MediaKindImage, song.ImageURL, song.ImageAsset)

	if song.AlbumID != nil {
		stepCtx, cancel := uc.step(work)
		matched, err := uc.albums.RemoveSong(stepCtx, *song.AlbumID, songID)
		cancel()
		if err != nil {
			partial := domain.PartialFailure(err, "failed to detach song from album").
				WithDetail("song_id", songID.Hex()).
				WithDetail("album_id", song.AlbumID.Hex())
			uc.logger.Error("专辑反向索引移除失败",
				"song_id", songID.Hex(),
				"album_id", song.AlbumID.Hex(),
				"error", err.Error(),
			)
			return partial
		}
		if !matched {
			uc.logger.Warn("歌曲引用的专辑不存在", "song_id", songID.Hex(), "album_id", song.AlbumID.Hex())
		}
	}

	stepCtx, cancel = uc.step(work)
	deleted, err := uc.songs.DeleteByID(stepCtx, songID)
	cancel()
	if err != nil {
		return domain.Repository(err, "failed to delete song")
	}
	if !deleted {
		return domain.NotFound("song %s not found", id)
	}
	uc.invalidate(work)

	uc.logger.Info("歌曲已删除", "song_id", songID.Hex())
	return nil
}

// CreateAlbum 上传封面后写入专辑，songs 初始为空
func (uc *CatalogUsecase) CreateAlbum(
	ctx context.Context,
	input catalog_models.AlbumInput,
	cover *catalog_models.MediaFile,
) (*catalog_models.Album, error) {
	title := normalizeText(input.Title)
	artist := normalizeText(input.Artist)
	if title == "" || artist == "" {
		return nil, domain.Validation("title and artist are required")
	}
	if strings.TrimSpace(input.ReleaseYear) == "" {
		return nil, domain.Validation("releaseYear is required")
	}
	year, err := parseYear(input.ReleaseYear)
	if err != nil {
		return nil, err
	}
	if cover == nil {
		return nil, domain.Validation("Please upload an image")
	}

	coverMeta, err := uc.inspector.Inspect(catalog_models.MediaKindImage, cover)
	if err != nil {
		return nil, domain.Validation("invalid image file: %v", err)
	}

	asset, err := uc.media.Upload(ctx, catalog_models.MediaKindImage, cover)
	if err != nil {
		return nil, domain.MediaUpload(err, "media upload failed")
	}
	mergeInspection(asset, coverMeta)

	album := &catalog_models.Album{
		Title:       title,
		Artist:      artist,
		ReleaseYear: year,
		ImageURL:    asset.URL,
		ImageAsset:  asset,
		Songs:       []primitive.ObjectID{},
	}
	work := context.WithoutCancel(ctx)
	stepCtx, cancel := uc.step(work)
	err = uc.albums.Insert(stepCtx, album)
	cancel()
	if err != nil {
		uc.deleteMedia(work, catalog_models.MediaKindImage, asset.URL, asset)
		return nil, domain.Repository(err, "failed to save album")
	}

	uc.logger.Info("专辑已创建", "album_id", album.ID.Hex(), "title", album.Title)
	return album, nil
}

// DeleteAlbum 级联删除：封面 → 枚举成员歌曲 → 每首歌的媒体 → 批量删除歌曲 → 专辑。
// 枚举失败中止全部后续步骤；媒体删除失败只计数。
// 没有整体截止时间：仓库步骤各自计时，媒体删除使用存储的单次超时
func (uc *CatalogUsecase) DeleteAlbum(ctx context.Context, id string) (*catalog_models.AlbumDeleteReport, error) {
	albumID, err := usecase.ParseObjectID("album id", id)
	if err != nil {
		return nil, err
	}

	stepCtx, cancel := uc.step(ctx)
	album, err := uc.albums.GetByID(stepCtx, albumID)
	cancel()
	if err != nil {
		return nil, domain.Repository(err, "failed to load album")
	}
	if album == nil {
		return nil, domain.NotFound("album %s not found", id)
	}

	report := &catalog_models.AlbumDeleteReport{AlbumID: albumID.Hex()}
	tally := func(ok bool) {
		if ok {
			report.MediaDeleted++
		} else {
			report.MediaFailures++
		}
	}

	work := context.WithoutCancel(ctx)
	tally(uc.deleteMedia(work, catalog_models.MediaKindImage, album.ImageURL, album.ImageAsset))

	stepCtx, cancel = uc.step(work)
	members, err := uc.songs.FindByAlbum(stepCtx, albumID)
	cancel()
	if err != nil {
		return nil, domain.Repository(err, "failed to enumerate album songs").
			WithDetail("album_id", albumID.Hex())
	}

	ids := make([]primitive.ObjectID, 0, len(members))
	for _, song := range members {
		tally(uc.deleteMedia(work, catalog_models.MediaKindAudio, song.AudioURL, song.AudioAsset))
		tally(uc.deleteMedia(work, catalog_models.MediaKindImage, song.ImageURL, song.ImageAsset))
		ids = append(ids, song.ID)
	}

	stepCtx, cancel = uc.step(work)
	deleted, err := uc.songs.DeleteByIDs(stepCtx, ids)
	cancel()
	if err != nil {
		return nil, domain.Repository(err, "failed to delete album songs").
			WithDetail("album_id", albumID.Hex())
	}
	report.DeletedSongs = deleted

	stepCtx, cancel = uc.step(work)
	_, err = uc.albums.DeleteByID(stepCtx, albumID)
	cancel()
	if err != nil {
		return nil, domain.Repository(err, "failed to delete album").
			WithDetail("album_id", albumID.Hex())
	}
	uc.invalidate(work)

	uc.logger.Info("专辑已删除",
		"album_id", report.AlbumID,
		"deleted_songs", report.DeletedSongs,
		"media_deleted", report.MediaDeleted,
		"media_failures", report.MediaFailures,
	)
	return report, nil
}

// deleteMedia 尽力删除，失败只记录日志；返回是否确认删除
func (uc *CatalogUsecase) deleteMedia(
	ctx context.Context,
	kind catalog_models.MediaKind,
	url string,
	asset *catalog_models.MediaAsset,
) bool {
	ref, ok := uc.media.Resolve(kind, url, asset)
	if !ok {
		err := domain.MediaDelete(nil, "cannot resolve media identifier").WithDetail("url", url)
		uc.logger.Warn("媒体删除跳过", "kind", string(kind), "error", err.Error())
		return false
	}
	if err := uc.media.Delete(ctx, ref); err != nil {
		derr := domain.MediaDelete(err, "media delete failed").WithDetail("public_id", ref.PublicID)
		uc.logger.Warn("媒体删除失败", "kind", string(kind), "public_id", ref.PublicID, "error", derr.Error())
		return false
	}
	return true
}

// genreFromTags 读取音频内嵌流派，读不到时为空
func (uc *CatalogUsecase) genreFromTags(audio *catalog_models.MediaFile) string {
	tags, err := uc.inspector.ReadAudioTags(audio)
	if err != nil {
		uc.logger.Debug("音频标签不可读", "file", audio.Filename, "error", err.Error())
		return ""
	}
	return normalizeText(tags.Genre)
}

// step 单个仓库调用的超时
func (uc *CatalogUsecase) step(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, uc.timeout)
}

func (uc *CatalogUsecase) invalidate(ctx context.Context) {
	ctx, cancel := uc.step(ctx)
	defer cancel()
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("浏览缓存失效失败", "error", err.Error())
	}
}

func mergeInspection(asset, inspected *catalog_models.MediaAsset) {
	if inspected == nil {
		return
	}
	asset.ContentType = inspected.ContentType
	asset.Checksum = inspected.Checksum
	if asset.Size == 0 {
		asset.Size = inspected.Size
	}
}
