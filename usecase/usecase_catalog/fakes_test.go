package usecase_catalog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"github.com/listny/listny-backend/mediastore"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testFolder = "listny"

// memoryCatalog 歌曲与专辑的内存存储，同时实现 SongRepository 与 AlbumRepository 所需的行为
type memoryCatalog struct {
	mu     sync.Mutex
	songs  map[primitive.ObjectID]*catalog_models.Song
	albums map[primitive.ObjectID]*catalog_models.Album

	insertSongErr   error
	insertAlbumErr  error
	addSongErr      error
	removeSongErr   error
	findByAlbumErr  error
	deleteSongsErr  error
	removeSongCalls int
	addSongCalls    int
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{
		songs:  make(map[primitive.ObjectID]*catalog_models.Song),
		albums: make(map[primitive.ObjectID]*catalog_models.Album),
	}
}

func (m *memoryCatalog) songRepo() *memorySongRepo   { return &memorySongRepo{m} }
func (m *memoryCatalog) albumRepo() *memoryAlbumRepo { return &memoryAlbumRepo{m} }

func (m *memoryCatalog) seedAlbum(title string, year int) *catalog_models.Album {
	m.mu.Lock()
	defer m.mu.Unlock()
	album := &catalog_models.Album{
		ID: primitive.NewObjectID(), Title: title, Artist: "Various", ReleaseYear: year,
		ImageURL:   fmt.Sprintf("https://media.test/%s/%s-cover.png", testFolder, title),
		ImageAsset: &catalog_models.MediaAsset{PublicID: testFolder + "/" + title + "-cover", ResourceType: "image"},
		Songs:      []primitive.ObjectID{},
	}
	m.albums[album.ID] = album
	return album
}

func (m *memoryCatalog) seedSong(title string, albumID *primitive.ObjectID) *catalog_models.Song {
	m.mu.Lock()
	defer m.mu.Unlock()
	song := &catalog_models.Song{
		ID: primitive.NewObjectID(), Title: title, Artist: "Artist",
		AudioURL:   fmt.Sprintf("https://media.test/video/upload/v1/%s/%s-audio.mp3", testFolder, title),
		ImageURL:   fmt.Sprintf("https://media.test/image/upload/v1/%s/%s-image.png", testFolder, title),
		AudioAsset: &catalog_models.MediaAsset{PublicID: testFolder + "/" + title + "-audio", ResourceType: "video"},
		ImageAsset: &catalog_models.MediaAsset{PublicID: testFolder + "/" + title + "-image", ResourceType: "image"},
		AlbumID:    albumID,
		CreatedAt:  time.Now(),
	}
	m.songs[song.ID] = song
	if albumID != nil {
		if album, ok := m.albums[*albumID]; ok {
			album.Songs = append(album.Songs, song.ID)
		}
	}
	return song
}

func (m *memoryCatalog) album(id primitive.ObjectID) *catalog_models.Album {
	m.mu.Lock()
	defer m.mu.Unlock()
	album, ok := m.albums[id]
	if !ok {
		return nil
	}
	cp := *album
	cp.Songs = append([]primitive.ObjectID(nil), album.Songs...)
	return &cp
}

func (m *memoryCatalog) hasSong(id primitive.ObjectID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.songs[id]
	return ok
}

func (m *memoryCatalog) songCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.songs)
}

type memorySongRepo struct{ *memoryCatalog }

func (r *memorySongRepo) Insert(ctx context.Context, song *catalog_models.Song) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertSongErr != nil {
		return r.insertSongErr
	}
	song.ID = primitive.NewObjectID()
	song.CreatedAt = time.Now()
	song.UpdatedAt = song.CreatedAt
	cp := *song
	r.songs[song.ID] = &cp
	return nil
}

func (r *memorySongRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.songs[id]; !ok {
		return false, nil
	}
	delete(r.songs, id)
	return true, nil
}

func (r *memorySongRepo) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteSongsErr != nil {
		return 0, r.deleteSongsErr
	}
	var n int64
	for _, id := range ids {
		if _, ok := r.songs[id]; ok {
			delete(r.songs, id)
			n++
		}
	}
	return n, nil
}

func (r *memorySongRepo) GetByID(_ context.Context, id primitive.ObjectID) (*catalog_models.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	song, ok := r.songs[id]
	if !ok {
		return nil, nil
	}
	cp := *song
	return &cp, nil
}

func (r *memorySongRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]*catalog_models.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*catalog_models.Song, 0, len(ids))
	for _, id := range ids {
		if song, ok := r.songs[id]; ok {
			cp := *song
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memorySongRepo) FindByAlbum(ctx context.Context, albumID primitive.ObjectID) ([]*catalog_models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findByAlbumErr != nil {
		return nil, r.findByAlbumErr
	}
	out := make([]*catalog_models.Song, 0)
	for _, song := range r.songs {
		if song.AlbumID != nil && *song.AlbumID == albumID {
			cp := *song
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type memoryAlbumRepo struct{ *memoryCatalog }

func (r *memoryAlbumRepo) Insert(ctx context.Context, album *catalog_models.Album) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertAlbumErr != nil {
		return r.insertAlbumErr
	}
	album.ID = primitive.NewObjectID()
	cp := *album
	r.albums[album.ID] = &cp
	return nil
}

func (r *memoryAlbumRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.albums[id]; !ok {
		return false, nil
	}
	delete(r.albums, id)
	return true, nil
}

func (r *memoryAlbumRepo) GetByID(_ context.Context, id primitive.ObjectID) (*catalog_models.Album, error) {
	return r.album(id), nil
}

func (r *memoryAlbumRepo) List(_ context.Context) ([]*catalog_models.Album, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*catalog_models.Album, 0, len(r.albums))
	for _, album := range r.albums {
		cp := *album
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memoryAlbumRepo) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.albums[id]
	return ok, nil
}

// AddSong 与 $addToSet 语义一致
func (r *memoryAlbumRepo) AddSong(ctx context.Context, albumID, songID primitive.ObjectID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addSongCalls++
	if r.addSongErr != nil {
		return false, r.addSongErr
	}
	album, ok := r.albums[albumID]
	if !ok {
		return false, nil
	}
	for _, id := range album.Songs {
		if id == songID {
			return true, nil
		}
	}
	album.Songs = append(album.Songs, songID)
	return true, nil
}

// RemoveSong 与 $pull 语义一致
func (r *memoryAlbumRepo) RemoveSong(ctx context.Context, albumID, songID primitive.ObjectID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeSongCalls++
	if r.removeSongErr != nil {
		return false, r.removeSongErr
	}
	album, ok := r.albums[albumID]
	if !ok {
		return false, nil
	}
	kept := album.Songs[:0]
	for _, id := range album.Songs {
		if id != songID {
			kept = append(kept, id)
		}
	}
	album.Songs = kept
	return true, nil
}

// memoryMediaStore 记录托管中的资源。延迟期间遵守 ctx 取消，与真实存储的网络调用一致
type memoryMediaStore struct {
	mu            sync.Mutex
	seq           int
	live          map[string]bool
	uploads       int
	deletes       []string
	uploadErr     map[catalog_models.MediaKind]error
	deleteErr     map[string]error
	uploadLatency map[catalog_models.MediaKind]time.Duration
	deleteLatency time.Duration
}

func newMemoryMediaStore() *memoryMediaStore {
	return &memoryMediaStore{
		live:          make(map[string]bool),
		uploadErr:     make(map[catalog_models.MediaKind]error),
		deleteErr:     make(map[string]error),
		uploadLatency: make(map[catalog_models.MediaKind]time.Duration),
	}
}

// wait 模拟网络耗时，ctx 先结束时返回其错误
func wait(ctx context.Context, d time.Duration) error {
	if d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return ctx.Err()
}

func (s *memoryMediaStore) Upload(ctx context.Context, kind catalog_models.MediaKind, file *catalog_models.MediaFile) (*catalog_models.MediaAsset, error) {
	s.mu.Lock()
	latency := s.uploadLatency[kind]
	s.mu.Unlock()
	if err := wait(ctx, latency); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	if err := s.uploadErr[kind]; err != nil {
		return nil, err
	}
	s.seq++
	publicID := fmt.Sprintf("%s/asset%d", testFolder, s.seq)
	s.live[publicID] = true
	return &catalog_models.MediaAsset{
		URL:          fmt.Sprintf("https://media.test/%s%s", publicID, path.Ext(file.Filename)),
		PublicID:     publicID,
		ResourceType: map[catalog_models.MediaKind]string{catalog_models.MediaKindAudio: "video", catalog_models.MediaKindImage: "image"}[kind],
	}, nil
}

func (s *memoryMediaStore) Delete(ctx context.Context, ref catalog_models.MediaRef) error {
	if err := wait(ctx, s.deleteLatency); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, ref.PublicID)
	if err := s.deleteErr[ref.PublicID]; err != nil {
		return err
	}
	delete(s.live, ref.PublicID)
	return nil
}

func (s *memoryMediaStore) Resolve(kind catalog_models.MediaKind, url string, asset *catalog_models.MediaAsset) (catalog_models.MediaRef, bool) {
	if asset != nil && asset.PublicID != "" {
		return catalog_models.MediaRef{PublicID: asset.PublicID, ResourceType: asset.ResourceType}, true
	}
	id, ok := mediastore.DerivePublicID(testFolder, url)
	return catalog_models.MediaRef{PublicID: id}, ok
}

func (s *memoryMediaStore) liveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

func (s *memoryMediaStore) deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deletes...)
}

// extInspector 按扩展名判断媒体种类
type extInspector struct {
	genre string
}

func (i *extInspector) Inspect(kind catalog_models.MediaKind, file *catalog_models.MediaFile) (*catalog_models.MediaAsset, error) {
	ext := path.Ext(file.Filename)
	switch {
	case kind == catalog_models.MediaKindAudio && ext == ".mp3":
		return &catalog_models.MediaAsset{ContentType: "audio/mpeg", Checksum: "c-" + file.Filename}, nil
	case kind == catalog_models.MediaKindImage && ext == ".png":
		return &catalog_models.MediaAsset{ContentType: "image/png", Checksum: "c-" + file.Filename}, nil
	}
	return nil, &mediastore.ErrUnsupportedType{Kind: kind, Detected: ext}
}

func (i *extInspector) ReadAudioTags(*catalog_models.MediaFile) (*catalog_models.AudioTags, error) {
	if i.genre == "" {
		return nil, errors.New("no tags")
	}
	return &catalog_models.AudioTags{Genre: i.genre}, nil
}

// countingCache 只统计失效次数
type countingCache struct {
	mu            sync.Mutex
	entries       map[string][]catalog_models.SongView
	invalidations int
	getErr        error
}

func newCountingCache() *countingCache {
	return &countingCache{entries: make(map[string][]catalog_models.SongView)}
}

func (c *countingCache) Get(_ context.Context, key string) ([]catalog_models.SongView, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *countingCache) Set(_ context.Context, key string, songs []catalog_models.SongView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = songs
	return nil
}

func (c *countingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	c.entries = make(map[string][]catalog_models.SongView)
	return nil
}
