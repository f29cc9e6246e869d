package repository_catalog

import (
	"context"
	"fmt"
	"regexp"

	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"github.com/listny/listny-backend/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type browseRepository struct {
	db              mongo.Database
	collection      string
	albumCollection string
}

func NewBrowseRepository(db mongo.Database, collection, albumCollection string) catalog_interface.BrowseRepository {
	return &browseRepository{
		db:              db,
		collection:      collection,
		albumCollection: albumCollection,
	}
}

func (r *browseRepository) FindSongs(
	ctx context.Context,
	projection catalog_models.SongProjection,
) ([]catalog_models.SongView, error) {
	return r.aggregate(ctx, buildSongPipeline(r.albumCollection, projection))
}

func (r *browseRepository) GetSong(ctx context.Context, id primitive.ObjectID) (*catalog_models.SongView, error) {
	pipeline := []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		{{Key: "$limit", Value: 1}},
	}
	pipeline = append(pipeline, albumJoinStages(r.albumCollection)...)

	results, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// SampleSongs 均匀随机抽样
func (r *browseRepository) SampleSongs(ctx context.Context, size int) ([]catalog_models.SongView, error) {
	pipeline := []bson.D{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: size}}}},
	}
	pipeline = append(pipeline, albumJoinStages(r.albumCollection)...)
	return r.aggregate(ctx, pipeline)
}

func (r *browseRepository) aggregate(ctx context.Context, pipeline []bson.D) ([]catalog_models.SongView, error) {
	coll := r.db.Collection(r.collection)
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]catalog_models.SongView, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	return results, nil
}

// buildSongPipeline 歌曲字段上的过滤先于关联，专辑年份过滤只能在关联之后
func buildSongPipeline(albumCollection string, projection catalog_models.SongProjection) []bson.D {
	pipeline := make([]bson.D, 0, 6)

	if match := buildSongMatch(projection.Criteria); len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}

	pipeline = append(pipeline, albumJoinStages(albumCollection)...)

	if projection.Criteria.AlbumYear != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: "album.releaseYear", Value: *projection.Criteria.AlbumYear},
		}}})
	}

	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: domain.SortDocument(projection.Sort)}})

	if projection.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: projection.Limit}})
	}

	return pipeline
}

func buildSongMatch(criteria catalog_models.SongCriteria) bson.D {
	match := bson.D{}

	if criteria.Featured != nil {
		match = append(match, bson.E{Key: "isFeatured", Value: *criteria.Featured})
	}
	if criteria.Artist != "" {
		match = append(match, bson.E{Key: "artist", Value: criteria.Artist})
	}
	if criteria.Genre != "" {
		match = append(match, bson.E{Key: "genre", Value: criteria.Genre})
	}
	if criteria.AlbumID != nil {
		match = append(match, bson.E{Key: "albumId", Value: *criteria.AlbumID})
	}
	if criteria.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(criteria.Search), Options: "i"}
		match = append(match, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: pattern}},
			bson.D{{Key: "artist", Value: pattern}},
		}})
	}

	return match
}

// albumJoinStages 只读关联专辑，歌曲没有专辑或专辑已删除时 album 缺省
func albumJoinStages(albumCollection string) []bson.D {
	return []bson.D{
		{
			{Key: "$lookup", Value: bson.D{
				{Key: "from", Value: albumCollection},
				{Key: "localField", Value: "albumId"},
				{Key: "foreignField", Value: "_id"},
				{Key: "as", Value: "album"},
			}},
		},
		{
			{Key: "$unwind", Value: bson.D{
				{Key: "path", Value: "$album"},
				{Key: "preserveNullAndEmptyArrays", Value: true},
			}},
		},
		{
			{Key: "$project", Value: bson.D{
				{Key: "album.songs", Value: 0},
				{Key: "album.imageAsset", Value: 0},
			}},
		},
	}
}
