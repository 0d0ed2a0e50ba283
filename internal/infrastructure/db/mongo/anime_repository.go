package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/otakulist/watchlist-api/internal/core/domain"
	"github.com/otakulist/watchlist-api/internal/core/ports"
)

const collectionAnime = "anime"

// AnimeRepository implements ports.AnimeRepository on MongoDB. The unique
// compound index on (user_id, title) is the storage-level backstop for the
// service-layer uniqueness check.
type AnimeRepository struct {
	col *mongo.Collection
}

func NewAnimeRepository(db *mongo.Database) *AnimeRepository {
	return &AnimeRepository{col: db.Collection(collectionAnime)}
}

type mongoAnime struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Type       string             `bson:"type"`
	Status     string             `bson:"status"`
	Rating     *int               `bson:"rating,omitempty"`
	IsFavorite bool               `bson:"is_favorite"`
	IsComplete bool               `bson:"is_complete"`
	StudioID   string             `bson:"studio_id"`
	UserID     string             `bson:"user_id"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (a mongoAnime) toDomain() *domain.Anime {
	return &domain.Anime{
		ID:         a.ID.Hex(),
		Title:      a.Title,
		Type:       domain.AnimeType(a.Type),
		Status:     domain.AnimeStatus(a.Status),
		Rating:     a.Rating,
		IsFavorite: a.IsFavorite,
		IsComplete: a.IsComplete,
		StudioID:   a.StudioID,
		UserID:     a.UserID,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func animeDoc(a *domain.Anime) mongoAnime {
	return mongoAnime{
		Title:      a.Title,
		Type:       string(a.Type),
		Status:     string(a.Status),
		Rating:     a.Rating,
		IsFavorite: a.IsFavorite,
		IsComplete: a.IsComplete,
		StudioID:   a.StudioID,
		UserID:     a.UserID,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (r *AnimeRepository) Create(ctx context.Context, anime *domain.Anime) (*domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, animeDoc(anime))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, anime.Title)
		}
		return nil, fmt.Errorf("insert anime: %w", err)
	}

	created := *anime
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AnimeRepository) FindByID(ctx context.Context, id string) (*domain.Anime, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: anime %s", domain.ErrNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAnime
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: anime %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("find anime: %w", err)
	}
	return ma.toDomain(), nil
}

// FindPageByUser returns one page of a user's entries plus the total count.
// The owner predicate is part of the query, so no page window can return
// cross-owner rows.
func (r *AnimeRepository) FindPageByUser(ctx context.Context, userID string, page ports.PageQuery) ([]*domain.Anime, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count anime: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: page.Sort.Field, Value: sortDir(page.Sort)}}).
		SetSkip(int64(page.Page) * int64(page.Size)).
		SetLimit(int64(page.Size))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find anime page: %w", err)
	}
	items, err := decodeAnime(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindAllByFilter composes the optional search predicates into a single
// query. Each predicate is added only when its input is present; an omitted
// predicate is absent from the query entirely, not a match-anything clause.
func (r *AnimeRepository) FindAllByFilter(ctx context.Context, f ports.AnimeFilter) ([]*domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": f.UserID}
	if f.Title != "" {
		filter["title"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(f.Title), Options: "i"}}
	}
	if f.Type != nil {
		filter["type"] = string(*f.Type)
	}
	if f.Status != nil {
		filter["status"] = string(*f.Status)
	}
	if f.Rating != nil {
		filter["rating"] = *f.Rating
	}
	if f.IsFavorite != nil {
		filter["is_favorite"] = *f.IsFavorite
	}
	if f.IsComplete != nil {
		filter["is_complete"] = *f.IsComplete
	}

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("search anime: %w", err)
	}
	return decodeAnime(ctx, cursor)
}

func (r *AnimeRepository) FindByStudioAndUser(ctx context.Context, studioID, userID string) ([]*domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"studio_id": studioID, "user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("find anime by studio: %w", err)
	}
	return decodeAnime(ctx, cursor)
}

// ExistsByTitleAndUser reports whether the owner already uses the title.
// The match is exact and case-sensitive: titles differing only by case are
// distinct.
func (r *AnimeRepository) ExistsByTitleAndUser(ctx context.Context, title, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "title": title})
	if err != nil {
		return false, fmt.Errorf("count anime titles: %w", err)
	}
	return n > 0, nil
}

func (r *AnimeRepository) Update(ctx context.Context, anime *domain.Anime) (*domain.Anime, error) {
	oid, err := primitive.ObjectIDFromHex(anime.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: anime %s", domain.ErrNotFound, anime.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := animeDoc(anime)
	doc.ID = oid

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, anime.Title)
		}
		return nil, fmt.Errorf("replace anime: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: anime %s", domain.ErrNotFound, anime.ID)
	}
	return anime, nil
}

func (r *AnimeRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: anime %s", domain.ErrNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete anime: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: anime %s", domain.ErrNotFound, id)
	}
	return nil
}

// DeleteByStudio removes every entry referencing the studio, across all
// owners. Used by the explicit studio-delete cascade.
func (r *AnimeRepository) DeleteByStudio(ctx context.Context, studioID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"studio_id": studioID}); err != nil {
		return fmt.Errorf("delete anime by studio: %w", err)
	}
	return nil
}

// AverageRatingByUser averages the user's non-nil ratings via an aggregate.
// Entries without a rating are excluded; with no rated entries the result is
// 0.0.
func (r *AnimeRepository) AverageRatingByUser(ctx context.Context, userID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID, "rating": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "mean": bson.M{"$avg": "$rating"}}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate anime rating: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Mean float64 `bson:"mean"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("decode anime rating: %w", err)
		}
	}
	return result.Mean, nil
}

// EnsureIndexes creates the (user_id, title) unique index and the lookup
// indexes used by list and cascade queries.
func (r *AnimeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "title", Value: 1}},
			Options: uniqueIndex(),
		},
		{Keys: bson.D{{Key: "studio_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func sortDir(s ports.SortSpec) int {
	if s.Descending {
		return -1
	}
	return 1
}

func decodeAnime(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Anime, error) {
	defer cursor.Close(ctx)

	items := make([]*domain.Anime, 0)
	for cursor.Next(ctx) {
		var ma mongoAnime
		if err := cursor.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode anime: %w", err)
		}
		items = append(items, ma.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("anime cursor: %w", err)
	}
	return items, nil
}
