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

const collectionManga = "manga"

// MangaRepository implements ports.MangaRepository on MongoDB, with the same
// (user_id, title) unique-index backstop as AnimeRepository.
type MangaRepository struct {
	col *mongo.Collection
}

func NewMangaRepository(db *mongo.Database) *MangaRepository {
	return &MangaRepository{col: db.Collection(collectionManga)}
}

type mongoManga struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Status     string             `bson:"status"`
	Rating     *int               `bson:"rating,omitempty"`
	IsFavorite bool               `bson:"is_favorite"`
	UserID     string             `bson:"user_id"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (m mongoManga) toDomain() *domain.Manga {
	return &domain.Manga{
		ID:         m.ID.Hex(),
		Title:      m.Title,
		Status:     domain.MangaStatus(m.Status),
		Rating:     m.Rating,
		IsFavorite: m.IsFavorite,
		UserID:     m.UserID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func mangaDoc(m *domain.Manga) mongoManga {
	return mongoManga{
		Title:      m.Title,
		Status:     string(m.Status),
		Rating:     m.Rating,
		IsFavorite: m.IsFavorite,
		UserID:     m.UserID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (r *MangaRepository) Create(ctx context.Context, manga *domain.Manga) (*domain.Manga, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mangaDoc(manga))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, manga.Title)
		}
		return nil, fmt.Errorf("insert manga: %w", err)
	}

	created := *manga
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MangaRepository) FindByID(ctx context.Context, id string) (*domain.Manga, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: manga %s", domain.ErrNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mm mongoManga
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mm); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: manga %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("find manga: %w", err)
	}
	return mm.toDomain(), nil
}

func (r *MangaRepository) FindPageByUser(ctx context.Context, userID string, page ports.PageQuery) ([]*domain.Manga, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count manga: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: page.Sort.Field, Value: sortDir(page.Sort)}}).
		SetSkip(int64(page.Page) * int64(page.Size)).
		SetLimit(int64(page.Size))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find manga page: %w", err)
	}
	items, err := decodeManga(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MangaRepository) FindAllByFilter(ctx context.Context, f ports.MangaFilter) ([]*domain.Manga, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": f.UserID}
	if f.Title != "" {
		filter["title"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(f.Title), Options: "i"}}
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

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("search manga: %w", err)
	}
	return decodeManga(ctx, cursor)
}

func (r *MangaRepository) ExistsByTitleAndUser(ctx context.Context, title, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "title": title})
	if err != nil {
		return false, fmt.Errorf("count manga titles: %w", err)
	}
	return n > 0, nil
}

func (r *MangaRepository) Update(ctx context.Context, manga *domain.Manga) (*domain.Manga, error) {
	oid, err := primitive.ObjectIDFromHex(manga.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: manga %s", domain.ErrNotFound, manga.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mangaDoc(manga)
	doc.ID = oid

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, manga.Title)
		}
		return nil, fmt.Errorf("replace manga: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: manga %s", domain.ErrNotFound, manga.ID)
	}
	return manga, nil
}

func (r *MangaRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: manga %s", domain.ErrNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete manga: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: manga %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *MangaRepository) AverageRatingByUser(ctx context.Context, userID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID, "rating": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "mean": bson.M{"$avg": "$rating"}}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate manga rating: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Mean float64 `bson:"mean"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("decode manga rating: %w", err)
		}
	}
	return result.Mean, nil
}

func (r *MangaRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "title", Value: 1}},
		Options: uniqueIndex(),
	})
	return err
}

func decodeManga(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Manga, error) {
	defer cursor.Close(ctx)

	items := make([]*domain.Manga, 0)
	for cursor.Next(ctx) {
		var mm mongoManga
		if err := cursor.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode manga: %w", err)
		}
		items = append(items, mm.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("manga cursor: %w", err)
	}
	return items, nil
}
