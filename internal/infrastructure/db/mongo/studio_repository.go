package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/otakulist/watchlist-api/internal/core/domain"
)

const collectionStudios = "studios"

// StudioRepository implements ports.StudioRepository on MongoDB. The unique
// name index enforces global name uniqueness at the storage level.
type StudioRepository struct {
	col *mongo.Collection
}

func NewStudioRepository(db *mongo.Database) *StudioRepository {
	return &StudioRepository{col: db.Collection(collectionStudios)}
}

type mongoStudio struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (s mongoStudio) toDomain() *domain.Studio {
	return &domain.Studio{
		ID:        s.ID.Hex(),
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (r *StudioRepository) Create(ctx context.Context, studio *domain.Studio) (*domain.Studio, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoStudio{Name: studio.Name, CreatedAt: studio.CreatedAt, UpdatedAt: studio.UpdatedAt}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateName, studio.Name)
		}
		return nil, fmt.Errorf("insert studio: %w", err)
	}

	created := *studio
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *StudioRepository) FindAll(ctx context.Context) ([]*domain.Studio, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find studios: %w", err)
	}
	defer cursor.Close(ctx)

	studios := make([]*domain.Studio, 0)
	for cursor.Next(ctx) {
		var ms mongoStudio
		if err := cursor.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode studio: %w", err)
		}
		studios = append(studios, ms.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("studio cursor: %w", err)
	}
	return studios, nil
}

func (r *StudioRepository) FindByID(ctx context.Context, id string) (*domain.Studio, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: studio %s", domain.ErrNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoStudio
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: studio %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("find studio: %w", err)
	}
	return ms.toDomain(), nil
}

// ExistsByName uses an exact, case-sensitive comparison, the same rule the
// unique index applies.
func (r *StudioRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return false, fmt.Errorf("count studios: %w", err)
	}
	return n > 0, nil
}

func (r *StudioRepository) Update(ctx context.Context, studio *domain.Studio) (*domain.Studio, error) {
	oid, err := primitive.ObjectIDFromHex(studio.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: studio %s", domain.ErrNotFound, studio.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoStudio{ID: oid, Name: studio.Name, CreatedAt: studio.CreatedAt, UpdatedAt: studio.UpdatedAt}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateName, studio.Name)
		}
		return nil, fmt.Errorf("replace studio: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: studio %s", domain.ErrNotFound, studio.ID)
	}
	return studio, nil
}

func (r *StudioRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: studio %s", domain.ErrNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete studio: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: studio %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *StudioRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: uniqueIndex(),
	})
	return err
}
