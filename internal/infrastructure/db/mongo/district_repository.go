package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/obralink/obra-monitor/internal/core/domain"
)

const collectionDistricts = "districts"

type DistrictRepository struct {
	col *mongo.Collection
}

func NewDistrictRepository(db *mongo.Database) *DistrictRepository {
	return &DistrictRepository{col: db.Collection(collectionDistricts)}
}

// Create inserts a new district document, assigning a fresh id.
func (r *DistrictRepository) Create(ctx context.Context, d *domain.District) (*domain.District, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// FindByID retrieves a district by id.
func (r *DistrictRepository) FindByID(ctx context.Context, id string) (*domain.District, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.District
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDistrictNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns all districts sorted by name.
func (r *DistrictRepository) List(ctx context.Context) ([]domain.District, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var districts []domain.District
	if err := cur.All(ctx, &districts); err != nil {
		return nil, err
	}
	return districts, nil
}

// Update replaces the full district document.
func (r *DistrictRepository) Update(ctx context.Context, d *domain.District) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrDistrictNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the districts collection.
func (r *DistrictRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
