package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/targetcar/user-system/internal/core/domain"
)

const phonesCollection = "phones"

type PhoneRepository struct {
	coll *mongo.Collection
}

func NewPhoneRepository(db *mongo.Database) *PhoneRepository {
	return &PhoneRepository{coll: db.Collection(phonesCollection)}
}

type phoneDoc struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID string             `bson:"user_id"`
	Number string             `bson:"number"`
	DDD    string             `bson:"ddd"`
}

func toPhoneDoc(p *domain.Phone) phoneDoc {
	return phoneDoc{
		UserID: p.UserID,
		Number: p.Number,
		DDD:    p.DDD,
	}
}

func (d phoneDoc) toDomain() domain.Phone {
	return domain.Phone{
		ID:     d.ID.Hex(),
		UserID: d.UserID,
		Number: d.Number,
		DDD:    d.DDD,
	}
}

func (r *PhoneRepository) Create(ctx context.Context, phone *domain.Phone) (*domain.Phone, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toPhoneDoc(phone))
	if err != nil {
		return nil, fmt.Errorf("insert phone: %w", err)
	}

	created := *phone
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PhoneRepository) FindByID(ctx context.Context, id string) (*domain.Phone, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPhoneNotFound
	}

	var doc phoneDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPhoneNotFound
		}
		return nil, fmt.Errorf("find phone: %w", err)
	}

	out := doc.toDomain()
	return &out, nil
}

func (r *PhoneRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Phone, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("find phones: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Phone
	for cur.Next(ctx) {
		var doc phoneDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode phone: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate phones: %w", err)
	}
	return out, nil
}

func (r *PhoneRepository) Update(ctx context.Context, phone *domain.Phone) (*domain.Phone, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(phone.ID)
	if err != nil {
		return nil, domain.ErrPhoneNotFound
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toPhoneDoc(phone))
	if err != nil {
		return nil, fmt.Errorf("update phone: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrPhoneNotFound
	}
	return phone, nil
}

func (r *PhoneRepository) DeleteByUserID(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("delete phones: %w", err)
	}
	return nil
}

// EnsureIndexes creates the owner index used by FindByUserID and the
// user-deletion cascade.
func (r *PhoneRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	return err
}
