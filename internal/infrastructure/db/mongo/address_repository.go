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

const addressesCollection = "addresses"

type AddressRepository struct {
	coll *mongo.Collection
}

func NewAddressRepository(db *mongo.Database) *AddressRepository {
	return &AddressRepository{coll: db.Collection(addressesCollection)}
}

type addressDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	Street     string             `bson:"street"`
	Complement string             `bson:"complement"`
	District   string             `bson:"district"`
	City       string             `bson:"city"`
	State      string             `bson:"state"`
	PostalCode string             `bson:"postal_code"`
}

func toAddressDoc(a *domain.Address) addressDoc {
	return addressDoc{
		UserID:     a.UserID,
		Street:     a.Street,
		Complement: a.Complement,
		District:   a.District,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
	}
}

func (d addressDoc) toDomain() domain.Address {
	return domain.Address{
		ID:         d.ID.Hex(),
		UserID:     d.UserID,
		Street:     d.Street,
		Complement: d.Complement,
		District:   d.District,
		City:       d.City,
		State:      d.State,
		PostalCode: d.PostalCode,
	}
}

func (r *AddressRepository) Create(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toAddressDoc(address))
	if err != nil {
		return nil, fmt.Errorf("insert address: %w", err)
	}

	created := *address
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AddressRepository) FindByID(ctx context.Context, id string) (*domain.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAddressNotFound
	}

	var doc addressDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAddressNotFound
		}
		return nil, fmt.Errorf("find address: %w", err)
	}

	out := doc.toDomain()
	return &out, nil
}

func (r *AddressRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("find addresses: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Address
	for cur.Next(ctx) {
		var doc addressDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	return out, nil
}

func (r *AddressRepository) Update(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(address.ID)
	if err != nil {
		return nil, domain.ErrAddressNotFound
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toAddressDoc(address))
	if err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrAddressNotFound
	}
	return address, nil
}

func (r *AddressRepository) DeleteByUserID(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("delete addresses: %w", err)
	}
	return nil
}

// EnsureIndexes creates the owner index used by FindByUserID and the
// user-deletion cascade.
func (r *AddressRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	return err
}
