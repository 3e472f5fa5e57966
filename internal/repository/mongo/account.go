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

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/repository"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique
// index.
var ErrDuplicate = errors.New("duplicate key")

type accountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) repository.AccountRepository {
	return &accountRepository{coll: db.Collection(accountsCollection)}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	account.CreatedAt = time.Now().UTC()
	res, err := r.coll.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		account.ID = oid
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id primitive.ObjectID) (*model.Account, error) {
	var account model.Account
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": account.ID}, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer cursor.Close(ctx)

	var accounts []*model.Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) ListDoctors(ctx context.Context) ([]*model.DoctorRef, error) {
	filter := bson.M{"role": model.RoleDoctor, "isActive": true}
	opts := options.Find().
		SetProjection(bson.M{"name": 1, "specialization": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var doctors []*model.DoctorRef
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}
	return doctors, nil
}

func (r *accountRepository) RecordLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastLogin": at}})
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}
