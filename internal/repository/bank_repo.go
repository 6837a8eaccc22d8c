package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"qbank/internal/model"
)

// BankRepo handles MongoDB operations for question-bank snapshots
type BankRepo interface {
	Create(ctx context.Context, bank *model.Bank) (string, error)
	GetByID(ctx context.Context, id string) (*model.Bank, error)
	GetByHostID(ctx context.Context, hostID string) ([]*model.Bank, error)
	Update(ctx context.Context, bank *model.Bank) error
	Delete(ctx context.Context, id string) error
}

type bankRepo struct {
	collection *mongo.Collection
}

// NewBankRepo creates a new bank repository
func NewBankRepo(db *mongo.Database) BankRepo {
	return &bankRepo{
		collection: db.Collection("banks"),
	}
}

func (r *bankRepo) Create(ctx context.Context, bank *model.Bank) (string, error) {
	bank.CreatedAt = time.Now()
	bank.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, bank)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *bankRepo) GetByID(ctx context.Context, id string) (*model.Bank, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var bank model.Bank
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&bank)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	bank.ID = id
	return &bank, nil
}

func (r *bankRepo) GetByHostID(ctx context.Context, hostID string) ([]*model.Bank, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"hostId": hostID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var banks []*model.Bank
	if err := cursor.All(ctx, &banks); err != nil {
		return nil, err
	}
	return banks, nil
}

func (r *bankRepo) Update(ctx context.Context, bank *model.Bank) error {
	oid, err := primitive.ObjectIDFromHex(bank.ID)
	if err != nil {
		return err
	}

	bank.UpdatedAt = time.Now()

	// _id is immutable; the replacement document must not carry the hex id
	id := bank.ID
	bank.ID = ""
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, bank)
	bank.ID = id
	return err
}

func (r *bankRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
