package cartstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tableside/internal/domain"
)

type cartDocument struct {
	ID        string            `bson:"_id,omitempty"`
	Owner     string            `bson:"owner"`
	Items     []domain.CartItem `bson:"items"`
	CreatedAt time.Time         `bson:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection("carts"),
	}
}

func (m *MongoStore) Items(ctx context.Context, owner Owner) ([]domain.CartItem, error) {
	var doc cartDocument

	filter := bson.M{"owner": string(owner)}
	err := m.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return doc.Items, nil
}

func (m *MongoStore) AddItem(ctx context.Context, owner Owner, item domain.CartItem) error {
	now := time.Now()

	filter := bson.M{"owner": string(owner)}
	update := bson.M{
		"$push": bson.M{"items": item},
		"$set":  bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"owner":      string(owner),
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

func (m *MongoStore) UpdateItem(ctx context.Context, owner Owner, itemID string, patch ItemPatch) error {
	now := time.Now()

	set := bson.M{
		"updated_at":               now,
		"items.$[elem].updated_at": now,
	}
	if patch.Quantity != nil {
		set["items.$[elem].quantity"] = *patch.Quantity
	}
	if patch.Customizations != nil {
		set["items.$[elem].customizations"] = *patch.Customizations
	}
	if patch.SpecialInstructions != nil {
		set["items.$[elem].special_instructions"] = *patch.SpecialInstructions
	}

	filter := bson.M{
		"owner":    string(owner),
		"items.id": itemID,
	}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"elem.id": itemID},
		},
	})

	result, err := m.collection.UpdateOne(ctx, filter, bson.M{"$set": set}, arrayFilters)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (m *MongoStore) RemoveItem(ctx context.Context, owner Owner, itemID string) error {
	filter := bson.M{
		"owner":    string(owner),
		"items.id": itemID,
	}
	update := bson.M{
		"$pull": bson.M{
			"items": bson.M{"id": itemID},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (m *MongoStore) Clear(ctx context.Context, owner Owner) error {
	filter := bson.M{"owner": string(owner)}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (m *MongoStore) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
