package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collectionDocument is one collection stored as a MongoDB document keyed by its name.
// The value is kept as JSON text so array- and map-shaped values round-trip unchanged.
type collectionDocument struct {
	Name      string    `bson:"_id"`
	Value     string    `bson:"value"`
	Version   int64     `bson:"version"`
	Origin    string    `bson:"origin"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type changeEvent struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument *collectionDocument `bson:"fullDocument"`
}

// MongoBackend stores collections in one MongoDB collection and follows changes through a
// change stream, which needs a replica set.
type MongoBackend struct {
	coll *mongo.Collection
}

func NewMongoBackend(db *mongo.Database, collectionName string) *MongoBackend {
	return &MongoBackend{coll: db.Collection(collectionName)}
}

func (b *MongoBackend) Get(ctx context.Context, name string) (Snapshot, error) {
	var doc collectionDocument
	err := b.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Snapshot{Collection: name}, nil
	}
	if err != nil {
		return Snapshot{Collection: name}, err
	}

	return Snapshot{
		Collection: name,
		Value:      json.RawMessage(doc.Value),
		Version:    doc.Version,
	}, nil
}

func (b *MongoBackend) Put(ctx context.Context, name string, value json.RawMessage, origin string) (int64, error) {
	update := bson.M{
		"$set": bson.M{
			"value":     string(value),
			"origin":    origin,
			"updatedAt": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc collectionDocument
	if err := b.coll.FindOneAndUpdate(ctx, bson.M{"_id": name}, update, opts).Decode(&doc); err != nil {
		return 0, err
	}
	return doc.Version, nil
}

// Watch follows inserts, updates and replaces on the collection documents.
func (b *MongoBackend) Watch(ctx context.Context, fn func(Change)) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": bson.A{"insert", "update", "replace"}},
		}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	cs, err := b.coll.Watch(ctx, pipeline, opts)
	if err != nil {
		return err
	}
	defer cs.Close(context.Background())

	for cs.Next(ctx) {
		var ev changeEvent
		if err := cs.Decode(&ev); err != nil {
			return err
		}

		change := Change{Collection: ev.DocumentKey.ID}
		if ev.FullDocument != nil {
			change.Version = ev.FullDocument.Version
			change.Origin = ev.FullDocument.Origin
		}
		fn(change)
	}

	if ctx.Err() != nil {
		return nil
	}
	return cs.Err()
}
