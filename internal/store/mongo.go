package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appLog "sydevents/internal/log"
	"sydevents/internal/model"
)

const (
	eventsCollection   = "events"
	capturesCollection = "email_captures"
)

// MongoStore is the MongoDB-backed EventStore and EmailStore.
type MongoStore struct {
	client   *mongo.Client
	events   *mongo.Collection
	captures *mongo.Collection
}

// eventDoc pairs the canonical event fields with the Mongo _id.
type eventDoc struct {
	OID         primitive.ObjectID `bson:"_id,omitempty"`
	model.Event `bson:",inline"`
}

type captureDoc struct {
	OID                primitive.ObjectID `bson:"_id,omitempty"`
	model.EmailCapture `bson:",inline"`
}

// NewMongoStore connects, pings, and ensures indexes. The caller owns the
// returned store's lifecycle via Close.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:   client,
		events:   db.Collection(eventsCollection),
		captures: db.Collection(capturesCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	appLog.Info("mongo store ready", "database", database)
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "externalId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "isActive", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("mongo event indexes: %w", err)
	}

	_, err = s.captures.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "eventId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("mongo capture indexes: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Health pings the deployment.
func (s *MongoStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) FindByExternalID(ctx context.Context, externalID string) (model.Event, error) {
	if externalID == "" {
		return model.Event{}, ErrNotFound
	}
	var doc eventDoc
	err := s.events.FindOne(ctx, bson.M{"externalId": externalID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return model.Event{}, ErrNotFound
	}
	if err != nil {
		return model.Event{}, err
	}
	return doc.toModel(), nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (model.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Event{}, ErrNotFound
	}
	var doc eventDoc
	err = s.events.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return model.Event{}, ErrNotFound
	}
	if err != nil {
		return model.Event{}, err
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Insert(ctx context.Context, ev model.Event) (model.Event, error) {
	now := time.Now().UTC()
	ev.CreatedAt = now
	ev.UpdatedAt = now

	res, err := s.events.InsertOne(ctx, eventDoc{Event: ev})
	if mongo.IsDuplicateKeyError(err) {
		return model.Event{}, ErrDuplicate
	}
	if err != nil {
		return model.Event{}, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		ev.ID = oid.Hex()
	}
	return ev, nil
}

func (s *MongoStore) UpdateByID(ctx context.Context, id string, ev model.Event) (model.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Event{}, ErrNotFound
	}

	// Overwrite all harvested fields; createdAt stays as stored.
	update := bson.M{"$set": bson.M{
		"title":       ev.Title,
		"date":        ev.Date,
		"location":    ev.Location,
		"image":       ev.Image,
		"description": ev.Description,
		"url":         ev.URL,
		"source":      ev.Source,
		"externalId":  ev.ExternalID,
		"isActive":    ev.IsActive,
		"updatedAt":   time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc eventDoc
	err = s.events.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return model.Event{}, ErrNotFound
	}
	if err != nil {
		return model.Event{}, err
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.events.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, opts ListOptions) ([]model.Event, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	filter := bson.M{"isActive": true}
	if opts.UpcomingOnly {
		filter["date"] = bson.M{"$gte": time.Now().UTC()}
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(limit)

	cur, err := s.events.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]model.Event, 0, limit)
	for cur.Next(ctx) {
		var doc eventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toModel())
	}
	return out, cur.Err()
}

func (s *MongoStore) CountActive(ctx context.Context) (int64, error) {
	return s.events.CountDocuments(ctx, bson.M{"isActive": true})
}

func (s *MongoStore) InsertCapture(ctx context.Context, c model.EmailCapture) (model.EmailCapture, error) {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.CreatedAt = time.Now().UTC()

	res, err := s.captures.InsertOne(ctx, captureDoc{EmailCapture: c})
	if mongo.IsDuplicateKeyError(err) {
		return model.EmailCapture{}, ErrDuplicate
	}
	if err != nil {
		return model.EmailCapture{}, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return c, nil
}

func (d eventDoc) toModel() model.Event {
	ev := d.Event
	ev.ID = d.OID.Hex()
	return ev
}
