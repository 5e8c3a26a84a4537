package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/resograph/resograph/pkg/errors"
	"github.com/resograph/resograph/pkg/observability"
)

// MongoConfig holds connection settings for the mongo backend.
type MongoConfig struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string
	Collection string // defaults to "snapshots"
}

// MongoArchive stores snapshots in a mongo collection, one document per
// snapshot keyed by snapshot ID.
type MongoArchive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoArchive connects to mongo and verifies the connection with a ping.
func NewMongoArchive(ctx context.Context, cfg MongoConfig) (*MongoArchive, error) {
	if cfg.Collection == "" {
		cfg.Collection = "snapshots"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo %s: %w", cfg.URI, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo %s: %w", cfg.URI, err)
	}

	return &MongoArchive{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save stores a snapshot, replacing any snapshot with the same ID.
func (a *MongoArchive) Save(ctx context.Context, snap Snapshot) error {
	start := time.Now()
	_, err := a.coll.ReplaceOne(ctx,
		bson.M{"_id": snap.ID},
		snap,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		err = apperrors.Wrap(apperrors.ErrCodeArchive, err, "save snapshot %s", snap.ID)
	}
	observability.Archive().OnSnapshotSave(ctx, snap.ID, len(snap.Resources), time.Since(start), err)
	return err
}

// Load retrieves a snapshot by ID.
func (a *MongoArchive) Load(ctx context.Context, id string) (Snapshot, error) {
	start := time.Now()
	var snap Snapshot
	err := a.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&snap)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		err = apperrors.New(apperrors.ErrCodeSnapshotNotFound, "snapshot %s does not exist", id)
	case err != nil:
		err = apperrors.Wrap(apperrors.ErrCodeArchive, err, "load snapshot %s", id)
	}
	observability.Archive().OnSnapshotLoad(ctx, id, time.Since(start), err)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// List returns all snapshots, newest first.
func (a *MongoArchive) List(ctx context.Context) ([]Snapshot, error) {
	cursor, err := a.coll.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeArchive, err, "list snapshots")
	}
	defer cursor.Close(ctx)

	var snaps []Snapshot
	if err := cursor.All(ctx, &snaps); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeArchive, err, "decode snapshots")
	}
	return snaps, nil
}

// Delete removes a snapshot.
func (a *MongoArchive) Delete(ctx context.Context, id string) error {
	res, err := a.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeArchive, err, "delete snapshot %s", id)
	}
	if res.DeletedCount == 0 {
		return apperrors.New(apperrors.ErrCodeSnapshotNotFound, "snapshot %s does not exist", id)
	}
	return nil
}

// Close disconnects from mongo.
func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

// Ensure MongoArchive implements Archive.
var _ Archive = (*MongoArchive)(nil)
