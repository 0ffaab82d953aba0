package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/santistebanc/partytime-sub000/internal/model"
)

// HistoryRepository archives resolved ledger entries. The in-memory ledger
// owned by each room's engine stays authoritative for scoring; this archive
// is the durable record that outlives the process.
type HistoryRepository interface {
	Insert(ctx context.Context, roomID string, entry model.HistoryEntry) error
	ListByRoom(ctx context.Context, roomID string) ([]ArchivedEntry, error)
}

type ArchivedEntry struct {
	RoomID             string `json:"roomId" bson:"roomId"`
	model.HistoryEntry `bson:",inline"`
}

type historyRepository struct {
	collection *mongo.Collection
}

func NewHistoryRepository(db *mongo.Database) HistoryRepository {
	return &historyRepository{
		collection: db.Collection("history"),
	}
}

func (r *historyRepository) Insert(ctx context.Context, roomID string, entry model.HistoryEntry) error {
	if entry.ResolvedAt.IsZero() {
		entry.ResolvedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, ArchivedEntry{RoomID: roomID, HistoryEntry: entry})
	return err
}

func (r *historyRepository) ListByRoom(ctx context.Context, roomID string) ([]ArchivedEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "resolvedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"roomId": roomID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []ArchivedEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
