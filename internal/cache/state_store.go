package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/santistebanc/partytime-sub000/internal/model"
)

// StateStore keeps one JSON blob per room in Redis. The blob is exclusively
// owned by that room's authority; nothing else writes it.
type StateStore interface {
	Load(ctx context.Context, roomID string) (*model.RoomSnapshot, error)
	Save(ctx context.Context, roomID string, snap *model.RoomSnapshot) error
	Delete(ctx context.Context, roomID string) error
	Exists(ctx context.Context, roomID string) (bool, error)
}

type stateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore creates a Redis-backed room state store.
func NewStateStore(client *redis.Client) StateStore {
	return &stateStore{
		client: client,
		ttl:    24 * time.Hour, // dormant rooms expire after 24h
	}
}

func (s *stateStore) key(roomID string) string {
	return fmt.Sprintf("room:%s:state", roomID)
}

func (s *stateStore) Load(ctx context.Context, roomID string) (*model.RoomSnapshot, error) {
	data, err := s.client.Get(ctx, s.key(roomID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap model.RoomSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *stateStore) Save(ctx context.Context, roomID string, snap *model.RoomSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(roomID), data, s.ttl).Err()
}

func (s *stateStore) Delete(ctx context.Context, roomID string) error {
	return s.client.Del(ctx, s.key(roomID)).Err()
}

func (s *stateStore) Exists(ctx context.Context, roomID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(roomID)).Result()
	return n > 0, err
}
