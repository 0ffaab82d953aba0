// Command seed writes a demo question deck into a room's persisted blob so a
// fresh room has content to play with.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/santistebanc/partytime-sub000/internal/cache"
	"github.com/santistebanc/partytime-sub000/internal/model"
)

func main() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	roomID := os.Getenv("ROOM_ID")
	if roomID == "" {
		roomID = "demo"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to ping Redis: %v", err)
	}

	store := cache.NewStateStore(rdb)

	snap, err := store.Load(ctx, roomID)
	if err != nil {
		log.Fatalf("Failed to load room %s: %v", roomID, err)
	}
	if snap == nil {
		snap = &model.RoomSnapshot{Users: map[string]*model.User{}}
	}

	questions := []*model.Question{
		{
			Prompt:        "What is 2+2?",
			CorrectAnswer: "4",
			Distractors:   []string{"3", "4", "5", "22"},
			Topic:         "math",
			PointValue:    10,
		},
		{
			Prompt:        "Which planet is known as the red planet?",
			CorrectAnswer: "Mars",
			Distractors:   []string{"Venus", "Mars", "Jupiter", "Mercury"},
			Topic:         "space",
			PointValue:    20,
		},
		{
			Prompt:        "In which year did the first human walk on the Moon?",
			CorrectAnswer: "1969",
			Distractors:   []string{"1965", "1969", "1971", "1958"},
			Topic:         "space",
			PointValue:    30,
		},
	}

	snap.Reveal = make(map[string]bool, len(questions))
	snap.Questions = snap.Questions[:0]
	for _, q := range questions {
		q.ID = uuid.NewString()
		snap.Questions = append(snap.Questions, q)
		snap.Reveal[q.ID] = false
	}
	snap.Topics = []string{"math", "space"}

	if err := store.Save(ctx, roomID, snap); err != nil {
		log.Fatalf("Failed to save room %s: %v", roomID, err)
	}

	log.Printf("Seeded %d questions into room %q", len(snap.Questions), roomID)
}
