package database

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	appentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/application/entity"
	jobentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/job/entity"
	notificationentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/notification/entity"
	userentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
)

type Config struct {
	Seed    bool
	Latency time.Duration
}

// ConfigFromEnv reads store config from environment variables
func ConfigFromEnv() Config {
	seed := true
	if v := os.Getenv("SEED_SAMPLE_DATA"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			seed = b
		}
	}
	var latency time.Duration
	if v := os.Getenv("SIMULATED_LATENCY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			latency = d
		}
	}
	return Config{Seed: seed, Latency: latency}
}

// Tables is the full data set. Functions passed to View must not retain or
// modify it; functions passed to Update may modify it freely.
type Tables struct {
	Users         []userentity.User
	Jobs          []jobentity.Job
	Applications  []appentity.Application
	Notifications []notificationentity.Notification
}

func (t *Tables) clone() *Tables {
	c := &Tables{
		Users:         make([]userentity.User, len(t.Users)),
		Jobs:          make([]jobentity.Job, len(t.Jobs)),
		Applications:  make([]appentity.Application, len(t.Applications)),
		Notifications: make([]notificationentity.Notification, len(t.Notifications)),
	}
	for i := range t.Users {
		c.Users[i] = t.Users[i].Clone()
	}
	for i := range t.Jobs {
		c.Jobs[i] = t.Jobs[i].Clone()
	}
	copy(c.Applications, t.Applications)
	copy(c.Notifications, t.Notifications)
	return c
}

// DB is the process-wide in-memory store.
type DB struct {
	mu      sync.RWMutex
	tables  *Tables
	seed    bool
	latency time.Duration
}

// Open creates a store, loaded with the sample data when cfg.Seed is set.
func Open(cfg Config) *DB {
	db := &DB{seed: cfg.Seed, latency: cfg.Latency}
	db.tables = db.initial()
	return db
}

func (db *DB) initial() *Tables {
	if db.seed {
		return SampleData()
	}
	return &Tables{}
}

// Reset restores the store to its initial contents.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tables = db.initial()
}

// View runs fn under a read lock. The simulated latency pause is cut short
// by ctx.
func (db *DB) View(ctx context.Context, fn func(t *Tables) error) error {
	if err := db.pause(ctx); err != nil {
		return err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn(db.tables)
}

// Update runs fn against a copy of the tables and keeps the copy only when
// fn returns nil. Once called it always runs to completion.
func (db *DB) Update(ctx context.Context, fn func(t *Tables) error) error {
	_ = db.pause(context.WithoutCancel(ctx))
	db.mu.Lock()
	defer db.mu.Unlock()
	next := db.tables.clone()
	if err := fn(next); err != nil {
		return err
	}
	db.tables = next
	return nil
}

func (db *DB) pause(ctx context.Context) error {
	if db.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(db.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
