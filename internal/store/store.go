package store

import (
	"context"

	"github.com/amityadav/policyfeed/internal/feed"
)

// Store persists the dataset wholesale. Load never fails: unreadable state is an empty dataset.
type Store interface {
	Load(ctx context.Context) feed.Dataset
	Save(ctx context.Context, data feed.Dataset) error
	Close()
}
