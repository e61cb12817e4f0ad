package datasetcache

import (
	"context"
	"errors"

	"github.com/planscope/planscope/pkg/model"
)

var ErrNotFound = errors.New("dataset not found in cache")

// Store persists the last parsed persons of a dataset under its key
type Store interface {
	Save(ctx context.Context, key string, persons []*model.Person) error
	Load(ctx context.Context, key string) ([]*model.Person, error)
	Delete(ctx context.Context, key string) error
}
