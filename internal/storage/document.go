package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

const (
	CollectionTasks = "tasks"
	CollectionTags  = "tags"
)

var (
	ErrNotFound          = errors.New("storage: not found")
	ErrInvalidCollection = errors.New("storage: invalid collection")
)

var collectionName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Document is one record of a collection. Body holds the JSON-encoded fields.
type Document struct {
	ID   string
	Body []byte
}

// DocumentStore is a schema-less key/record store grouped into collections.
// List returns documents in creation order. Replace and Delete return
// ErrNotFound for unknown ids.
type DocumentStore interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Create(ctx context.Context, collection string, body []byte) (string, error)
	Replace(ctx context.Context, collection, id string, body []byte) error
	Delete(ctx context.Context, collection, id string) error
}

func checkCollection(collection string) error {
	if !collectionName.MatchString(collection) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	return nil
}

// newDocumentID returns a UUIDv7, whose string form sorts by creation time.
func newDocumentID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate document id: %w", err)
	}
	return id.String(), nil
}

func cloneBody(b []byte) []byte {
	return append([]byte(nil), b...)
}
