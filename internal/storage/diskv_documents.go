package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvDocumentStore keeps one file per document under
// <base>/<collection>/<id>.
type DiskvDocumentStore struct {
	d     *diskv.Diskv
	newID func() (string, error)
}

func OpenDiskv(basePath string) (*DiskvDocumentStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: diskv base path is empty")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure diskv base path: %w", err)
	}
	return &DiskvDocumentStore{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		newID: newDocumentID,
	}, nil
}

func (s *DiskvDocumentStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	prefix := collection + "/"
	keys := make([]string, 0)
	for key := range s.d.KeysPrefix(prefix, ctx.Done()) {
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)

	out := make([]Document, 0, len(keys))
	for _, key := range keys {
		body, err := s.d.Read(key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		out = append(out, Document{ID: strings.TrimPrefix(key, prefix), Body: body})
	}
	return out, nil
}

func (s *DiskvDocumentStore) Create(ctx context.Context, collection string, body []byte) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, err := s.newID()
	if err != nil {
		return "", err
	}
	if err := s.d.Write(toKey(collection, id), body); err != nil {
		return "", err
	}
	return id, nil
}

func (s *DiskvDocumentStore) Replace(ctx context.Context, collection, id string, body []byte) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	key := toKey(collection, id)
	if !validID(id) || !s.d.Has(key) {
		return ErrNotFound
	}
	return s.d.Write(key, body)
}

func (s *DiskvDocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	key := toKey(collection, id)
	if !validID(id) || !s.d.Has(key) {
		return ErrNotFound
	}
	return s.d.Erase(key)
}

func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

// toKey makes `collection/id`
func toKey(collection, id string) string {
	return collection + "/" + id
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string(nil), pathKey.Path...), pathKey.FileName), "/")
}
