// ABOUTME: BadgerDB-backed document store implementation
// ABOUTME: Stores JSON documents under collection/id keys
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
)

// BadgerStore implements Store on an embedded BadgerDB. Keys are
// "collection/id", values are JSON-encoded Documents.
type BadgerStore struct {
	db *badger.DB
}

// Open opens (or creates) a store at the given directory.
func Open(path string) (*BadgerStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

// OpenInMemory opens an in-memory store, for tests.
func OpenInMemory() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory store: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func key(collection, id string) []byte {
	return []byte(collection + "/" + id)
}

func (s *BadgerStore) Get(_ context.Context, collection, id string) (*Document, error) {
	var doc Document
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(collection, id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", collection, id, err)
	}
	return &doc, nil
}

func (s *BadgerStore) List(_ context.Context, collection string) ([]*Document, error) {
	prefix := []byte(collection + "/")
	docs := make([]*Document, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var doc Document
				if err := json.Unmarshal(val, &doc); err != nil {
					return err
				}
				docs = append(docs, &doc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	return docs, nil
}

func (s *BadgerStore) Create(_ context.Context, collection string, fields map[string]interface{}) (string, error) {
	if fields == nil {
		return "", ErrInvalidDocument
	}

	now := time.Now().UTC()
	doc := &Document{
		ID:        uuid.New().String(),
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Callers may carry their own id inside the fields; honor it so that
	// document keys match model IDs.
	if id, ok := fields["id"].(string); ok && id != "" {
		doc.ID = id
	}

	val, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(collection, doc.ID), val)
	})
	if err != nil {
		return "", fmt.Errorf("failed to write %s/%s: %w", collection, doc.ID, err)
	}

	return doc.ID, nil
}

func (s *BadgerStore) Update(_ context.Context, collection, id string, fields map[string]interface{}) error {
	k := key(collection, id)

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}

		var doc Document
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return err
		}

		if doc.Fields == nil {
			doc.Fields = make(map[string]interface{})
		}
		for name, value := range fields {
			doc.Fields[name] = value
		}
		doc.UpdatedAt = time.Now().UTC()

		val, err := json.Marshal(&doc)
		if err != nil {
			return err
		}
		return txn.Set(k, val)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *BadgerStore) Delete(_ context.Context, collection, id string) error {
	k := key(collection, id)

	err := s.db.Update(func(txn *badger.Txn) error {
		// Badger deletes are blind; check existence first so the caller can
		// distinguish a missing document.
		if _, err := txn.Get(k); err != nil {
			return err
		}
		return txn.Delete(k)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// DecodeFields unmarshals a document's field map into a typed model via a
// JSON round-trip.
func DecodeFields(doc *Document, out interface{}) error {
	raw, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	return dec.Decode(out)
}

// EncodeFields marshals a typed model into a document field map via a JSON
// round-trip.
func EncodeFields(in interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode model fields: %w", err)
	}
	return fields, nil
}
