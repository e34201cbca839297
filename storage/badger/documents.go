// Copyright 2025 Sembox Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/sembox/mailseek/core"
	"github.com/sembox/mailseek/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a document repository over a backend.
//
// Returns storage.DocumentRepository interface to enforce abstraction.
func NewDocumentRepository(backend *Backend) storage.DocumentRepository {
	return &DocumentRepository{backend: backend}
}

// Put stores a document, overwriting any document with the same uid.
func (r *DocumentRepository) Put(ctx context.Context, doc *core.Document) error {
	if doc == nil {
		return storage.ErrNilDocument
	}
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		return r.putInTx(tx, doc)
	}, true)
}

// PutBatch stores documents, skipping any whose content hash matches the
// stored copy. Returns the number of documents actually written.
func (r *DocumentRepository) PutBatch(ctx context.Context, docs []*core.Document) (int, error) {
	stored := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if doc == nil {
				return storage.ErrNilDocument
			}
			if err := core.ValidateDocument(doc); err != nil {
				return err
			}

			unchanged, err := r.hashMatches(tx, doc)
			if err != nil {
				return err
			}
			if unchanged {
				continue
			}

			if err := r.putInTx(tx, doc); err != nil {
				return err
			}
			stored++
		}
		return nil
	}, true)
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// Get retrieves a document by uid.
func (r *DocumentRepository) Get(ctx context.Context, uid string) (*core.Document, error) {
	var doc *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(uid))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			var uerr error
			doc, uerr = storage.UnmarshalDocument(val)
			return uerr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes a document and its index entries by uid.
// Deleting a missing document is not an error.
func (r *DocumentRepository) Delete(ctx context.Context, uid string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(uid))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var doc *core.Document
		if err := item.Value(func(val []byte) error {
			var uerr error
			doc, uerr = storage.UnmarshalDocument(val)
			return uerr
		}); err != nil {
			return err
		}

		if err := tx.Delete(makeDocumentKey(uid)); err != nil {
			return err
		}
		if err := tx.Delete(makeDocumentHashKey(uid)); err != nil {
			return err
		}
		return tx.Delete(makeFolderKey(doc.Folder, uid))
	}, true)
}

// All returns every stored document.
func (r *DocumentRepository) All(ctx context.Context) ([]*core.Document, error) {
	var docs []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = documentKeyPrefix()

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := it.Item().Value(func(val []byte) error {
				doc, err := storage.UnmarshalDocument(val)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Count returns the number of stored documents.
func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = documentKeyPrefix()
		opts.PrefetchValues = false

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FolderUids returns the uids of all documents in a folder, via the folder
// index.
func (r *DocumentRepository) FolderUids(ctx context.Context, folder string) ([]string, error) {
	prefix := makePartialFolderKey(folder)

	var uids []string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			uids = append(uids, string(key[len(prefix):]))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return uids, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *DocumentRepository) Close() error {
	return nil
}

// putInTx writes a document, its content hash, and its folder index entry.
func (r *DocumentRepository) putInTx(tx *badger.Txn, doc *core.Document) error {
	if err := tx.Set(makeDocumentKey(doc.Uid), storage.MarshalDocument(doc)); err != nil {
		return err
	}
	if err := tx.Set(makeDocumentHashKey(doc.Uid), storage.MarshalHash(core.DocumentHash(doc))); err != nil {
		return err
	}
	return tx.Set(makeFolderKey(doc.Folder, doc.Uid), []byte(doc.Uid))
}

// hashMatches reports whether the stored hash for doc's uid equals the
// document's current content hash.
func (r *DocumentRepository) hashMatches(tx *badger.Txn, doc *core.Document) (bool, error) {
	item, err := tx.Get(makeDocumentHashKey(doc.Uid))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var stored uint64
	if err := item.Value(func(val []byte) error {
		var uerr error
		stored, uerr = storage.UnmarshalHash(val)
		return uerr
	}); err != nil {
		return false, err
	}

	return stored == core.DocumentHash(doc), nil
}
