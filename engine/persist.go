package engine

import (
	"time"

	"github.com/sembox/mailseek/storage"
)

// Save persists the corpus and index to a snapshot file. A degraded engine
// saves a metadata-only snapshot with no vectors.
func (e *Engine) Save(path string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.docs) == 0 {
		return ErrNoDocuments
	}

	snap := &storage.Snapshot{
		Config: storage.SnapshotConfig{
			ModelName:     e.modelName,
			DocumentCount: len(e.docs),
			CreatedAt:     time.Now().UTC(),
		},
		Documents: e.docs,
	}
	if e.index != nil {
		snap.Vectors = e.index.vectors
	}

	if err := storage.WriteSnapshot(path, snap); err != nil {
		return err
	}

	e.logger.Info("index saved", "path", path, "documents", len(e.docs), "vectors", len(snap.Vectors))
	return nil
}

// Load restores the corpus and index from a snapshot file. A metadata-only
// snapshot leaves the engine in degraded (lexical) mode.
func (e *Engine) Load(path string) error {
	snap, err := storage.ReadSnapshot(path)
	if err != nil {
		return err
	}

	var index *vectorIndex
	if len(snap.Vectors) > 0 {
		index = newVectorIndex(len(snap.Vectors[0]))
		for _, v := range snap.Vectors {
			if addErr := index.add(v); addErr != nil {
				return addErr
			}
		}
	}

	e.mu.Lock()
	e.docs = snap.Documents
	e.index = index
	e.degraded = index == nil
	if snap.Config.ModelName != "" {
		e.modelName = snap.Config.ModelName
	}
	e.mu.Unlock()

	e.logger.Info("index loaded",
		"path", path,
		"documents", len(snap.Documents),
		"vectors", len(snap.Vectors),
		"model", snap.Config.ModelName)
	return nil
}
