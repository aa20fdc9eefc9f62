package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/jpillora/backoff"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// persistAttempts bounds the durable-write retry policy: the document write
// is retried a fixed number of times with backoff, then the mutation fails.
const persistAttempts = 3

// document is the canonical on-disk schema: one record per user, each holding
// that user's trades in insertion order. The whole store is read at startup
// and rewritten on every mutation.
type document struct {
	Version int                   `json:"version"`
	Users   map[string]userRecord `json:"users"`
}

type userRecord struct {
	Trades []models.Trade `json:"trades"`
}

const documentVersion = 1

// documentFile serializes the store to a single JSON document. Marshalling
// goes through encoding/json with sorted map keys, so an unchanged store
// always produces a byte-identical document.
type documentFile struct {
	path string
}

// load reads and decodes the whole document. A missing file is not an error:
// it decodes to an empty store. A present-but-corrupt file is a
// PersistenceError; the caller decides whether that is fatal.
func (f *documentFile) load() (map[string][]models.Trade, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]models.Trade{}, nil
		}
		return nil, errors.NewPersistenceError("load", f.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewPersistenceError("load", f.path, err)
	}

	users := make(map[string][]models.Trade, len(doc.Users))
	for id, rec := range doc.Users {
		users[id] = rec.Trades
	}
	return users, nil
}

// persist writes the whole store as one document, atomically: the document is
// written to a temp file in the same directory and renamed over the target,
// so a reader never observes a partial write. Failed writes are retried with
// backoff up to persistAttempts times, then surfaced.
func (f *documentFile) persist(users map[string][]models.Trade) error {
	doc := document{
		Version: documentVersion,
		Users:   make(map[string]userRecord, len(users)),
	}
	for id, trades := range users {
		doc.Users[id] = userRecord{Trades: trades}
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return errors.NewPersistenceError("persist", f.path, err)
	}
	data = append(data, '\n')

	b := &backoff.Backoff{
		Min:    50 * time.Millisecond,
		Max:    time.Second,
		Factor: 2,
	}

	var lastErr error
	for attempt := 0; attempt < persistAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(b.Duration())
		}
		if lastErr = f.writeAtomic(data); lastErr == nil {
			return nil
		}
	}
	return errors.NewPersistenceError("persist", f.path, lastErr)
}

func (f *documentFile) writeAtomic(data []byte) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".journal-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
