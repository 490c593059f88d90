package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/tallied-dev/tallied/internal/model"
)

// FileStore persists transactions as one CSV file per month under
// <root>/YYYY/MM/transactions.csv, and settings in <root>/settings.yaml.
// Writes go to a temp file and are renamed into place, so an ack means
// the data is durably on disk.
type FileStore struct {
	root       string
	categories CategoryChecker
	ceiling    decimal.Decimal
}

// NewFileStore creates a FileStore rooted at dir. categories may be nil
// to skip allow-list validation on write.
func NewFileStore(dir string, categories CategoryChecker, ceiling decimal.Decimal) *FileStore {
	return &FileStore{root: dir, categories: categories, ceiling: ceiling}
}

// GetTransactions reads a month file. A missing file is a valid empty
// month; any other failure is an error, never an empty result.
func (s *FileStore) GetTransactions(ctx context.Context, month model.Month) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.monthPath(month)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return txns, nil
}

// PutTransactions merges transactions into their month files (replace by
// ID, append otherwise) and commits each file atomically.
func (s *FileStore) PutTransactions(ctx context.Context, txns []model.Transaction) (CommitAck, error) {
	if err := ctx.Err(); err != nil {
		return CommitAck{}, err
	}
	if len(txns) == 0 {
		return CommitAck{At: time.Now()}, nil
	}

	byMonth := make(map[model.Month][]model.Transaction)
	for _, t := range txns {
		m := t.MonthKey()
		byMonth[m] = append(byMonth[m], t)
	}

	months := make([]model.Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	committed := 0
	for _, m := range months {
		existing, err := s.GetTransactions(ctx, m)
		if err != nil {
			return CommitAck{}, err
		}
		merged := mergeByID(existing, byMonth[m])

		if verrs := ValidateTransactions(merged, s.categories, m, s.ceiling); len(verrs) > 0 {
			return CommitAck{}, fmt.Errorf("validation failed for %s: %s", m, verrs[0].Error())
		}

		if err := s.writeMonth(m, merged); err != nil {
			return CommitAck{}, &model.CommitError{Op: "put " + string(m), Err: err}
		}
		committed += len(byMonth[m])
	}

	return CommitAck{Committed: committed, At: time.Now()}, nil
}

// DeleteTransaction removes one transaction from its month file.
func (s *FileStore) DeleteTransaction(ctx context.Context, month model.Month, id string) (CommitAck, error) {
	if err := ctx.Err(); err != nil {
		return CommitAck{}, err
	}

	existing, err := s.GetTransactions(ctx, month)
	if err != nil {
		return CommitAck{}, err
	}

	kept := existing[:0:0]
	found := false
	for _, t := range existing {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return CommitAck{}, fmt.Errorf("transaction %s not found in %s", id, month)
	}

	if err := s.writeMonth(month, kept); err != nil {
		return CommitAck{}, &model.CommitError{Op: "delete " + id, Err: err}
	}
	return CommitAck{Committed: 1, At: time.Now()}, nil
}

// GetSetting reads one setting. Missing keys return
// model.ErrSettingNotFound, distinct from a store failure.
func (s *FileStore) GetSetting(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	settings, err := s.readSettings()
	if err != nil {
		return "", err
	}
	value, ok := settings[key]
	if !ok {
		return "", fmt.Errorf("%q: %w", key, model.ErrSettingNotFound)
	}
	return value, nil
}

// PutSetting durably stores one setting.
func (s *FileStore) PutSetting(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	settings, err := s.readSettings()
	if err != nil {
		return err
	}
	if settings == nil {
		settings = make(map[string]string)
	}
	settings[key] = value

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := s.atomicWrite(s.settingsPath(), data); err != nil {
		return &model.CommitError{Op: "put setting " + key, Err: err}
	}
	return nil
}

func (s *FileStore) readSettings() (map[string]string, error) {
	data, err := os.ReadFile(s.settingsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	var settings map[string]string
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return settings, nil
}

func (s *FileStore) writeMonth(month model.Month, txns []model.Transaction) error {
	path, err := s.monthPath(month)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating month dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "transactions-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteTransactions(tmp, txns); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func (s *FileStore) monthPath(month model.Month) (string, error) {
	year, m, err := model.ParseMonth(month)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", m), "transactions.csv"), nil
}

func (s *FileStore) settingsPath() string {
	return filepath.Join(s.root, "settings.yaml")
}

func mergeByID(existing, incoming []model.Transaction) []model.Transaction {
	merged := append([]model.Transaction(nil), existing...)
	index := make(map[string]int, len(merged))
	for i, t := range merged {
		index[t.ID] = i
	}
	for _, t := range incoming {
		if i, ok := index[t.ID]; ok {
			merged[i] = t
			continue
		}
		index[t.ID] = len(merged)
		merged = append(merged, t)
	}
	return merged
}
