// Package backup snapshots every stored key into a single JSON document and restores
// such documents.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/store"
)

// Document identity.
const (
	Version     = "1.0"
	System      = "Hollywood Mastery Destiny Protocol"
	MetadataKey = "_metadata"
)

// ErrInvalidBackup is returned for documents that are not mastery backups.
var ErrInvalidBackup = errors.New("invalid backup")

// Metadata describes a backup document.
type Metadata struct {
	Version      string    `json:"version"`
	BackupDate   time.Time `json:"backupDate"`
	TotalEntries int       `json:"totalEntries"`
	System       string    `json:"system"`
}

// Document is a full snapshot: metadata plus every stored key.
type Document struct {
	Metadata Metadata
	Entries  map[string]json.RawMessage
}

// MarshalJSON flattens the entries next to the _metadata member.
func (d Document) MarshalJSON() ([]byte, error) {
	meta, err := json.Marshal(d.Metadata)
	if err != nil {
		return nil, err
	}
	flat := make(map[string]json.RawMessage, len(d.Entries)+1)
	for k, v := range d.Entries {
		flat[k] = v
	}
	flat[MetadataKey] = meta
	return json.Marshal(flat)
}

// UnmarshalJSON splits the _metadata member from the entries.
func (d *Document) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	if meta, ok := flat[MetadataKey]; ok {
		if err := json.Unmarshal(meta, &d.Metadata); err != nil {
			return fmt.Errorf("decoding %s: %w", MetadataKey, err)
		}
		delete(flat, MetadataKey)
	}
	d.Entries = flat
	return nil
}

// Keys returns the entry keys in sorted order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.Entries))
	for k := range d.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that d is a mastery backup.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidBackup)
	}
	if d.Metadata.System != System {
		return fmt.Errorf("%w: unexpected system %q", ErrInvalidBackup, d.Metadata.System)
	}
	if d.Metadata.Version == "" {
		return fmt.Errorf("%w: missing version", ErrInvalidBackup)
	}
	for k, v := range d.Entries {
		if !json.Valid(v) {
			return fmt.Errorf("%w: entry %s is not valid JSON", ErrInvalidBackup, k)
		}
	}
	return nil
}

// Result summarizes a restore.
type Result struct {
	Restored int      `json:"restored"`
	Failed   []string `json:"failed,omitempty"`
}

// Manager creates and restores backups of a store.
type Manager struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a Manager. A nil logger discards output.
func New(s *store.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{store: s, logger: logger}
}

// Create snapshots every stored key and then records the backup time. Values holding
// JSON documents are embedded as-is; anything else is embedded as a JSON string.
func (m *Manager) Create(ctx context.Context) (*Document, error) {
	keys, err := m.store.Keys(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}

	now := m.store.Clock().Now()
	doc := &Document{
		Metadata: Metadata{Version: Version, BackupDate: now, System: System},
		Entries:  make(map[string]json.RawMessage, len(keys)),
	}
	for _, k := range keys {
		raw := m.store.GetString(ctx, k, "")
		doc.Entries[k] = embed(raw)
	}
	doc.Metadata.TotalEntries = len(doc.Entries)

	if !m.store.SetString(ctx, store.LastBackupKey, now.Format(time.RFC3339)) {
		m.logger.Warn("backup time not recorded")
	}
	m.logger.Info("backup created", "entries", doc.Metadata.TotalEntries)
	return doc, nil
}

// Restore validates doc and then writes its entries key by key. With replace set every
// existing key is removed first. Nothing is touched when validation fails. The backup
// time is stamped with the moment of the restore.
func (m *Manager) Restore(ctx context.Context, doc *Document, replace bool) (Result, error) {
	if err := doc.Validate(); err != nil {
		return Result{}, err
	}

	if replace {
		existing, err := m.store.Keys(ctx, "")
		if err != nil {
			return Result{}, fmt.Errorf("listing keys: %w", err)
		}
		for _, k := range existing {
			if err := m.store.Delete(ctx, k); err != nil {
				return Result{}, fmt.Errorf("clearing %s: %w", k, err)
			}
		}
		m.logger.Info("cleared existing keys", "count", len(existing))
	}

	var res Result
	for _, k := range doc.Keys() {
		value, err := extract(doc.Entries[k])
		if err != nil {
			res.Failed = append(res.Failed, k)
			m.logger.Warn("skipping entry", "key", k, "error", err)
			continue
		}
		if !m.store.SetString(ctx, k, value) {
			res.Failed = append(res.Failed, k)
			continue
		}
		res.Restored++
	}

	if !m.store.SetString(ctx, store.LastBackupKey, m.store.Clock().Now().Format(time.RFC3339)) {
		m.logger.Warn("backup time not recorded")
	}
	m.logger.Info("backup restored", "restored", res.Restored, "failed", len(res.Failed))
	return res, nil
}

// LastBackup returns when a backup was last created or restored.
func (m *Manager) LastBackup(ctx context.Context) (time.Time, bool) {
	raw := m.store.GetString(ctx, store.LastBackupKey, "")
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Filename is the default file name for a backup taken at t.
func Filename(t time.Time) string {
	return "mastery-backup-" + clock.FormatDate(t) + ".json"
}

// Write encodes doc as indented JSON.
func Write(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return nil
}

// Read decodes and validates a backup document.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func embed(raw string) json.RawMessage {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) > 0 && trimmed[0] != '"' && json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(raw)
	return quoted
}

func extract(v json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "", err
	}
	return buf.String(), nil
}
