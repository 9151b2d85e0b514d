package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alejandrodnm/tradersim/internal/domain"
	"golang.org/x/time/rate"
)

// JSONDir writes one pretty-printed JSON document per snapshot under
// <root>/<trader dir>/.
type JSONDir struct {
	root    string
	limiter *rate.Limiter
}

// NewJSONDir creates a writer rooted at root. writesPerSec ≤ 0 disables
// throttling.
func NewJSONDir(root string, writesPerSec float64) *JSONDir {
	limit := rate.Inf
	if writesPerSec > 0 {
		limit = rate.Limit(writesPerSec)
	}
	return &JSONDir{root: root, limiter: rate.NewLimiter(limit, 1)}
}

// FileName is the file a snapshot is written to, e.g.
// decision_20260101_000000_cycle1.json.
func FileName(snap domain.Snapshot) string {
	return fmt.Sprintf("decision_%s_cycle%d.json", snap.Timestamp.Format("20060102_150405"), snap.CycleNumber)
}

// TraderDir is the directory holding a trader's snapshots.
func (j *JSONDir) TraderDir(trader domain.Trader) string {
	dir := trader.Dir
	if dir == "" {
		dir = trader.ID
	}
	return filepath.Join(j.root, dir)
}

// Reset removes the .json files left in the trader's directory, creating the
// directory if needed. Other files are left alone.
func (j *JSONDir) Reset(_ context.Context, trader domain.Trader) (int, error) {
	dir := j.TraderDir(trader)

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("storage.JSONDir.Reset: create %q: %w", dir, err)
		}
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage.JSONDir.Reset: read %q: %w", dir, err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return removed, fmt.Errorf("storage.JSONDir.Reset: remove %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// Write encodes snap and writes it to its file.
func (j *JSONDir) Write(ctx context.Context, trader domain.Trader, snap domain.Snapshot) error {
	if err := j.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("storage.JSONDir.Write: %w", err)
	}

	data, err := EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("storage.JSONDir.Write: %w", err)
	}

	path := filepath.Join(j.TraderDir(trader), FileName(snap))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("storage.JSONDir.Write: %w", err)
	}
	return nil
}

// EncodeSnapshot renders snap as indented JSON without HTML escaping so the
// execution log keeps its symbols readable.
func EncodeSnapshot(snap domain.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("encode snapshot cycle %d: %w", snap.CycleNumber, err)
	}
	return buf.Bytes(), nil
}
