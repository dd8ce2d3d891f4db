// Package snapshot writes cleaned listings as a JSON artifact for offline inspection.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"auction_backend/internal/feature/auctions/domain/entity"
)

// Absent is written in place of a field the listing did not carry.
const Absent = "NONE"

// record mirrors one item entry. Fields are declared in key order.
type record struct {
	Buyout    any `json:"buyout"`
	Quantity  any `json:"quantity"`
	UnitPrice any `json:"unit_price"`
}

// FileName returns the artifact name for a snapshot taken at t, e.g. "sample.1604990089.993698.json".
func FileName(t time.Time) string {
	return fmt.Sprintf("sample.%d.%06d.json", t.Unix(), t.Nanosecond()/int(time.Microsecond))
}

// Write encodes points as an object keyed by item id with 4-space indentation.
func Write(w io.Writer, points map[int64]entity.PricePoint) error {
	out := make(map[string]record, len(points))
	for id, p := range points {
		out[strconv.FormatInt(id, 10)] = record{
			Buyout:    field(p.Buyout),
			Quantity:  field(p.Quantity),
			UnitPrice: field(p.UnitPrice),
		}
	}

	// encoding/json sorts map keys
	b, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// WriteFile writes the snapshot into dir and returns the created path.
func WriteFile(dir string, at time.Time, points map[int64]entity.PricePoint) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	path := filepath.Join(dir, FileName(at))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot file: %w", err)
	}
	if err := Write(f, points); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close snapshot file: %w", err)
	}
	return path, nil
}

func field(v *int64) any {
	if v == nil {
		return Absent
	}
	return *v
}
