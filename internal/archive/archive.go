// Package archive moves a catalog in and out of JSON Lines files, one Lok
// per line. Export writes atomically; Import tolerates damaged lines.
package archive

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/lokbuch/pkg/types"
)

// Source is the read side of a catalog.
type Source interface {
	AllPreviews() []types.PreviewLok
	Get(ctx context.Context, id int64) (types.Lok, bool, error)
}

// Sink is the write side of a catalog.
type Sink interface {
	Add(ctx context.Context, lok types.Lok) (int64, error)
}

// Export writes every Lok of src to path in catalog order. The file is
// replaced atomically; on error the previous file, if any, is untouched.
func Export(ctx context.Context, src Source, path string) (int, error) {
	previews := src.AllPreviews()
	records := make([][]byte, 0, len(previews))
	for _, p := range previews {
		lok, ok, err := src.Get(ctx, p.ID)
		if err != nil {
			return 0, fmt.Errorf("export lok %d: %w", p.ID, err)
		}
		if !ok {
			slog.Warn("archive.Export - preview without record", "id", p.ID)
			continue
		}
		data, err := json.Marshal(lok)
		if err != nil {
			return 0, fmt.Errorf("encode lok %d: %w", p.ID, err)
		}
		records = append(records, data)
	}

	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	slog.Debug("archive.Export - wrote file", "path", path, "records", len(records))
	return len(records), nil
}

// Import adds every Lok found in path to dst and returns how many were
// added. Blank lines are ignored; malformed lines and entries that fail
// types.LokInput validation are skipped with a warning. Accepted entries
// are normalized like typed input: without a decoder the address and short
// name are dropped, and the short name is upper-cased.
func Import(ctx context.Context, dst Sink, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	added := 0
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var lok types.Lok
		if err := json.Unmarshal(line, &lok); err != nil {
			slog.Warn("archive.Import - skipping malformed line", "path", path, "line", lineNo, "error", err)
			continue
		}

		// Sentinel values in the file come out absent, then the entry gets
		// the same checks as one typed in by hand.
		parsed, err := types.ParseLok(types.LokFromRow(lok.Row()).Input())
		if err != nil {
			slog.Warn("archive.Import - skipping invalid entry", "path", path, "line", lineNo, "error", err)
			continue
		}

		if _, err := dst.Add(ctx, parsed); err != nil {
			return added, fmt.Errorf("import line %d: %w", lineNo, err)
		}
		added++
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("scanning %s: %w", path, err)
	}
	return added, nil
}

// writeJSONL writes records to path using the temp-file, fsync, rename
// pattern.
func writeJSONL(path string, records [][]byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lokbuch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf(format, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
