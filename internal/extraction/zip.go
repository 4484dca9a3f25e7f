package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
)

// ParseContainer unpacks a ZIP archive and dispatches every inner CSV or
// JSON file to the matching parser. JSON arrays whose first record carries
// billing fields are read as invoices, any other array as ledger entries.
// A failing inner file becomes a warning; the archive fails only when it
// holds no CSV or JSON entry at all, or nothing parseable.
func ParseContainer(fileName string, data []byte) (FinancialResult, error) {
	return parseContainer(fileName, data, DefaultMaxFileSize)
}

func parseContainer(fileName string, data []byte, maxEntrySize int64) (FinancialResult, error) {
	res := FinancialResult{FileName: fileName}

	entries, err := readZipEntries(fileName, data, maxEntrySize, ".csv", ".json")
	if err != nil {
		return res, err
	}

	seen := 0
	for _, e := range entries {
		inner := fileName + "/" + e.name
		switch strings.ToLower(path.Ext(e.name)) {
		case ".json":
			seen++
			var raw any
			if err := json.Unmarshal(e.data, &raw); err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: invalid JSON: %v", inner, err))
				continue
			}
			items, ok := raw.([]any)
			if !ok {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: not a JSON array", inner))
				continue
			}
			if isBillingRecord(items) {
				invoices, skipped := parseBillingItems(items)
				res.Invoices = append(res.Invoices, invoices...)
				res.Skipped = append(res.Skipped, skipped...)
				continue
			}
			res.merge(parseLedgerItems(inner, items))
		case ".csv":
			seen++
			parsed, err := ParseTabular(inner, e.data)
			if err != nil {
				res.Warnings = append(res.Warnings, err.Error())
			}
			res.merge(parsed)
		}
	}

	if seen == 0 {
		return res, NewFileParseError(fileName, "no valid data found", nil)
	}
	if len(res.Transactions) == 0 && len(res.Invoices) == 0 {
		return res, NewFileParseError(fileName, "no transactions found", nil)
	}
	sortNewestFirst(res.Transactions)
	return res, nil
}

type zipEntry struct {
	name string
	data []byte
}

// readZipEntries reads every entry whose suffix is in exts. Other entries are
// neither size-checked nor decompressed.
func readZipEntries(fileName string, data []byte, maxEntrySize int64, exts ...string) ([]zipEntry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, NewFileParseError(fileName, "invalid ZIP archive", err)
	}

	var entries []zipEntry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !hasExt(f.Name, exts) {
			continue
		}
		if int64(f.UncompressedSize64) > maxEntrySize {
			return nil, NewFileSizeError(fileName+"/"+f.Name, int64(f.UncompressedSize64), maxEntrySize)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, NewFileParseError(fileName, "failed to open "+f.Name, err)
		}
		b, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
		rc.Close()
		if err != nil {
			return nil, NewFileParseError(fileName, "failed to read "+f.Name, err)
		}
		if int64(len(b)) > maxEntrySize {
			return nil, NewFileSizeError(fileName+"/"+f.Name, int64(len(b)), maxEntrySize)
		}
		entries = append(entries, zipEntry{name: f.Name, data: b})
	}
	return entries, nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
