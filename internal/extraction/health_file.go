package extraction

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// ParseHealthFile extracts and aggregates metrics from a JSON document or a
// ZIP of JSON documents.
func ParseHealthFile(fileName string, data []byte) (HealthResult, error) {
	return parseHealthFile(fileName, data, DefaultMaxFileSize)
}

func parseHealthFile(fileName string, data []byte, maxEntrySize int64) (HealthResult, error) {
	res := HealthResult{FileName: fileName}
	if len(trimSpaceBytes(data)) == 0 {
		return res, NewEmptyFileError(fileName)
	}

	var ext HealthExtraction
	switch strings.ToLower(path.Ext(fileName)) {
	case ".json":
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			return res, NewFileParseError(fileName, "invalid JSON", err)
		}
		ext = ExtractHealthMetrics(raw)
	case ".zip":
		entries, err := readZipEntries(fileName, data, maxEntrySize, ".json")
		if err != nil {
			return res, err
		}
		for _, e := range entries {
			var raw any
			if err := json.Unmarshal(e.data, &raw); err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s/%s: invalid JSON: %v", fileName, e.name, err))
				continue
			}
			inner := ExtractHealthMetrics(raw)
			ext.Metrics = append(ext.Metrics, inner.Metrics...)
			ext.Skipped = append(ext.Skipped, inner.Skipped...)
		}
	default:
		return res, NewUnsupportedFormatError(fileName, path.Ext(fileName))
	}

	res.Skipped = ext.Skipped
	if len(ext.Metrics) == 0 {
		return res, NewFileParseError(fileName, "no health metrics found", nil)
	}
	res.Metrics = CalculateDailyAggregates(ext.Metrics)
	return res, nil
}
