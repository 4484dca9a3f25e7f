package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func csvOrJSON(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".csv") || strings.HasSuffix(n, ".json")
}

func TestReadDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.csv", "b")
	writeFile(t, root, "a.json", "a")
	writeFile(t, root, "notes.txt", "ignored")
	writeFile(t, root, "2024/03/deep.CSV", "deep")

	files, err := ReadDir(context.Background(), root, csvOrJSON, 0)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"2024/03/deep.CSV", "a.json", "b.csv"}, names)
	assert.Equal(t, "deep", string(files[0].Data))
}

func TestReadDirTruncatesOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.csv", strings.Repeat("x", 100))

	files, err := ReadDir(context.Background(), root, nil, 10)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Len(t, files[0].Data, 11)
}

func TestReadDirMissingRoot(t *testing.T) {
	_, err := ReadDir(context.Background(), filepath.Join(t.TempDir(), "nope"), nil, 0)
	assert.Error(t, err)
}

func TestReadDirCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.csv", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadDir(ctx, root, nil, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantPrefix string
		wantErr    bool
	}{
		{"gs://exports/2024/ledger.json", "exports", "2024/ledger.json", false},
		{"gs://exports/health/", "exports", "health/", false},
		{"gs://exports", "exports", "", false},
		{"s3://exports/file.csv", "", "", true},
		{"gs:///file.csv", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, prefix, err := ParseGCSURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantPrefix, prefix)
		})
	}
}
