package speeddata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const header = "road_id,day_id,time_id,speed"

func writeCSV(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := header + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
