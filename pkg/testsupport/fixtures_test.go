package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestLoadFixture(t *testing.T) {
	path := TempFile(t, "test.txt", []byte("test fixture content"))

	result := LoadFixture(t, path)
	if string(result) != "test fixture content" {
		t.Errorf("expected %q, got %q", "test fixture content", result)
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	path := TempFile(t, "test.json", []byte(`{"name":"test","value":42,"items":["a","b","c"]}`))

	var result struct {
		Name  string   `json:"name"`
		Value int      `json:"value"`
		Items []string `json:"items"`
	}
	LoadFixtureJSON(t, path, &result)

	if result.Name != "test" || result.Value != 42 || len(result.Items) != 3 {
		t.Errorf("unexpected fixture contents %+v", result)
	}
}

func TestTempFile(t *testing.T) {
	path := TempFile(t, "x.bin", []byte{1, 2, 3})
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) != 3 {
		t.Errorf("expected 3 bytes, got %d", len(data))
	}
}

func TestFixturePath(t *testing.T) {
	if got := FixturePath("catalog.json"); got != filepath.Join("testdata", "catalog.json") {
		t.Errorf("unexpected path %q", got)
	}
}

func TestOpenSQLite(t *testing.T) {
	db := OpenSQLite(t)
	var n int
	if err := db.NewSelect().ColumnExpr("1").Scan(context.Background(), &n); err != nil {
		t.Fatalf("select: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1, got %d", n)
	}
}

func TestStartRedis(t *testing.T) {
	mr, client := StartRedis(t)
	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("expected v, got %q", got)
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := WriteWorkbook(t, [][]any{
		{1, "Menu", "desc"},
		{nil, 1, "Submenu", "desc"},
	})

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "1" || rows[1][0] != "" {
		t.Errorf("unexpected rows %q", rows)
	}
}
