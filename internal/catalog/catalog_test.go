package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yourorg/railbook/internal/models"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadNormalizesFieldAliases(t *testing.T) {
	path := writeTempJSON(t, `[
		{"name": "Delhi", "code": "NDLS"},
		{"station_name": "Mumbai Central", "station_code": "MMCT"},
		{"station": "Howrah", "t": "HWH"}
	]`)

	cat := Load(path)
	if cat.Len() != 3 {
		t.Fatalf("expected 3 stations, got %d", cat.Len())
	}

	res := cat.Search("", 1, 50)
	want := []models.Station{
		{Name: "Delhi", Code: "NDLS"},
		{Name: "Mumbai Central", Code: "MMCT"},
		{Name: "Howrah", Code: "HWH"},
	}
	for i, s := range want {
		if res.Items[i] != s {
			t.Errorf("item %d: expected %+v, got %+v", i, s, res.Items[i])
		}
	}
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	cat := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if cat.Len() != 0 {
		t.Errorf("expected empty catalog, got %d stations", cat.Len())
	}

	res := cat.Search("delhi", 1, 50)
	if res.Total != 0 || len(res.Items) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestLoadNotAListDegradesToEmpty(t *testing.T) {
	cat := Load(writeTempJSON(t, `{"not": "a list"}`))
	if cat.Len() != 0 {
		t.Errorf("expected empty catalog, got %d stations", cat.Len())
	}
}

func TestLoadAliasPrecedence(t *testing.T) {
	// When several aliases are populated the first one wins.
	cat := Load(writeTempJSON(t, `[{"name": "Primary", "station_name": "Secondary", "code": "PRI", "station_code": "SEC"}]`))
	res := cat.Search("", 1, 50)
	if res.Items[0].Name != "Primary" || res.Items[0].Code != "PRI" {
		t.Errorf("expected primary aliases to win, got %+v", res.Items[0])
	}
}
