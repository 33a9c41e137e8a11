package store

import (
	"bytes"
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateAppliesOnFreshDB(t *testing.T) {
	db := testDB(t)

	// testDB already ran Migrate, so a second run must be a no-op.
	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}
}

func TestFreshDBMigratesFromZero(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	v, err := db.SchemaVersion()
	if err != nil || v != 0 {
		t.Fatalf("SchemaVersion() = %d, %v; want 0, nil", v, err)
	}
	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if !result.Changed || result.Version != 1 {
		t.Errorf("Migrate() = %+v, want changed to version 1", result)
	}
	if db.Path() == "" {
		t.Error("Path() is empty")
	}
}

func TestBlobsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p2pm.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	if err := db.PutBlobs(map[string][]byte{"k": []byte("v")}); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()
	got, err := db.GetBlob("k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v" {
		t.Errorf("value = %q, want v", got)
	}
}

func TestGetBlobMissing(t *testing.T) {
	db := testDB(t)
	got, err := db.GetBlob("missing")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("got %q, want nil", got)
	}
}

func TestPutBlobsUpsert(t *testing.T) {
	db := testDB(t)

	if err := db.PutBlobs(map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
		t.Fatal(err)
	}
	if err := db.PutBlobs(map[string][]byte{"a": []byte("3")}); err != nil {
		t.Fatal(err)
	}

	tests := map[string]string{"a": "3", "b": "2"}
	for key, want := range tests {
		got, err := db.GetBlob(key)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, []byte(want)) {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}

	keys, err := db.BlobKeys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("keys = %v, want [a b]", keys)
	}
}

func TestPutEmptyValueIsPresent(t *testing.T) {
	db := testDB(t)
	if err := db.PutBlobs(map[string][]byte{"empty": {}}); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetBlob("empty")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil", got)
	}
}

func TestDeleteBlobs(t *testing.T) {
	db := testDB(t)
	if err := db.PutBlobs(map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteBlobs("a", "missing"); err != nil {
		t.Fatal(err)
	}
	if got, _ := db.GetBlob("a"); got != nil {
		t.Errorf("a = %q after delete", got)
	}
	if got, _ := db.GetBlob("b"); string(got) != "2" {
		t.Errorf("b = %q, want 2", got)
	}
}

func TestPutNilDeletes(t *testing.T) {
	db := testDB(t)
	if err := db.PutBlobs(map[string][]byte{"a": []byte("1")}); err != nil {
		t.Fatal(err)
	}
	if err := db.PutBlobs(map[string][]byte{"a": nil, "b": []byte("2")}); err != nil {
		t.Fatal(err)
	}
	if got, _ := db.GetBlob("a"); got != nil {
		t.Errorf("a = %q, want deleted", got)
	}
	if got, _ := db.GetBlob("b"); string(got) != "2" {
		t.Errorf("b = %q, want 2", got)
	}
}
