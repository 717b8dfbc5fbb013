package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"salestats/internal/config"
	"salestats/internal/log"
	"salestats/internal/source/memory"
	"salestats/internal/source/remote"
	"salestats/internal/storage"
)

func TestCreateBackendByType(t *testing.T) {
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "tx.json")
	if err := os.WriteFile(dataFile, []byte(`[{"dateOfSale":"2022-01-01","price":1,"sold":true,"category":"a"}]`), 0o644); err != nil {
		t.Fatalf("write data file: %v", err)
	}

	f := NewFactory(log.Discard())
	ctx := context.Background()

	res, err := f.CreateBackend(ctx, Config{Type: RemoteBackend, SourceURL: "http://example.invalid/tx.json", FetchTimeout: time.Second})
	if err != nil {
		t.Fatalf("remote: %v", err)
	}
	if _, ok := res.Source.(*remote.Client); !ok || res.Cleanup != nil {
		t.Fatalf("remote: unexpected result %#v", res)
	}

	res, err = f.CreateBackend(ctx, Config{Type: MemoryBackend, DataFile: dataFile})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	store, ok := res.Source.(*memory.Store)
	if !ok || store.Len() != 1 {
		t.Fatalf("memory: unexpected result %#v", res)
	}

	dbPath := filepath.Join(dir, "tx.db")
	writer, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("prepare sqlite: %v", err)
	}
	_ = writer.Close()

	res, err = f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: dbPath})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	if _, ok := res.Source.(*storage.SQLiteRepository); !ok || res.Cleanup == nil {
		t.Fatalf("sqlite: unexpected result %#v", res)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("sqlite cleanup: %v", err)
	}
}

func TestCreateBackendFailsOnMissingData(t *testing.T) {
	dir := t.TempDir()
	f := NewFactory(log.Discard())
	ctx := context.Background()

	cases := []Config{
		{Type: MemoryBackend, DataFile: filepath.Join(dir, "typo.json")},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "typo.db")},
	}
	for _, c := range cases {
		if res, err := f.CreateBackend(ctx, c); err == nil {
			t.Fatalf("%s: expected error, got %#v", c.Type, res)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "typo.db")); !os.IsNotExist(err) {
		t.Fatalf("sqlite backend must not create the database file, stat err=%v", err)
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	f := NewFactory(log.Discard())
	cases := []Config{
		{Type: "postgres"},
		{Type: RemoteBackend},
		{Type: SQLiteBackend},
		{Type: MemoryBackend},
	}
	for _, c := range cases {
		if _, err := f.CreateBackend(context.Background(), c); err == nil {
			t.Fatalf("expected error for %+v", c)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}

	app := &config.Config{
		RecordBackend: "sqlite",
		SourceURL:     "http://x/y.json",
		FetchTimeout:  3 * time.Second,
		FetchMaxBytes: 1024,
		SQLiteDBPath:  "./db.sqlite",
		DataFile:      "./tx.json",
	}
	got, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Config{Type: SQLiteBackend, SourceURL: "http://x/y.json", FetchTimeout: 3 * time.Second, FetchMaxBytes: 1024, SQLiteDBPath: "./db.sqlite", DataFile: "./tx.json"}
	if got != want {
		t.Fatalf("FromAppConfig = %+v, want %+v", got, want)
	}

	app.RecordBackend = "sheets"
	if _, err := FromAppConfig(app); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
