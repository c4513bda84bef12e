package repositories

import (
	"errors"
	"testing"

	"github.com/desertthunder/mixt/internal/models"
	"github.com/desertthunder/mixt/internal/shared"
	libtest "github.com/desertthunder/mixt/internal/testing"
)

func setupDB(t *testing.T) *SourceRepository {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return NewSourceRepository(db)
}

func TestSourceRepositorySave(t *testing.T) {
	repo := setupDB(t)

	t.Run("round trips a source", func(t *testing.T) {
		src := libtest.MockSource("road trip", [2]string{"x", "One"}, [2]string{"y", "Two"})

		id, err := repo.Save(src)
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if len(id) != 36 {
			t.Errorf("expected UUID id, got %q", id)
		}

		got, err := repo.Get("road trip")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got.Keys) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(got.Keys))
		}
		if got.Keys[0] != (models.TrackKey{Artist: "x", Title: "One"}) {
			t.Errorf("track order not preserved: %v", got.Keys)
		}
		if len(got.Header) != 2 || got.Header[0] != models.ColumnName {
			t.Errorf("header not preserved: %v", got.Header)
		}
		if got.Records[got.Keys[1]][models.ColumnArtist] != "y" {
			t.Errorf("metadata not preserved: %v", got.Records)
		}
	})

	t.Run("saving again replaces the snapshot", func(t *testing.T) {
		first := libtest.MockSource("gym", [2]string{"x", "One"}, [2]string{"y", "Two"})
		if _, err := repo.Save(first); err != nil {
			t.Fatalf("first Save failed: %v", err)
		}

		second := libtest.MockSource("gym", [2]string{"z", "Three"})
		if _, err := repo.Save(second); err != nil {
			t.Fatalf("second Save failed: %v", err)
		}

		got, err := repo.Get("gym")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got.Keys) != 1 || got.Keys[0].Artist != "z" {
			t.Errorf("expected replaced snapshot, got %v", got.Keys)
		}
	})
}

func TestSourceRepositoryGet(t *testing.T) {
	repo := setupDB(t)

	_, err := repo.Get("missing")
	if !errors.Is(err, shared.ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestSourceRepositoryList(t *testing.T) {
	repo := setupDB(t)

	for _, name := range []string{"zeta", "alpha"} {
		src := libtest.MockSource(name, [2]string{"x", "One"})
		if _, err := repo.Save(src); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
	}

	infos, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(infos))
	}
	if infos[0].Name != "alpha" || infos[1].Name != "zeta" {
		t.Errorf("expected name order, got %v", infos)
	}
	if infos[0].TrackCount != 1 {
		t.Errorf("expected track count 1, got %d", infos[0].TrackCount)
	}
}

func TestSourceRepositoryDelete(t *testing.T) {
	repo := setupDB(t)

	src := libtest.MockSource("temp", [2]string{"x", "One"})
	if _, err := repo.Save(src); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.Delete("temp"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get("temp"); !errors.Is(err, shared.ErrSourceNotFound) {
		t.Errorf("expected source gone, got %v", err)
	}

	if err := repo.Delete("temp"); !errors.Is(err, shared.ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound on double delete, got %v", err)
	}
}

func TestSourceRepositoryClear(t *testing.T) {
	repo := setupDB(t)

	for _, name := range []string{"a", "b"} {
		if _, err := repo.Save(libtest.MockSource(name, [2]string{"x", "One"})); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if err := repo.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	infos, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("expected empty cache, got %d sources", len(infos))
	}
}
