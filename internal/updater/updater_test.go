package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"kolipanel/internal/store/memory"
)

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.2.0", "1.10.0", -1},
		{"2.0", "1.9.9", 1},
		{"1.0", "1.0.0", 0},
		{"1.4", "1.4.2", -1},
		{"", "1.0", -1},
		{"1.x", "1.0", 0},
		{"1.0", "banana", 0},
	}
	for _, c := range cases {
		if got := CompareVersions(c.a, c.b); got != c.want {
			t.Fatalf("CompareVersions(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestCheckReportsNewerVersion(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	if err := st.Set(ctx, "app_version", map[string]any{
		"version":      "2.1.0",
		"download_url": "https://example.com/kolipanel",
		"notes":        "bug fixes",
	}); err != nil {
		t.Fatalf("seed manifest: %v", err)
	}

	svc := New(st, "2.0.3")
	m, newer, err := svc.Check(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !newer {
		t.Fatal("expected an available update")
	}
	if m.Version != "2.1.0" || m.Notes != "bug fixes" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if got := svc.State(); got != StateIdle {
		t.Fatalf("state after check = %q, want idle", got)
	}
}

func TestCheckSameVersionIsNotAnUpdate(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	if err := st.Set(ctx, "app_version", map[string]any{
		"version":      "2.0.3",
		"download_url": "https://example.com/kolipanel",
	}); err != nil {
		t.Fatalf("seed manifest: %v", err)
	}

	svc := New(st, "2.0.3")
	_, newer, err := svc.Check(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if newer {
		t.Fatal("same version must not report an update")
	}
}

func TestCheckMissingManifest(t *testing.T) {
	svc := New(memory.New(), "1.0.0")
	m, newer, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if newer || m != nil {
		t.Fatalf("missing manifest must be a no-op, got manifest=%+v newer=%v", m, newer)
	}
}

func TestDownloadStagesBinary(t *testing.T) {
	payload := []byte("#!/bin/sh\necho next version\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	svc := New(memory.New(), "1.0.0")
	staged, err := svc.Download(context.Background(), Manifest{
		Version:     "1.1.0",
		DownloadURL: srv.URL + "/kolipanel",
	})
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer os.RemoveAll(staged)

	got, err := os.ReadFile(staged)
	if err != nil {
		t.Fatalf("read staged binary: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("staged content mismatch: %q", got)
	}
	info, err := os.Stat(staged)
	if err != nil {
		t.Fatalf("stat staged binary: %v", err)
	}
	if info.Mode()&0111 == 0 {
		t.Fatalf("staged binary is not executable: %v", info.Mode())
	}
	if svc.State() != StateReady {
		t.Fatalf("state after download = %q, want ready_to_install", svc.State())
	}
}

func TestDownloadFailureResetsState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	svc := New(memory.New(), "1.0.0")
	if _, err := svc.Download(context.Background(), Manifest{
		Version:     "1.1.0",
		DownloadURL: srv.URL + "/missing",
	}); err == nil {
		t.Fatal("expected download error for 404")
	}
	if svc.State() != StateIdle {
		t.Fatalf("state after failed download = %q, want idle", svc.State())
	}
}

func TestInstallWithoutStagedRelease(t *testing.T) {
	svc := New(memory.New(), "1.0.0")
	if err := svc.Install(context.Background()); err == nil {
		t.Fatal("install without a staged release must fail")
	}
}
