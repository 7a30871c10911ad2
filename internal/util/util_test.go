package util

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestServerTLSConfigGeneratesCertificate(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "tls", "server.crt")
	keyFile := filepath.Join(dir, "tls", "server.key")

	cfg, err := ServerTLSConfig(certFile, keyFile, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Certificates) != 1 || cfg.MinVersion != tls.VersionTLS12 {
		t.Fatalf("config = %+v", cfg)
	}

	info, err := os.Stat(keyFile)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 && os.PathSeparator == '/' {
		t.Errorf("key file mode %v is readable by others", perm)
	}

	// A second call reuses the files.
	before, _ := os.ReadFile(certFile)
	if _, err := ServerTLSConfig(certFile, keyFile, true); err != nil {
		t.Fatal(err)
	}
	after, _ := os.ReadFile(certFile)
	if string(before) != string(after) {
		t.Error("certificate regenerated although it existed")
	}
}

func TestServerTLSConfigMissingFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := ServerTLSConfig(filepath.Join(dir, "a.crt"), filepath.Join(dir, "a.key"), false); err == nil {
		t.Fatal("missing key pair accepted")
	}
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"a.log", "b.log", "c.log", "keep.txt"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
		mtime := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}

	if removed := cleanOldLogs(dir, 2); removed != 1 {
		t.Fatalf("removed %d files", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.log")); !os.IsNotExist(err) {
		t.Error("oldest log kept")
	}
	for _, name := range []string{"b.log", "c.log", "keep.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s removed", name)
		}
	}
}

func TestGetSystemInfo(t *testing.T) {
	info := GetSystemInfo()
	if info.Platform == "" || info.CPUCores < 1 || info.GoVersion == "" {
		t.Errorf("info = %+v", info)
	}
	if usage := GetResourceUsage(); usage.Goroutines < 1 {
		t.Errorf("usage = %+v", usage)
	}
}
