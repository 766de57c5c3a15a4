package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFromJSON5(t *testing.T) {
	t.Setenv("GDSCRAPE_CONCURRENCY", "")
	path := filepath.Join(t.TempDir(), ConfigFileName)
	data := `{
  // site and locale
  base_url: "https://www.glassdoor.co.uk",
  default_locale: "uk",
  concurrency: 4,
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.BaseURL != "https://www.glassdoor.co.uk" || cfg.DefaultLocale != "uk" || cfg.Concurrency != 4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Fatalf("expected default timeout to be kept, got %d", cfg.TimeoutSeconds)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	t.Setenv("GDSCRAPE_TIMEOUT", "45")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.TimeoutSeconds != 45 {
		t.Fatalf("expected env default, got %d", cfg.TimeoutSeconds)
	}
	if cfg.BaseURL == "" {
		t.Fatalf("expected default base url")
	}
}

func TestReadProxies(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProxiesFileName)
	data := "# comment\nhttp://a:1\n\n  ca http://b:2  \n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write proxies: %v", err)
	}

	proxies, err := ReadProxies(path)
	if err != nil {
		t.Fatalf("ReadProxies: %v", err)
	}
	if diff := cmp.Diff([]string{"http://a:1", "ca http://b:2"}, proxies); diff != "" {
		t.Fatalf("unexpected proxies (-want +got):\n%s", diff)
	}
}

func TestLoadProxiesPrefersFlag(t *testing.T) {
	t.Setenv("GDSCRAPE_PROXIES", "http://env:1")

	proxies, err := LoadProxies(" http://a:1, ,http://b:2 ")
	if err != nil {
		t.Fatalf("LoadProxies: %v", err)
	}
	if diff := cmp.Diff([]string{"http://a:1", "http://b:2"}, proxies); diff != "" {
		t.Fatalf("unexpected proxies (-want +got):\n%s", diff)
	}

	proxies, err = LoadProxies("")
	if err != nil {
		t.Fatalf("LoadProxies: %v", err)
	}
	if diff := cmp.Diff([]string{"http://env:1"}, proxies); diff != "" {
		t.Fatalf("unexpected proxies (-want +got):\n%s", diff)
	}
}

func TestReadCookies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CookiesFileName)
	if err := os.WriteFile(path, []byte(`{GSESSIONID: "abc", "gdId": "x",}`), 0o644); err != nil {
		t.Fatalf("write cookies: %v", err)
	}

	cookies, err := ReadCookies(path)
	if err != nil {
		t.Fatalf("ReadCookies: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"GSESSIONID": "abc", "gdId": "x"}, cookies); diff != "" {
		t.Fatalf("unexpected cookies (-want +got):\n%s", diff)
	}

	missing, err := ReadCookies(filepath.Join(dir, "none.json"))
	if err != nil {
		t.Fatalf("ReadCookies missing: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected no cookies, got %v", missing)
	}
}

func TestInitDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DirName)

	created, err := InitDir(dir)
	if err != nil {
		t.Fatalf("InitDir: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 files, got %v", created)
	}

	cfg, err := LoadFrom(filepath.Join(dir, ConfigFileName))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.DefaultLocale == "" {
		t.Fatalf("expected written defaults, got %+v", cfg)
	}
	proxies, err := ReadProxies(filepath.Join(dir, ProxiesFileName))
	if err != nil || len(proxies) != 0 {
		t.Fatalf("expected empty proxies file, got %v (%v)", proxies, err)
	}

	again, err := InitDir(dir)
	if err != nil {
		t.Fatalf("second InitDir: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected existing files to be kept, got %v", again)
	}
}
