package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "gdscrape"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
	CookiesFileName = "cookies.json"
)

// Config contains default scrape settings.
type Config struct {
	BaseURL        string `json:"base_url"`
	DefaultCountry string `json:"default_country"`
	DefaultLocale  string `json:"default_locale"`
	Concurrency    int    `json:"concurrency"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        envString("GDSCRAPE_BASE_URL", "https://www.glassdoor.com"),
		DefaultCountry: envString("GDSCRAPE_DEFAULT_COUNTRY", ""),
		DefaultLocale:  envString("GDSCRAPE_DEFAULT_LOCALE", "us"),
		Concurrency:    envInt("GDSCRAPE_CONCURRENCY", 2),
		TimeoutSeconds: envInt("GDSCRAPE_TIMEOUT", 30),
	}
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func Load() (Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFrom(filepath.Join(dir, ConfigFileName))
}

// LoadFrom reads config from path on top of the defaults. A missing or
// empty file yields the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := readOptional(path)
	if err != nil || data == nil {
		return cfg, err
	}
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// InitDir writes default config.json, proxies.txt and cookies.json into dir
// unless they already exist. It returns the paths it created.
func InitDir(dir string) ([]string, error) {
	var created []string
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeJSON(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		header := "# one proxy URL per line, optionally prefixed with a country code: ca http://host:port\n"
		if err := os.WriteFile(proxiesPath, []byte(header), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	cookiesPath := filepath.Join(dir, CookiesFileName)
	if _, err := os.Stat(cookiesPath); errors.Is(err, os.ErrNotExist) {
		if err := writeJSON(cookiesPath, map[string]string{}); err != nil {
			return created, err
		}
		created = append(created, cookiesPath)
	}

	return created, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadProxies resolves proxies from the flag value, GDSCRAPE_PROXIES, or
// proxies.txt in that order.
func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("GDSCRAPE_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return ReadProxies(filepath.Join(dir, ProxiesFileName))
}

func ReadProxies(path string) ([]string, error) {
	data, err := readOptional(path)
	if err != nil || data == nil {
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

// ReadCookies reads extra request cookies, keyed by name, from a json5 file.
func ReadCookies(path string) (map[string]string, error) {
	data, err := readOptional(path)
	if err != nil || data == nil {
		return map[string]string{}, err
	}

	cookies := map[string]string{}
	if err := json5.Unmarshal(data, &cookies); err != nil {
		return nil, err
	}
	return cookies, nil
}

// readOptional returns nil data for missing or blank files.
func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	return data, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
