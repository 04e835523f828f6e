package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.DBURL != "" {
		t.Fatalf("expected empty DB_URL default, got %q", cfg.DBURL)
	}
	if cfg.StatsAPIBaseURL != "https://statsapi.mlb.com" {
		t.Fatalf("unexpected StatsAPIBaseURL: %q", cfg.StatsAPIBaseURL)
	}
	if cfg.StatsAPISportID != 17 {
		t.Fatalf("unexpected StatsAPISportID: %d", cfg.StatsAPISportID)
	}
	if cfg.RefreshHour != 8 {
		t.Fatalf("unexpected RefreshHour: %d", cfg.RefreshHour)
	}
	if cfg.RefreshTimezone != "America/Los_Angeles" {
		t.Fatalf("unexpected RefreshTimezone: %q", cfg.RefreshTimezone)
	}
	if len(cfg.HomeTeams) != 6 {
		t.Fatalf("expected 6 default home teams, got %d", len(cfg.HomeTeams))
	}
	if cfg.MaxAssembleWorkers != 4 {
		t.Fatalf("unexpected MaxAssembleWorkers: %d", cfg.MaxAssembleWorkers)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != time.Hour {
		t.Fatalf("unexpected cache config: enabled=%t ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_StatsAPIParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STATSAPI_BASE_URL", "http://localhost:9090")
	t.Setenv("STATSAPI_SPORT_ID", "1")
	t.Setenv("STATSAPI_TIMEOUT", "5s")
	t.Setenv("STATSAPI_MAX_RETRIES", "0")
	t.Setenv("STATSAPI_CIRCUIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StatsAPIBaseURL != "http://localhost:9090" {
		t.Fatalf("unexpected StatsAPIBaseURL: %q", cfg.StatsAPIBaseURL)
	}
	if cfg.StatsAPISportID != 1 {
		t.Fatalf("unexpected StatsAPISportID: %d", cfg.StatsAPISportID)
	}
	if cfg.StatsAPITimeout != 5*time.Second {
		t.Fatalf("unexpected StatsAPITimeout: %s", cfg.StatsAPITimeout)
	}
	if cfg.StatsAPIMaxRetries != 0 {
		t.Fatalf("unexpected StatsAPIMaxRetries: %d", cfg.StatsAPIMaxRetries)
	}
	if cfg.StatsAPICircuitEnabled {
		t.Fatalf("expected StatsAPICircuitEnabled=false")
	}
}

func TestLoad_RefreshHourValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("REFRESH_HOUR", "24")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for REFRESH_HOUR out of range")
	}
}

func TestLoad_RefreshTimezoneValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("REFRESH_TIMEZONE", "Mars/Olympus_Mons")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown REFRESH_TIMEZONE")
	}
}

func TestLoad_SeasonStartValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SEASON_START", "October 1")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed SEASON_START")
	}
}

func TestLoad_HomeTeamsCSV(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("HOME_TEAMS", " Mesa Solar Sox , Peoria Javelinas ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.HomeTeams) != 2 {
		t.Fatalf("expected 2 home teams, got %v", cfg.HomeTeams)
	}
	if cfg.HomeTeams[0] != "Mesa Solar Sox" || cfg.HomeTeams[1] != "Peoria Javelinas" {
		t.Fatalf("unexpected home teams: %v", cfg.HomeTeams)
	}
}

func TestLoad_ProdRequiresJobToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when APP_ENV=prod without INTERNAL_JOB_TOKEN")
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "job-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InternalJobToken != "job-secret" {
		t.Fatalf("unexpected InternalJobToken")
	}
}
