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

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_EngineDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MinEdge != 0.03 {
		t.Fatalf("unexpected MinEdge: %v", cfg.MinEdge)
	}
	if cfg.KellyFraction != 0.25 {
		t.Fatalf("unexpected KellyFraction: %v", cfg.KellyFraction)
	}
	if cfg.MaxKelly != 0.05 {
		t.Fatalf("unexpected MaxKelly: %v", cfg.MaxKelly)
	}
	if cfg.MinConfidence != 40 || cfg.SniperThreshold != 55 {
		t.Fatalf("unexpected confidence thresholds: %v / %v", cfg.MinConfidence, cfg.SniperThreshold)
	}
	if cfg.StalenessThreshold != 60*time.Minute {
		t.Fatalf("unexpected StalenessThreshold: %s", cfg.StalenessThreshold)
	}
	if cfg.SteamDriftBp != 30 {
		t.Fatalf("unexpected SteamDriftBp: %v", cfg.SteamDriftBp)
	}
	if cfg.ResolverGracePeriod != 2*time.Hour {
		t.Fatalf("unexpected ResolverGracePeriod: %s", cfg.ResolverGracePeriod)
	}
}

func TestLoad_SniperThresholdMustExceedMinConfidence(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SCORING_MIN_CONFIDENCE", "50")
	t.Setenv("SCORING_SNIPER_THRESHOLD", "45")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when sniper threshold below min confidence")
	}
}

func TestLoad_MarketCorrectionsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("MARKET_CORRECTIONS", "over_25:1.20, btts_yes:1.25 ,home:0.95")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.MarketCorrections) != 3 {
		t.Fatalf("unexpected corrections: %+v", cfg.MarketCorrections)
	}
	if cfg.MarketCorrections["over_25"] != 1.20 {
		t.Fatalf("unexpected over_25 multiplier: %v", cfg.MarketCorrections["over_25"])
	}
	if cfg.MarketCorrections["home"] != 0.95 {
		t.Fatalf("unexpected home multiplier: %v", cfg.MarketCorrections["home"])
	}
}

func TestLoad_EngineMarketOverridesParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("ENGINE_MARKET_ODDS_FLOORS", "home:1.70, over_25:1.60")
	t.Setenv("ENGINE_MARKET_MIN_EDGE", "btts_yes:0.05")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.EngineMarketOddsFloors["home"] != 1.70 {
		t.Fatalf("unexpected home floor: %v", cfg.EngineMarketOddsFloors["home"])
	}
	if cfg.EngineMarketOddsFloors["over_25"] != 1.60 {
		t.Fatalf("unexpected over_25 floor: %v", cfg.EngineMarketOddsFloors["over_25"])
	}
	if cfg.EngineMarketMinEdge["btts_yes"] != 0.05 {
		t.Fatalf("unexpected btts_yes min edge: %v", cfg.EngineMarketMinEdge["btts_yes"])
	}
}

func TestLoad_MarketCorrectionsRejectsMalformedItems(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("MARKET_CORRECTIONS", "over_25=1.20")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed MARKET_CORRECTIONS item")
	}
}

func TestLoad_InjuryFeedRequiresBaseURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("INJURY_FEED_ENABLED", "true")
	t.Setenv("INJURY_FEED_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when INJURY_FEED_ENABLED=true without INJURY_FEED_BASE_URL")
	}
}
