package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ARENA_WIDTH", "")
	t.Setenv("MAX_BALLS", "")
	t.Setenv("REDIS_URL", "")

	cfg := Load()

	if cfg.ArenaWidth != 700 || cfg.ArenaHeight != 1500 || cfg.ViewHeight != 600 {
		t.Errorf("arena defaults = %vx%v view %v", cfg.ArenaWidth, cfg.ArenaHeight, cfg.ViewHeight)
	}
	if cfg.MaxBalls != 12 {
		t.Errorf("MaxBalls = %d, want 12", cfg.MaxBalls)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.RedisURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ARENA_WIDTH", "820.5")
	t.Setenv("TICK_HZ", "30")
	t.Setenv("MAX_PARTICIPANTS", "not-a-number")

	cfg := Load()

	if cfg.ArenaWidth != 820.5 {
		t.Errorf("ArenaWidth = %v, want 820.5", cfg.ArenaWidth)
	}
	if cfg.TickHz != 30 {
		t.Errorf("TickHz = %d, want 30", cfg.TickHz)
	}
	if cfg.MaxParticipants != 50 {
		t.Errorf("invalid MAX_PARTICIPANTS should fall back to 50, got %d", cfg.MaxParticipants)
	}
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	dev := &Config{Environment: "development", JWTSecret: DefaultJWTSecret}
	if err := dev.Validate(); err != nil {
		t.Errorf("development with the default secret: %v", err)
	}

	prod := &Config{Environment: "production", JWTSecret: DefaultJWTSecret}
	if err := prod.Validate(); err == nil {
		t.Error("production accepted the default secret")
	}

	prod.JWTSecret = "a-real-secret"
	if err := prod.Validate(); err != nil {
		t.Errorf("production with a real secret: %v", err)
	}

	if err := (&Config{}).Validate(); err == nil {
		t.Error("empty secret accepted")
	}
}

func TestLoadUsesDefaultSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "production")

	if err := Load().Validate(); err == nil {
		t.Error("production without JWT_SECRET should fail validation")
	}
}
