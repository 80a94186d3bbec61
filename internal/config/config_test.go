package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Engine.DescriptorDim != 128 {
		t.Errorf("DescriptorDim = %d, want 128", cfg.Engine.DescriptorDim)
	}
	if cfg.Engine.MatchThreshold != 0.6 {
		t.Errorf("MatchThreshold = %v, want 0.6", cfg.Engine.MatchThreshold)
	}
	if cfg.Engine.GraceBeforeMinutes != 120 {
		t.Errorf("GraceBeforeMinutes = %d, want 120", cfg.Engine.GraceBeforeMinutes)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Web.Port)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("MaxOpenConns = %d, want 25", cfg.Database.MaxOpenConns)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DESCRIPTOR_DIM", "512")
	t.Setenv("MATCH_THRESHOLD", "0.45")
	t.Setenv("GRACE_BEFORE_MINUTES", "30")
	t.Setenv("WEB_PORT", "9000")
	t.Setenv("USE_ANN_INDEX", "true")
	t.Setenv("ATTENDANCE_TIMEZONE", "Asia/Kolkata")

	cfg := Load()

	if cfg.Engine.DescriptorDim != 512 {
		t.Errorf("DescriptorDim = %d, want 512", cfg.Engine.DescriptorDim)
	}
	if cfg.Engine.MatchThreshold != 0.45 {
		t.Errorf("MatchThreshold = %v, want 0.45", cfg.Engine.MatchThreshold)
	}
	if cfg.Engine.GraceBeforeMinutes != 30 {
		t.Errorf("GraceBeforeMinutes = %d, want 30", cfg.Engine.GraceBeforeMinutes)
	}
	if cfg.Web.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Web.Port)
	}
	if !cfg.Engine.UseANNIndex {
		t.Error("UseANNIndex = false, want true")
	}
	if cfg.Engine.Timezone != "Asia/Kolkata" {
		t.Errorf("Timezone = %q, want Asia/Kolkata", cfg.Engine.Timezone)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DESCRIPTOR_DIM", "not-a-number")
	t.Setenv("MATCH_THRESHOLD", "-1")
	t.Setenv("WEB_PORT", "0")

	cfg := Load()

	if cfg.Engine.DescriptorDim != 128 {
		t.Errorf("DescriptorDim = %d, want fallback 128", cfg.Engine.DescriptorDim)
	}
	if cfg.Engine.MatchThreshold != 0.6 {
		t.Errorf("MatchThreshold = %v, want fallback 0.6", cfg.Engine.MatchThreshold)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("Port = %d, want fallback 8080", cfg.Web.Port)
	}
}
