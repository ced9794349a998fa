package pagination_test

import (
	"testing"

	"geodata/internal/common/pagination"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := pagination.DefaultConfig()
	if cfg.DefaultLimit != 50 || cfg.MaxLimit != 500 {
		t.Errorf("DefaultConfig() = %+v, want {50 500}", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("with env vars set", func(t *testing.T) {
		t.Setenv("PAGINATION_DEFAULT_LIMIT", "30")
		t.Setenv("PAGINATION_MAX_LIMIT", "200")

		cfg := pagination.LoadFromEnv()
		if cfg.DefaultLimit != 30 || cfg.MaxLimit != 200 {
			t.Errorf("LoadFromEnv() = %+v", cfg)
		}
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		t.Setenv("PAGINATION_DEFAULT_LIMIT", "abc")
		t.Setenv("PAGINATION_MAX_LIMIT", "-1")

		if cfg := pagination.LoadFromEnv(); cfg != pagination.DefaultConfig() {
			t.Errorf("LoadFromEnv() = %+v, want defaults", cfg)
		}
	})

	t.Run("default limit capped by max", func(t *testing.T) {
		t.Setenv("PAGINATION_DEFAULT_LIMIT", "100")
		t.Setenv("PAGINATION_MAX_LIMIT", "20")

		if cfg := pagination.LoadFromEnv(); cfg.DefaultLimit != 20 {
			t.Errorf("DefaultLimit = %d, want 20", cfg.DefaultLimit)
		}
	})
}
