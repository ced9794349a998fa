package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("GEO_TEST_STR", "")
	assert.Equal(t, "def", GetEnvString("GEO_TEST_STR", "def"))

	t.Setenv("GEO_TEST_STR", "value")
	assert.Equal(t, "value", GetEnvString("GEO_TEST_STR", "def"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: "", want: 8080},
		{raw: "9090", want: 9090},
		{raw: " 42 ", want: 42},
		{raw: "-1", want: -1},
		{raw: "12abc", want: 8080},
		{raw: "1.5", want: 8080},
	}
	for _, tt := range tests {
		t.Setenv("GEO_TEST_INT", tt.raw)
		assert.Equal(t, tt.want, GetEnvInt("GEO_TEST_INT", 8080), "raw %q", tt.raw)
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("GEO_TEST_FLOAT", "0.25")
	assert.Equal(t, 0.25, GetEnvFloat("GEO_TEST_FLOAT", 1))

	t.Setenv("GEO_TEST_FLOAT", "fast")
	assert.Equal(t, 1.0, GetEnvFloat("GEO_TEST_FLOAT", 1))
}

func TestGetEnvBool(t *testing.T) {
	for raw, want := range map[string]bool{"1": true, "true": true, "TRUE": true, "f": false, "False": false} {
		t.Setenv("GEO_TEST_BOOL", raw)
		assert.Equal(t, want, GetEnvBool("GEO_TEST_BOOL", !want), "raw %q", raw)
	}

	t.Setenv("GEO_TEST_BOOL", "yes")
	assert.True(t, GetEnvBool("GEO_TEST_BOOL", true))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("GEO_TEST_DUR", "1h30m")
	assert.Equal(t, 90*time.Minute, GetEnvDuration("GEO_TEST_DUR", time.Second))

	t.Setenv("GEO_TEST_DUR", "30")
	assert.Equal(t, time.Second, GetEnvDuration("GEO_TEST_DUR", time.Second))
}

func TestGetEnvStringList(t *testing.T) {
	def := []string{"cia_factbook"}

	t.Setenv("GEO_TEST_LIST", "")
	assert.Equal(t, def, GetEnvStringList("GEO_TEST_LIST", def))

	t.Setenv("GEO_TEST_LIST", " rss, ,web ,")
	assert.Equal(t, []string{"rss", "web"}, GetEnvStringList("GEO_TEST_LIST", def))

	t.Setenv("GEO_TEST_LIST", " , ")
	assert.Equal(t, def, GetEnvStringList("GEO_TEST_LIST", def))
}
