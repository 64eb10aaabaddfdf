package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_insights/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 168*time.Hour, cfg.Pipeline.Window)
	assert.Equal(t, 0.05, cfg.Thresholds().Positive)
	assert.Equal(t, -0.05, cfg.Thresholds().Negative)
	assert.Empty(t, cfg.ProductIDs)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WINDOW_SIZE", "1d")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("INGEST_PRODUCT_IDS", "B0D1,B0D2")
	t.Setenv("PIPELINE_WORKERS", "3")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.Pipeline.Window)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"B0D1", "B0D2"}, cfg.ProductIDs)
	assert.Equal(t, 3, cfg.Pipeline.Workers)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"bad window":         {"WINDOW_SIZE", "soon"},
		"non-positive":       {"WINDOW_SIZE", "0d"},
		"inverted threshold": {"THRESHOLD_POSITIVE", "-0.2"},
		"bad workers":        {"INGEST_WORKERS", "0"},
		"bad feed url":       {"FEED_BASE_URL", "not a url"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestPipeline_DefaultVocabulary(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	model, cat, err := cfg.BuildPipeline()
	require.NoError(t, err)
	assert.True(t, model.Has("great"))
	assert.Equal(t, "electronics", cat.Category("anything"))
	assert.Contains(t, cat.For("anything").Terms(), "battery life")
}

func TestPipeline_VocabularyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_category: electronics
categories:
  electronics: [battery, screen]
  apparel: [fit, fabric, stitching]
products:
  P-SHIRT: apparel
lexicon:
  snug: 1.5
  cheap: -1.2
  fine: 0
`), 0o600))
	t.Setenv("VOCABULARY_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	model, cat, err := cfg.BuildPipeline()
	require.NoError(t, err)

	assert.True(t, model.Has("snug"))
	assert.False(t, model.Has("fine"), "zero weight removes the term")
	assert.Equal(t, "apparel", cat.Category("P-SHIRT"))
	assert.Equal(t, []string{"stitching", "fabric", "fit"}, cat.For("P-SHIRT").Terms())
}

func TestLoadVocabulary_Invalid(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	cases := map[string]string{
		"missing file":  filepath.Join(dir, "absent.yaml"),
		"bad yaml":      write("bad.yaml", "categories: [unclosed"),
		"no categories": write("empty.yaml", "default_category: x\n"),
		"no default":    write("nodefault.yaml", "categories:\n  a: [x]\n"),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadVocabulary(path)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}

	t.Run("unknown default category", func(t *testing.T) {
		t.Setenv("VOCABULARY_FILE", write("unknown.yaml", "default_category: b\ncategories:\n  a: [x]\n"))
		cfg, err := Load()
		require.NoError(t, err)
		_, _, err = cfg.BuildPipeline()
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("lexicon weight out of range", func(t *testing.T) {
		t.Setenv("VOCABULARY_FILE", write("lex.yaml", "default_category: a\ncategories:\n  a: [x]\nlexicon:\n  meh: 9\n"))
		cfg, err := Load()
		require.NoError(t, err)
		_, _, err = cfg.BuildPipeline()
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}
