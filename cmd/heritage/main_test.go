package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/heritage"
	"github.com/poiesic/heritage/config"
	"github.com/poiesic/heritage/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

var envVars = []string{
	"HERITAGE_CONFIG", "HERITAGE_CATALOG", "HERITAGE_ADDR",
	"QDRANT_URL", "QDRANT_API_KEY", "QDRANT_COLLECTION",
	"EMBED_PROVIDER", "GEMINI_API_KEY",
	"AIMLAPI_KEY", "AIMLAPI_EMBED_MODEL", "AIMLAPI_EMBED_URL",
}

// isolateEnv unsets the variables the app reads for the duration of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		if _, ok := os.LookupEnv(name); ok {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"heritage"}, args...))
	return out.String(), err
}

func findFlag(flags []cli.Flag, name string) cli.Flag {
	for _, f := range flags {
		for _, n := range f.Names() {
			if n == name {
				return f
			}
		}
	}
	return nil
}

func TestGlobalFlags(t *testing.T) {
	app := newApp()

	t.Run("environment variables", func(t *testing.T) {
		tests := map[string]string{
			"qdrant-url":     "QDRANT_URL",
			"qdrant-api-key": "QDRANT_API_KEY",
			"collection":     "QDRANT_COLLECTION",
			"embed-provider": "EMBED_PROVIDER",
			"gemini-api-key": "GEMINI_API_KEY",
			"aimlapi-key":    "AIMLAPI_KEY",
			"aimlapi-model":  "AIMLAPI_EMBED_MODEL",
			"aimlapi-url":    "AIMLAPI_EMBED_URL",
		}
		for name, env := range tests {
			flag, ok := findFlag(app.Flags, name).(*cli.StringFlag)
			require.True(t, ok, name)
			assert.Equal(t, []string{env}, flag.EnvVars, name)
		}
	})

	t.Run("log-level defaults to info with alias -l", func(t *testing.T) {
		flag, ok := findFlag(app.Flags, "l").(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, "log-level", flag.Name)
		assert.Equal(t, "info", flag.Value)
	})

	t.Run("commands", func(t *testing.T) {
		var names []string
		for _, cmd := range app.Commands {
			names = append(names, cmd.Name)
		}
		assert.Equal(t, []string{"search", "status", "serve", "seed", "catalog"}, names)
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heritage.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[store]
url = "http://file.example:6333"
collection = "from_file"

[seed]
batch_size = 16
max_retries = 7
`), 0o600))

	capture := func(t *testing.T, args ...string) *config.Config {
		t.Helper()
		var got *config.Config
		app := newApp()
		for _, cmd := range app.Commands {
			if cmd.Name == "seed" {
				cmd.Action = func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					got = cfg
					return err
				}
			}
		}
		require.NoError(t, app.Run(append([]string{"heritage"}, args...)))
		require.NotNil(t, got)
		return got
	}

	t.Run("defaults without a file", func(t *testing.T) {
		isolateEnv(t)
		cfg := capture(t, "seed")
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		isolateEnv(t)
		cfg := capture(t, "--config", path, "seed")
		assert.Equal(t, "http://file.example:6333", cfg.Store.URL)
		assert.Equal(t, "from_file", cfg.Store.Collection)
		assert.Equal(t, 16, cfg.Seed.BatchSize)
		assert.Equal(t, 7, cfg.Seed.MaxRetries)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("QDRANT_COLLECTION", "from_env")
		t.Setenv("AIMLAPI_EMBED_MODEL", "custom-embed")
		cfg := capture(t, "--config", path, "seed")
		assert.Equal(t, "from_env", cfg.Store.Collection)
		assert.Equal(t, "http://file.example:6333", cfg.Store.URL)
		assert.Equal(t, "custom-embed", cfg.Embedding.AlternateModel)
	})

	t.Run("blank collection keeps the default", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("QDRANT_URL", "http://localhost:6333")
		t.Setenv("QDRANT_API_KEY", "k")
		t.Setenv("QDRANT_COLLECTION", "")
		cfg := capture(t, "seed")
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "nepal_heritage", cfg.VectorStore().Collection)
	})

	t.Run("flags override file", func(t *testing.T) {
		isolateEnv(t)
		cfg := capture(t, "--config", path, "--collection", "from_flag",
			"seed", "--batch-size", "4", "--recreate", "--retry-delay", "250ms")
		assert.Equal(t, "from_flag", cfg.Store.Collection)
		assert.Equal(t, 4, cfg.Seed.BatchSize)
		assert.Equal(t, 7, cfg.Seed.MaxRetries)
		assert.True(t, cfg.Seed.Recreate)
		assert.Equal(t, config.Duration(250*time.Millisecond), cfg.Seed.RetryDelay)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		isolateEnv(t)
		_, err := runApp(t, "seed", "--pool-size", "0")
		assert.ErrorIs(t, err, config.ErrInvalid)
	})

	t.Run("missing file", func(t *testing.T) {
		isolateEnv(t)
		_, err := runApp(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "status")
		assert.Error(t, err)
	})
}

func TestSearchCommand(t *testing.T) {
	isolateEnv(t)

	t.Run("text output", func(t *testing.T) {
		out, err := runApp(t, "search", "protection")
		require.NoError(t, err)
		assert.Contains(t, out, "Method: local_keywords")
		assert.Contains(t, out, "Found 1 hits")
		assert.Contains(t, out, `0: 1 "Lakhe Mask" [0.600]`)
	})

	t.Run("multiple words form one query", func(t *testing.T) {
		out, err := runApp(t, "search", "--json", "indra", "jatra")
		require.NoError(t, err)

		var outcome core.Outcome
		require.NoError(t, json.Unmarshal([]byte(out), &outcome))
		assert.Equal(t, []core.ArtifactRef{{ID: 1, Confidence: 0.6}}, outcome.Results)
		require.NotNil(t, outcome.Audit)
		assert.Equal(t, core.MethodLocalKeywords, outcome.Audit.Method)
	})

	t.Run("no match", func(t *testing.T) {
		out, err := runApp(t, "search", "xyzxyz")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 0 hits")
	})

	t.Run("query is required", func(t *testing.T) {
		_, err := runApp(t, "search")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query is required")
	})
}

func TestStatusCommand(t *testing.T) {
	isolateEnv(t)

	out, err := runApp(t, "--collection", "archive", "status")
	require.NoError(t, err)

	var status core.Status
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "archive", status.Collection)
	assert.False(t, status.QdrantConnected)
	assert.Empty(t, status.Model)
}

func TestSeedCommand_RequiresStore(t *testing.T) {
	isolateEnv(t)

	_, err := runApp(t, "seed")
	assert.ErrorIs(t, err, heritage.ErrStoreNotConfigured)
}

func TestCatalogCommands(t *testing.T) {
	isolateEnv(t)
	catalog := filepath.Join(t.TempDir(), "catalog")

	out, err := runApp(t, "--catalog", catalog, "catalog", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 artifacts")

	importFile := filepath.Join(t.TempDir(), "artifacts.json")
	require.NoError(t, os.WriteFile(importFile, []byte(`[
  {
    "id": 7,
    "title": "Sarangi",
    "language": "Gandharva",
    "description": "Four-stringed bowed instrument of travelling minstrels",
    "keywords": ["Sarangi", "minstrel"]
  }
]`), 0o600))

	out, err = runApp(t, "--catalog", catalog, "catalog", "import", importFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 artifacts")

	out, err = runApp(t, "--catalog", catalog, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lakhe Mask")
	assert.Contains(t, out, "Sarangi")

	out, err = runApp(t, "--catalog", catalog, "search", "minstrel")
	require.NoError(t, err)
	assert.Contains(t, out, `0: 7 "Sarangi" [0.600]`)

	t.Run("invalid artifacts are rejected", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`[{"id": 0, "title": "nameless"}]`), 0o600))
		_, err := runApp(t, "--catalog", catalog, "catalog", "import", bad)
		assert.ErrorIs(t, err, core.ErrInvalidArtifact)
	})

	t.Run("path is required", func(t *testing.T) {
		_, err := runApp(t, "catalog", "list")
		assert.ErrorIs(t, err, errCatalogPathRequired)
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "log-level", Value: "info"},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error { return nil },
				}
				require.NoError(t, app.Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		_, err := runApp(t, "--log-level", "verbose", "status")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
