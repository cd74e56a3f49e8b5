package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnv_SubstitutesSetVarsAndDefaults(t *testing.T) {
	os.Setenv("HOST", "h")
	os.Unsetenv("PORT")
	defer os.Unsetenv("HOST")

	got := ResolveEnv("http://${HOST:-x}:${PORT:-1}")
	assert.Equal(t, "http://h:1", got)
}

func TestResolveEnv_NoDefaultAndUnsetYieldsEmpty(t *testing.T) {
	os.Unsetenv("SEMEM_TEST_UNSET_VAR")
	got := ResolveEnv("prefix-${SEMEM_TEST_UNSET_VAR}-suffix")
	assert.Equal(t, "prefix--suffix", got)
}

func TestResolveEnv_LeavesPlainTextUntouched(t *testing.T) {
	got := ResolveEnv("http://example.org/sparql")
	assert.Equal(t, "http://example.org/sparql", got, "expected no substitution on plain text")
}

func TestValidate_RejectsUnknownStorageType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Type = "postgres"
	assert.Error(t, cfg.Validate(), "expected an unknown storage.type to fail validation")
}

func TestValidate_SPARQLStorageRequiresEndpoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Type = StorageSPARQL
	assert.Error(t, cfg.Validate(), "expected sparql storage with no query/update endpoint to fail validation")

	cfg.Storage.Options.Query = "not-a-url"
	cfg.Storage.Options.Update = "http://example.org/update"
	assert.Error(t, cfg.Validate(), "expected a non-http query endpoint to fail validation")

	cfg.Storage.Options.Query = "http://example.org/query"
	require.NoError(t, cfg.Validate(), "expected a well-formed sparql config to validate")
}

func TestValidate_RejectsNonPositiveDimension(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Memory.Dimension = 0
	assert.Error(t, cfg.Validate(), "expected a zero memory.dimension to fail validation")
}

func TestDefaultConfig_ValidatesCleanly(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate(), "expected the default configuration to validate")
}
