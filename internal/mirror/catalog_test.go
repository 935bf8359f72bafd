package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ReturnsBuiltinEntry(t *testing.T) {
	cfg, ok := Resolve(Tsinghua, nil)

	require.True(t, ok)
	assert.Equal(t, "Tsinghua", cfg.Name)
	assert.Equal(t, "https://mirrors.tuna.tsinghua.edu.cn", cfg.AptURL)
}

func TestResolve_ReportsMissing_WhenProviderHasNoEntry(t *testing.T) {
	_, ok := Resolve(Official, nil)
	assert.False(t, ok)

	_, ok = Resolve(Provider("nonexistent"), nil)
	assert.False(t, ok)
}

func TestResolve_MergesOverrideFieldByField(t *testing.T) {
	overrides := &OverrideDoc{
		Providers: map[string]ProviderOverride{
			"tsinghua": {AptURL: "https://internal.example.com"},
		},
	}

	cfg, ok := Resolve(Tsinghua, overrides)

	require.True(t, ok)
	assert.Equal(t, "https://internal.example.com", cfg.AptURL)
	// Fields the override leaves empty keep their built-in values.
	assert.Equal(t, "https://pypi.tuna.tsinghua.edu.cn/simple", cfg.PipIndex)
	assert.Equal(t, "Tsinghua", cfg.Name)
}

func TestResolve_AcceptsOverrideForUnknownProvider(t *testing.T) {
	overrides := &OverrideDoc{
		Providers: map[string]ProviderOverride{
			"corp": {Name: "Corp", AptURL: "https://apt.corp.example.com"},
		},
	}

	cfg, ok := Resolve(Provider("corp"), overrides)

	require.True(t, ok)
	assert.Equal(t, "Corp", cfg.Name)
	assert.Equal(t, "https://apt.corp.example.com", cfg.AptURL)
}

func TestParseOverrides_ReadsYAMLAndJSON(t *testing.T) {
	yamlDoc := []byte("providers:\n  aliyun:\n    npm_registry: https://npm.example.com\n")
	doc, err := ParseOverrides(yamlDoc)
	require.NoError(t, err)
	assert.Equal(t, "https://npm.example.com", doc.Providers["aliyun"].NpmRegistry)

	jsonDoc := []byte(`{"providers":{"ustc":{"pip_index":"https://pip.example.com"}}}`)
	doc, err = ParseOverrides(jsonDoc)
	require.NoError(t, err)
	assert.Equal(t, "https://pip.example.com", doc.Providers["ustc"].PipIndex)
}

func TestParseOverrides_Errors_WhenDocumentMalformed(t *testing.T) {
	_, err := ParseOverrides([]byte("providers: [not a map"))
	assert.Error(t, err)
}

func TestProviders_ListsOnlyBuiltinEntries(t *testing.T) {
	for _, p := range Providers() {
		_, ok := Resolve(p, nil)
		assert.True(t, ok, string(p))
	}
}
