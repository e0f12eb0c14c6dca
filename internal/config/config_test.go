package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "storage:\n  root: /var/orders\ntemplate:\n  root: /var/templates\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/orders", cfg.Storage.Root)
	assert.Equal(t, "/var/templates", cfg.Template.Root)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoad_MissingFields(t *testing.T) {
	for name, content := range map[string]string{
		"no storage root":  "template:\n  root: /var/templates\n",
		"no template root": "storage:\n  root: /var/orders\n",
		"not yaml":         "{{{{",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestResolveTemplate(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "orders_book_template.xlsx")
	require.NoError(t, os.WriteFile(want, []byte("stub"), 0o644))

	tc := TemplateConfig{Root: dir}

	got, err := tc.ResolveTemplate("orders_book")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = tc.ResolveTemplate("missing")
	assert.Error(t, err)
}
