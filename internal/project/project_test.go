package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRepositoryScaffolding(t *testing.T) {
	if testing.Short() {
		t.Skip("reads the repository root")
	}
	assert.NoError(t, Verify(filepath.Join("..", "..")))
}

func TestCheckMakefile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "Makefile", ".PHONY: test\n\ntest:\n\tgo test ./...\n\nbuild: test\n\tgo build ./...\n# clean: not a target\n")

	assert.NoError(t, CheckMakefile(dir, "test", "build"))

	err := CheckMakefile(dir, "test", "clean", "lint")
	require.ErrorIs(t, err, ErrMissing)
	assert.Contains(t, err.Error(), `"clean"`)
	assert.Contains(t, err.Error(), `"lint"`)
}

func TestCheckGitignore(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, ".gitignore", "# secrets\n.env\n\nhyblockcapital/\n*.backup\n")

	assert.NoError(t, CheckGitignore(dir, ".env", "*.backup"))
	assert.ErrorIs(t, CheckGitignore(dir, "data/"), ErrMissing)
}

func TestCheckReadme(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "README.md", "# SDK\n\n## Installation\n\ntext\n\n## Testingish\n")

	assert.NoError(t, CheckReadme(dir, "## Installation"))
	assert.ErrorIs(t, CheckReadme(dir, "## Testing"), ErrMissing)
}

func TestCheckEnvExample(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "env.example", "HYBLOCK_API_KEY=\nHYBLOCK_API_URL=https://example.com\n")

	err := CheckEnvExample(dir, EnvVars...)
	require.ErrorIs(t, err, ErrMissing)
	assert.Contains(t, err.Error(), "HYBLOCK_API_SECRET")
	assert.NotContains(t, err.Error(), "HYBLOCK_API_KEY")
}

func TestCheckGeneratorConfig(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "ok.json", `{"packageName":"hyblockcapital","clientPackage":"hyblockcapital","packageVersion":"1.0.0","packageAuthor":"me","packageDescription":"Hyblock Capital client"}`)
	write(t, dir, "other.json", `{"packageName":"x","clientPackage":"x","packageVersion":"1","packageAuthor":"me","packageDescription":"some client"}`)
	write(t, dir, "srconly.json", `{"packageName":"x","clientPackage":"x","packageVersion":"1","packageAuthor":"me","packageDescription":"hyblock","generateSourceCodeOnly":true}`)

	assert.NoError(t, CheckGeneratorConfig(dir, "ok.json"))
	assert.Error(t, CheckGeneratorConfig(dir, "other.json"))
	assert.Error(t, CheckGeneratorConfig(dir, "srconly.json"))
}

func TestVerifyReportsMissingFiles(t *testing.T) {
	err := Verify(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	for _, name := range []string{"Makefile", ".gitignore", "README.md", "env.example", "openapi-generator-config.json"} {
		assert.Contains(t, err.Error(), name)
	}
}
