package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\n\nDOTENV_TEST_NEW=\"from-file\"\nDOTENV_TEST_SET=from-file\nmalformed line\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DOTENV_TEST_SET", "from-env")
	os.Unsetenv("DOTENV_TEST_NEW")
	t.Cleanup(func() { os.Unsetenv("DOTENV_TEST_NEW") })

	loadEnvFiles(path, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "from-file", os.Getenv("DOTENV_TEST_NEW"), "unset variable picked up, quotes stripped")
	assert.Equal(t, "from-env", os.Getenv("DOTENV_TEST_SET"), "process environment wins over file value")
}
