package env

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadEnv_LayersFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "AMENITYMAP_TEST_A=base\nAMENITYMAP_TEST_B=base\n")
	writeFile(t, dir, ".env.staging", "AMENITYMAP_TEST_B=staging\nAMENITYMAP_TEST_C=staging\n")
	t.Chdir(dir)

	t.Setenv("APP_ENV", "Staging")
	t.Setenv("AMENITYMAP_TEST_A", "")
	t.Setenv("AMENITYMAP_TEST_B", "")
	t.Setenv("AMENITYMAP_TEST_C", "process")
	// godotenv only fills unset variables.
	os.Unsetenv("AMENITYMAP_TEST_A")
	os.Unsetenv("AMENITYMAP_TEST_B")

	LoadEnv()

	tests := map[string]string{
		"AMENITYMAP_TEST_A": "base",
		"AMENITYMAP_TEST_B": "staging",
		"AMENITYMAP_TEST_C": "process",
	}
	for key, want := range tests {
		if got := os.Getenv(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestLoadEnv_NoFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "")
	LoadEnv()
}

func TestMustGetEnv(t *testing.T) {
	t.Setenv("AMENITYMAP_TEST_REQUIRED", "  broker:9092 ")
	if got := MustGetEnv("AMENITYMAP_TEST_REQUIRED"); got != "broker:9092" {
		t.Errorf("MustGetEnv() = %q", got)
	}
}
