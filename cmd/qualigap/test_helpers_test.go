package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qualigap/internal/config"
	"qualigap/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	provider   *testsupport.FakeProvider
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	provider := testsupport.NewFakeProvider(t)
	seedSeasons(provider)

	opts = append([]testsupport.ConfigOption{
		testsupport.WithProvider(provider),
		testsupport.WithAnalysis("Charles Leclerc", 2022, 2023, 7),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Chart.DPI = 40

	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(homeDir, ".cache"))

	configPath := filepath.Join(homeDir, ".config", "qualigap", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, provider: provider, configPath: configPath}
}

func seedSeasons(p *testsupport.FakeProvider) {
	lec := func(q string) testsupport.Entry {
		return testsupport.Entry{Given: "Charles", Family: "Leclerc", Code: "LEC", Team: "ferrari", Q1: q}
	}
	sai := func(q string) testsupport.Entry {
		return testsupport.Entry{Given: "Carlos", Family: "Sainz", Code: "SAI", Team: "ferrari", Q1: q}
	}
	p.AddRound(2022, 1, "Bahrain Grand Prix", lec("1:30.558"), sai("1:30.687"))
	p.AddRound(2022, 2, "Monaco Grand Prix", lec("1:11.376"), sai("1:11.601"))
	p.AddRound(2023, 1, "Bahrain Grand Prix", lec("1:30.000"), sai("1:30.200"))
	p.AddRound(2023, 2, "Monaco Grand Prix", lec("1:12.000"), sai("1:14.500"))
	p.AddRound(2023, 3, "Italian Grand Prix", lec("1:21.000"), sai("1:20.700"))
	p.AddRound(2023, 4, "Solo Grand Prix", lec("1:20.000"))
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", needle, haystack)
	}
}
