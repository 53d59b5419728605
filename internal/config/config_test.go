package config

import (
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvBuildType, EnvJobs, EnvPythonABI,
		EnvSwigVersion, EnvCmakeVersion, EnvNinjaVersion,
	} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Resolve(Overrides{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.BuildType != "Release" {
		t.Errorf("BuildType = %q, want Release", cfg.BuildType)
	}
	if cfg.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4", cfg.Jobs)
	}
	if cfg.Branch != "main" {
		t.Errorf("Branch = %q, want main", cfg.Branch)
	}
	if cfg.SourceDir != "." {
		t.Errorf("SourceDir = %q, want .", cfg.SourceDir)
	}
	if cfg.PythonABI != "" || cfg.AllowFallbackInstall || cfg.NoMoco {
		t.Errorf("feature toggles not off by default: %+v", cfg)
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBuildType, "Debug")
	t.Setenv(EnvJobs, "8")
	t.Setenv(EnvSwigVersion, "4.1.1")

	cfg, err := Resolve(Overrides{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.BuildType != "Debug" {
		t.Errorf("BuildType = %q, want Debug", cfg.BuildType)
	}
	if cfg.Jobs != 8 {
		t.Errorf("Jobs = %d, want 8", cfg.Jobs)
	}
	if cfg.SwigVersion != "4.1.1" {
		t.Errorf("SwigVersion = %q, want 4.1.1", cfg.SwigVersion)
	}
}

func TestFlagBeatsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBuildType, "Debug")
	t.Setenv(EnvJobs, "8")

	jobs := 2
	cfg, err := Resolve(Overrides{BuildType: "RelWithDebInfo", Jobs: &jobs})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.BuildType != "RelWithDebInfo" {
		t.Errorf("BuildType = %q, want RelWithDebInfo", cfg.BuildType)
	}
	if cfg.Jobs != 2 {
		t.Errorf("Jobs = %d, want 2", cfg.Jobs)
	}
}

func TestInvalidBuildType(t *testing.T) {
	clearEnv(t)

	_, err := Resolve(Overrides{BuildType: "Fastest"})
	if err == nil {
		t.Fatal("Resolve accepted an out-of-enum build type")
	}
	if !strings.Contains(err.Error(), "invalid build type") {
		t.Errorf("error = %q, want build type message", err)
	}
}

func TestNonPositiveJobs(t *testing.T) {
	clearEnv(t)

	for _, n := range []int{0, -3} {
		jobs := n
		_, err := Resolve(Overrides{Jobs: &jobs})
		if err == nil {
			t.Fatalf("Resolve accepted jobs = %d", n)
		}
		if !strings.Contains(err.Error(), "job count") {
			t.Errorf("error = %q, want job count message", err)
		}
	}
}

func TestMalformedJobsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvJobs, "many")

	if _, err := Resolve(Overrides{}); err == nil {
		t.Fatal("Resolve accepted a non-numeric OSIM_JOBS")
	}
}

func TestWorkspaceDefaultDerivedFromSource(t *testing.T) {
	clearEnv(t)

	cfg, err := Resolve(Overrides{SourceDir: "/src/opensim-core"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.Contains(cfg.WorkspaceDir, "osim-workspace") {
		t.Errorf("WorkspaceDir = %q, want derived osim-workspace path", cfg.WorkspaceDir)
	}
}
