package version

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

// gitOutputs maps the first flag of a git describe call to its fake output.
var gitOutputs = map[string]string{
	"--always": "4f2a9c1-dirty",
	"--tags":   "v2.3.1",
}

// TestFakeGit is not a real test. fakeGit re-runs the test binary with it
// selected to stand in for git.
func TestFakeGit(t *testing.T) {
	if os.Getenv("PRT_FAKE_GIT") != "1" {
		return
	}
	args := os.Args[slices.Index(os.Args, "--")+1:]
	if len(args) < 3 || args[0] != "git" || args[1] != "describe" {
		os.Exit(2)
	}
	flag := args[2]
	if slices.Contains(strings.Split(os.Getenv("PRT_FAKE_GIT_FAIL"), ","), flag) {
		os.Exit(1)
	}
	fmt.Fprint(os.Stdout, gitOutputs[flag])
	os.Exit(0)
}

// fakeGit routes git invocations to TestFakeGit. fail lists the describe
// flags whose calls exit non-zero.
func fakeGit(t *testing.T, fail ...string) {
	t.Helper()
	orig := execCommand
	t.Cleanup(func() {
		execCommand = orig
		Reset()
	})
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestFakeGit", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{
			"PRT_FAKE_GIT=1",
			"PRT_FAKE_GIT_FAIL=" + strings.Join(fail, ","),
		}
		return cmd
	}
	Reset()
}

func TestResolveFromGit(t *testing.T) {
	tests := []struct {
		name        string
		fail        []string
		wantVersion string
		wantCommit  string
	}{
		{"Tagged", nil, "2.3.1", "4f2a9c1-dirty"},
		{"NoTags", []string{"--tags"}, "dev", "4f2a9c1-dirty"},
		{"NoRepository", []string{"--tags", "--always"}, "dev", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeGit(t, tt.fail...)

			if got := GetVersion(); got != tt.wantVersion {
				t.Errorf("GetVersion() = %q, want %q", got, tt.wantVersion)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %q, want %q", got, tt.wantCommit)
			}
			info := Info()
			if !strings.HasPrefix(info, Name+" "+tt.wantVersion+" ") {
				t.Errorf("Info() = %q, want prefix %q", info, Name+" "+tt.wantVersion)
			}
			if !strings.Contains(info, "commit: "+tt.wantCommit) {
				t.Errorf("Info() = %q, missing commit %q", info, tt.wantCommit)
			}
		})
	}
}

func TestLinkerValuesWin(t *testing.T) {
	fakeGit(t)
	Version, Commit, Date = "9.9.9", "abc123", "2024-01-31"

	if got := GetVersion(); got != "9.9.9" {
		t.Errorf("GetVersion() = %q, want 9.9.9", got)
	}
	if got := GetCommit(); got != "abc123" {
		t.Errorf("GetCommit() = %q, want abc123", got)
	}
	if got := GetDate(); got != "2024-01-31" {
		t.Errorf("GetDate() = %q, want 2024-01-31", got)
	}
}

func TestGetDateDefaultsToToday(t *testing.T) {
	fakeGit(t)
	if d := GetDate(); len(d) != len("2006-01-02") {
		t.Errorf("GetDate() = %q, want a YYYY-MM-DD date", d)
	}
}
