package gitrepo_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hornetflow/internal/gitrepo"
	"hornetflow/internal/logging"
	"hornetflow/internal/services"
)

type call struct {
	dir  string
	args []string
}

// scriptRunner replays canned responses keyed by the git subcommand.
type scriptRunner struct {
	calls     []call
	responses map[string]string
	failures  map[string]error
}

func (r *scriptRunner) Run(_ context.Context, dir string, args ...string) (string, error) {
	r.calls = append(r.calls, call{dir: dir, args: args})
	key := strings.Join(args, " ")
	for prefix, err := range r.failures {
		if strings.HasPrefix(key, prefix) {
			return "", err
		}
	}
	for prefix, out := range r.responses {
		if strings.HasPrefix(key, prefix) {
			return out, nil
		}
	}
	return "", nil
}

func (r *scriptRunner) commandLog() []string {
	var log []string
	for _, c := range r.calls {
		log = append(log, c.args[0])
	}
	return log
}

func TestCloneRejectsNonHTTPURL(t *testing.T) {
	client := gitrepo.NewClientWithRunner(&scriptRunner{}, logging.NewNop())
	err := client.Clone(context.Background(), "git@github.com:example/widgets.git", "main", t.TempDir())
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input error for ssh URL, got %v", err)
	}
}

func TestCloneCheckoutDirectly(t *testing.T) {
	runner := &scriptRunner{}
	client := gitrepo.NewClientWithRunner(runner, logging.NewNop())

	if err := client.Clone(context.Background(), "https://example.com/widgets.git", "abc123", "/tmp/target"); err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	got := runner.commandLog()
	want := []string{"clone", "checkout"}
	if len(got) != len(want) {
		t.Fatalf("commands = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("commands = %v, want %v", got, want)
		}
	}
}

func TestCloneFetchesMissingCommit(t *testing.T) {
	checkoutErr := services.Wrap(services.ErrProcessing, "gitrepo", "git checkout", "unknown revision", nil)
	runner := &scriptRunner{failures: map[string]error{"checkout abc123": checkoutErr}}
	client := gitrepo.NewClientWithRunner(runner, logging.NewNop())

	// The first checkout fails; the client must fetch the commit and retry.
	err := client.Clone(context.Background(), "https://example.com/widgets.git", "abc123", "/tmp/target")
	if err == nil {
		t.Fatal("expected second checkout to fail too with this script")
	}
	got := runner.commandLog()
	want := []string{"clone", "checkout", "fetch", "checkout"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("commands = %v, want %v", got, want)
	}
}

func TestIntrospectPrefersTagLabel(t *testing.T) {
	runner := &scriptRunner{responses: map[string]string{
		"remote get-url origin":         "https://example.com/widgets.git",
		"rev-parse HEAD":                "0123456789abcdef",
		"describe --tags --exact-match": "v2.0.0",
	}}
	client := gitrepo.NewClientWithRunner(runner, logging.NewNop())

	release, err := client.Introspect(context.Background(), "/tmp/repo")
	if err != nil {
		t.Fatalf("Introspect failed: %v", err)
	}
	if release.Origin != "git" || release.URL != "https://example.com/widgets.git" {
		t.Fatalf("unexpected release %+v", release)
	}
	if release.Label != "v2.0.0" || release.Marker != "0123456789abcdef" {
		t.Fatalf("unexpected release %+v", release)
	}
}

func TestIntrospectFallsBackToBranchThenShortHash(t *testing.T) {
	describeErr := services.Wrap(services.ErrProcessing, "gitrepo", "git describe", "no tag", nil)

	runner := &scriptRunner{
		responses: map[string]string{
			"remote get-url origin":  "https://example.com/widgets.git",
			"rev-parse HEAD":         "0123456789abcdef",
			"rev-parse --abbrev-ref": "feature/import",
		},
		failures: map[string]error{"describe": describeErr},
	}
	client := gitrepo.NewClientWithRunner(runner, logging.NewNop())
	release, err := client.Introspect(context.Background(), "/tmp/repo")
	if err != nil {
		t.Fatalf("Introspect failed: %v", err)
	}
	if release.Label != "feature/import" {
		t.Fatalf("expected branch label, got %q", release.Label)
	}

	// Detached HEAD: branch resolves to "HEAD", label falls back to short hash.
	runner = &scriptRunner{
		responses: map[string]string{
			"remote get-url origin":  "https://example.com/widgets.git",
			"rev-parse HEAD":         "0123456789abcdef",
			"rev-parse --abbrev-ref": "HEAD",
		},
		failures: map[string]error{"describe": describeErr},
	}
	client = gitrepo.NewClientWithRunner(runner, logging.NewNop())
	release, err = client.Introspect(context.Background(), "/tmp/repo")
	if err != nil {
		t.Fatalf("Introspect failed: %v", err)
	}
	if release.Label != "01234567" {
		t.Fatalf("expected short hash label, got %q", release.Label)
	}
}

func TestRepoNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/example/widgets.git", "widgets"},
		{"https://github.com/example/widgets", "widgets"},
		{"https://github.com/example/widgets/", "widgets"},
		{"", "repo"},
	}
	for _, tc := range tests {
		if got := gitrepo.RepoNameFromURL(tc.url); got != tc.want {
			t.Fatalf("RepoNameFromURL(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
