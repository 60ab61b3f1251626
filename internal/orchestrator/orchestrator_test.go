package orchestrator

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/indaco/shiplane/internal/config"
	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/git"
	"github.com/indaco/shiplane/internal/manifest"
	"github.com/indaco/shiplane/internal/pipeline"
	"github.com/indaco/shiplane/internal/semver"
	"go.uber.org/multierr"
)

/* ------------------------------------------------------------------------- */
/* FAKES                                                                     */
/* ------------------------------------------------------------------------- */

type fakeInvoker struct {
	mu         sync.Mutex
	builds     []string
	publishes  []string
	publishErr map[string]error

	// onPublish runs before the call is recorded, outside the lock.
	onPublish func(dir string)
}

func (f *fakeInvoker) Build(_ context.Context, dir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builds = append(f.builds, dir)
	return nil
}

func (f *fakeInvoker) Publish(_ context.Context, dir, _ string) error {
	if f.onPublish != nil {
		f.onPublish(dir)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publishes = append(f.publishes, dir)
	return f.publishErr[dir]
}

type fakePrompter struct {
	answer bool
	asked  int
}

func (f *fakePrompter) Confirm(string, string) (bool, error) {
	f.asked++
	return f.answer, nil
}

func repo(head string, pending map[string][]git.Commit) *git.MockCommitSource {
	return &git.MockCommitSource{
		HeadFn: func(context.Context) (string, error) { return head, nil },
		LogFn: func(_ context.Context, ref string, _ int) (git.History, error) {
			c := pending[ref]
			return git.History{Reference: ref, Head: head, Commits: c, Total: len(c)}, nil
		},
	}
}

func deps(fs core.FileSystem, source git.CommitSource, inv *fakeInvoker, prompter pipeline.Prompter) pipeline.Deps {
	return pipeline.Deps{
		FS:       fs,
		Store:    manifest.NewFileStore(fs),
		Source:   source,
		Invoker:  inv,
		Prompter: prompter,
	}
}

func monorepo() *core.MockFileSystem {
	fs := core.NewMockFileSystem()
	fs.SetFile("/ws/libs/a/package.json", []byte(`{"name":"@x/a","version":"1.0.0","shiplane":{"reference_commit":"r1"}}`))
	fs.SetFile("/ws/libs/b/package.json", []byte(`{"name":"@x/b","version":"1.2.0","shiplane":{"reference_commit":"r2"}}`))
	fs.SetFile("/ws/libs/c/package.json", []byte(`{"name":"@x/c"}`))
	return fs
}

var batchHistory = map[string][]git.Commit{
	"r1": {{Hash: "k1", Subject: "fix: a"}},
	"r2": {{Hash: "k1", Subject: "fix: a"}, {Hash: "k2", Subject: "feat: b"}, {Hash: "k3", Subject: "docs"}},
}

/* ------------------------------------------------------------------------- */
/* ISOLATED                                                                  */
/* ------------------------------------------------------------------------- */

func TestRun_Isolated(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("/ws/lib/package.json", []byte(`{"name":"lib","version":"0.1.0","shiplane":{"reference_commit":"r1"}}`))
	inv := &fakeInvoker{}

	opts := config.Options{Target: "/ws/lib", Tag: "latest", Build: true, Publish: true}
	summary, err := New(opts, deps(fs, repo("h", batchHistory), inv, &fakePrompter{})).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Outcomes) != 1 || summary.Count(StatusReleased) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if got := summary.Outcomes[0].Result.Version; got != "0.1.1" {
		t.Errorf("version = %s, want 0.1.1", got)
	}
	if !slices.Equal(inv.builds, []string{"/ws/lib"}) {
		t.Errorf("builds = %v", inv.builds)
	}
}

func TestRun_IsolatedDeclined(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("/ws/lib/package.json", []byte(`{"name":"lib","version":"0.1.0"}`))
	inv := &fakeInvoker{}

	opts := config.Options{Target: "/ws/lib", Tag: "latest", Publish: true}
	summary, err := New(opts, deps(fs, repo("h", nil), inv, &fakePrompter{answer: false})).Run(context.Background())

	if !errors.Is(err, ErrAborted) || !errors.Is(err, pipeline.ErrNoCommits) {
		t.Fatalf("expected ErrAborted wrapping ErrNoCommits, got %v", err)
	}
	if summary.Count(StatusFailed) != 1 {
		t.Errorf("expected one failed outcome, got %+v", summary.Outcomes)
	}
	if len(inv.publishes) != 0 {
		t.Error("publish must not run")
	}
}

/* ------------------------------------------------------------------------- */
/* BATCH                                                                     */
/* ------------------------------------------------------------------------- */

func TestRun_Batch(t *testing.T) {
	fs := monorepo()
	inv := &fakeInvoker{}
	prompter := &fakePrompter{}

	opts := config.Options{Target: "/ws/libs", All: true, Tag: "next", Build: true, Publish: true}
	summary, err := New(opts, deps(fs, repo("h9", batchHistory), inv, prompter)).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := summary.Count(StatusReleased); got != 2 {
		t.Errorf("released = %d, want 2", got)
	}
	if got := summary.Count(StatusSkipped); got != 1 {
		t.Errorf("skipped = %d, want 1", got)
	}

	// Both siblings share b's longer window (feat) and b's greater version.
	for _, o := range summary.Outcomes[:2] {
		if o.Result.Version != "1.3.0" {
			t.Errorf("%s version = %s, want 1.3.0", o.Name(), o.Result.Version)
		}
		if o.Result.Reference != "r2" {
			t.Errorf("%s reference = %s, want r2", o.Name(), o.Result.Reference)
		}
	}
	if summary.Outcomes[2].Name() != "/ws/libs/c" {
		t.Errorf("outcomes not in sibling order: %+v", summary.Outcomes)
	}

	if !slices.Equal(inv.builds, []string{"/ws/libs"}) {
		t.Errorf("expected one batch build at the root, got %v", inv.builds)
	}
	slices.Sort(inv.publishes)
	if !slices.Equal(inv.publishes, []string{"/ws/libs/a/dist", "/ws/libs/b/dist"}) {
		t.Errorf("publishes = %v", inv.publishes)
	}
	if prompter.asked != 0 {
		t.Error("batch with pending commits must not prompt")
	}

	desc, err := manifest.NewFileStore(fs).Load(context.Background(), "/ws/libs/a")
	if err != nil {
		t.Fatal(err)
	}
	if desc.Version != "1.3.0" || desc.Extension.ReferenceCommit != "h9" {
		t.Errorf("manifest a = %s @ %s", desc.Version, desc.Extension.ReferenceCommit)
	}
}

func TestRun_BatchFailureDoesNotStopSiblings(t *testing.T) {
	fs := monorepo()
	inv := &fakeInvoker{publishErr: map[string]error{"/ws/libs/a/dist": errors.New("403")}}

	opts := config.Options{Target: "/ws/libs", All: true, Tag: "latest", Publish: true}
	summary, err := New(opts, deps(fs, repo("h9", batchHistory), inv, &fakePrompter{})).Run(context.Background())

	errs := multierr.Errors(err)
	if len(errs) != 1 {
		t.Fatalf("expected one aggregated error, got %v", err)
	}
	var pubErr *pipeline.PublishFailure
	if !errors.As(errs[0], &pubErr) || !strings.HasPrefix(errs[0].Error(), "/ws/libs/a:") {
		t.Errorf("unexpected error: %v", errs[0])
	}
	if summary.Count(StatusFailed) != 1 || summary.Count(StatusReleased) != 1 {
		t.Errorf("unexpected summary counts: %+v", summary.Outcomes)
	}
	if len(inv.publishes) != 2 {
		t.Errorf("both siblings should attempt publish, got %v", inv.publishes)
	}
}

func TestRun_BatchSiblingsRunConcurrently(t *testing.T) {
	fs := monorepo()

	arrived := make(chan struct{}, 2)
	release := make(chan struct{})
	var timedOut atomic.Bool
	go func() {
		<-arrived
		<-arrived
		close(release)
	}()

	inv := &fakeInvoker{onPublish: func(string) {
		arrived <- struct{}{}
		select {
		case <-release:
		case <-time.After(5 * time.Second):
			timedOut.Store(true)
		}
	}}

	opts := config.Options{Target: "/ws/libs", All: true, Tag: "latest", Publish: true}
	if _, err := New(opts, deps(fs, repo("h9", batchHistory), inv, nil)).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if timedOut.Load() {
		t.Fatal("sibling publishes did not overlap")
	}
	if len(inv.publishes) != 2 {
		t.Errorf("publishes = %v", inv.publishes)
	}
}

func TestRun_BatchInvalidSiblingVersion(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("/ws/libs/a/package.json", []byte(`{"name":"@x/a","version":"1.0.0","shiplane":{"reference_commit":"r1"}}`))
	fs.SetFile("/ws/libs/b/package.json", []byte(`{"name":"@x/b","version":"not-a-version","shiplane":{"reference_commit":"r1"}}`))
	inv := &fakeInvoker{}

	opts := config.Options{Target: "/ws/libs", All: true, Tag: "latest", Publish: true}
	summary, err := New(opts, deps(fs, repo("h9", batchHistory), inv, &fakePrompter{})).Run(context.Background())

	errs := multierr.Errors(err)
	if len(errs) != 1 {
		t.Fatalf("expected one aggregated error, got %v", err)
	}
	var verErr *semver.InvalidVersionError
	if !errors.As(errs[0], &verErr) || !strings.HasPrefix(errs[0].Error(), "/ws/libs/b:") {
		t.Errorf("unexpected error: %v", errs[0])
	}

	if summary.Outcomes[0].Status() != StatusReleased || summary.Outcomes[1].Status() != StatusFailed {
		t.Errorf("unexpected outcomes: %+v", summary.Outcomes)
	}
	if !slices.Equal(inv.publishes, []string{"/ws/libs/a/dist"}) {
		t.Errorf("publishes = %v", inv.publishes)
	}
	desc, err := manifest.NewFileStore(fs).Load(context.Background(), "/ws/libs/b")
	if err != nil {
		t.Fatal(err)
	}
	if desc.Version != "not-a-version" {
		t.Errorf("invalid manifest rewritten to %q", desc.Version)
	}
}

func TestRun_BatchGate(t *testing.T) {
	tests := []struct {
		name      string
		force     bool
		answer    bool
		wantErr   bool
		wantAsked int
	}{
		{name: "declined", answer: false, wantErr: true, wantAsked: 1},
		{name: "accepted", answer: true, wantAsked: 1},
		{name: "forced", force: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := monorepo()
			inv := &fakeInvoker{}
			prompter := &fakePrompter{answer: tt.answer}

			opts := config.Options{Target: "/ws/libs", All: true, Tag: "latest", Publish: true, ForceContinue: tt.force}
			_, err := New(opts, deps(fs, repo("h9", nil), inv, prompter)).Run(context.Background())

			if tt.wantErr {
				if !errors.Is(err, ErrAborted) {
					t.Fatalf("expected ErrAborted, got %v", err)
				}
				if len(inv.publishes) != 0 {
					t.Error("declined batch must not publish")
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if prompter.asked != tt.wantAsked {
				t.Errorf("asked = %d, want %d", prompter.asked, tt.wantAsked)
			}
		})
	}
}

func TestRun_BatchDryRun(t *testing.T) {
	fs := monorepo()
	inv := &fakeInvoker{}

	opts := config.Options{Target: "/ws/libs", All: true, Tag: "latest", Build: true, Publish: true, DryRun: true}
	summary, err := New(opts, deps(fs, repo("h9", batchHistory), inv, nil)).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Count(StatusPlanned) != 2 {
		t.Errorf("planned = %d, want 2", summary.Count(StatusPlanned))
	}
	if len(inv.builds)+len(inv.publishes) != 0 {
		t.Error("dry run must not invoke commands")
	}
}

func TestRun_BatchNoPackages(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("/ws/libs/readme.md", []byte("x"))

	opts := config.Options{Target: "/ws/libs", All: true}
	summary, err := New(opts, deps(fs, repo("h", nil), &fakeInvoker{}, nil)).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no packages found") {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary == nil {
		t.Fatal("summary must never be nil")
	}
}
