package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/indaco/shiplane/internal/config"
	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/git"
	"github.com/indaco/shiplane/internal/manifest"
)

/* ------------------------------------------------------------------------- */
/* FAKES                                                                     */
/* ------------------------------------------------------------------------- */

type publishCall struct {
	dir string
	tag string
}

type fakeInvoker struct {
	mu         sync.Mutex
	builds     []string
	publishes  []publishCall
	buildErr   error
	publishErr error
}

func (f *fakeInvoker) Build(_ context.Context, dir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builds = append(f.builds, dir)
	return f.buildErr
}

func (f *fakeInvoker) Publish(_ context.Context, dir, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publishes = append(f.publishes, publishCall{dir: dir, tag: tag})
	return f.publishErr
}

type fakePrompter struct {
	answer bool
	err    error
	asked  int
}

func (f *fakePrompter) Confirm(string, string) (bool, error) {
	f.asked++
	return f.answer, f.err
}

// repo fakes git history: every reference maps to the commits pending since it.
func repo(head string, pending map[string][]git.Commit) *git.MockCommitSource {
	return &git.MockCommitSource{
		HeadFn: func(context.Context) (string, error) { return head, nil },
		LogFn: func(_ context.Context, ref string, _ int) (git.History, error) {
			commits := pending[ref]
			return git.History{Reference: ref, Head: head, Commits: commits, Total: len(commits)}, nil
		},
	}
}

func commits(subjects ...string) []git.Commit {
	out := make([]git.Commit, len(subjects))
	for i, s := range subjects {
		out[i] = git.Commit{Hash: "h" + string(rune('a'+i)), Subject: s}
	}
	return out
}

type fixture struct {
	fs       *core.MockFileSystem
	invoker  *fakeInvoker
	prompter *fakePrompter
	source   *git.MockCommitSource
	opts     config.Options
}

func newFixture(manifestJSON string) *fixture {
	fs := core.NewMockFileSystem()
	fs.SetFile("/ws/lib/package.json", []byte(manifestJSON))
	fs.SetFile("/ws/lib/README.md", []byte("# lib"))

	return &fixture{
		fs:       fs,
		invoker:  &fakeInvoker{},
		prompter: &fakePrompter{},
		source:   repo("c3", nil),
		opts: config.Options{
			Tag:     "latest",
			Build:   true,
			Publish: true,
		},
	}
}

func (f *fixture) pipeline(overrides Overrides) *Pipeline {
	return New("/ws/lib", f.opts, Deps{
		FS:       f.fs,
		Store:    manifest.NewFileStore(f.fs),
		Source:   f.source,
		Invoker:  f.invoker,
		Prompter: f.prompter,
	}, overrides)
}

func (f *fixture) manifest(t *testing.T) *manifest.Descriptor {
	t.Helper()
	desc, err := manifest.NewFileStore(f.fs).Load(context.Background(), "/ws/lib")
	if err != nil {
		t.Fatalf("failed to reload manifest: %v", err)
	}
	return desc
}

const libManifest = `{
  "name": "@x/lib",
  "version": "1.0.0",
  "shiplane": {
    "reference_commit": "c1",
    "assets": ["README.md"]
  }
}`
