package git

import "context"

// MockCommitSource is a CommitSource built from function fields, for tests.
// Nil functions return zero values.
type MockCommitSource struct {
	HeadFn   func(ctx context.Context) (string, error)
	LogFn    func(ctx context.Context, ref string, limit int) (History, error)
	RecentFn func(ctx context.Context, n int) ([]Commit, error)
}

// Verify MockCommitSource implements CommitSource.
var _ CommitSource = (*MockCommitSource)(nil)

func (m *MockCommitSource) Head(ctx context.Context) (string, error) {
	if m.HeadFn != nil {
		return m.HeadFn(ctx)
	}
	return "", nil
}

func (m *MockCommitSource) Log(ctx context.Context, ref string, limit int) (History, error) {
	if m.LogFn != nil {
		return m.LogFn(ctx, ref, limit)
	}
	return History{Reference: ref}, nil
}

func (m *MockCommitSource) Recent(ctx context.Context, n int) ([]Commit, error) {
	if m.RecentFn != nil {
		return m.RecentFn(ctx, n)
	}
	return []Commit{}, nil
}
