package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/indaco/shiplane/internal/core"
)

// execCommand is swapped in tests to fake git output.
var execCommand = exec.CommandContext

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	logFormat = "--format=%H%x1f%s%x1f%b%x1f%ct%x1e"
)

// CommitSource is the read-only view of version control used by the release engine.
type CommitSource interface {
	// Head returns the hash of the current HEAD commit.
	Head(ctx context.Context) (string, error)

	// Log returns the commits in ref..HEAD. A limit <= 0 returns every commit.
	Log(ctx context.Context, ref string, limit int) (History, error)

	// Recent returns the last n commits reachable from HEAD.
	Recent(ctx context.Context, n int) ([]Commit, error)
}

// LogReader implements CommitSource with the git CLI.
type LogReader struct {
	// Dir is the working directory git runs in. Empty means the process cwd.
	Dir string
}

// Verify LogReader implements CommitSource.
var _ CommitSource = (*LogReader)(nil)

// NewLogReader returns a LogReader rooted at dir.
func NewLogReader(dir string) *LogReader {
	return &LogReader{Dir: dir}
}

// Head resolves HEAD to a full commit hash.
func (r *LogReader) Head(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, core.TimeoutShort)
	defer cancel()

	out, err := r.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	head := strings.TrimSpace(out)
	if head == "" {
		return "", fmt.Errorf("failed to resolve HEAD: empty output")
	}
	return head, nil
}

// Log returns the history in ref..HEAD. An empty ref, or a ref equal to
// HEAD, yields an empty history.
func (r *LogReader) Log(ctx context.Context, ref string, limit int) (History, error) {
	ctx, cancel := context.WithTimeout(ctx, core.TimeoutGit)
	defer cancel()

	head, err := r.Head(ctx)
	if err != nil {
		return History{}, err
	}

	history := History{Reference: ref, Head: head, Commits: []Commit{}}
	if ref == "" || ref == head {
		history.Reference = head
		return history, nil
	}

	rangeSpec := ref + "..HEAD"

	countOut, err := r.run(ctx, "rev-list", "--count", rangeSpec)
	if err != nil {
		return History{}, fmt.Errorf("failed to count commits in %s: %w", rangeSpec, err)
	}
	total, err := strconv.Atoi(strings.TrimSpace(countOut))
	if err != nil {
		return History{}, fmt.Errorf("unexpected rev-list output %q: %w", strings.TrimSpace(countOut), err)
	}
	history.Total = total
	if total == 0 {
		return history, nil
	}

	args := []string{"log", logFormat}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	args = append(args, rangeSpec)

	out, err := r.run(ctx, args...)
	if err != nil {
		return History{}, fmt.Errorf("failed to read log %s: %w", rangeSpec, err)
	}
	history.Commits = parseLog(out)

	return history, nil
}

// Recent returns the last n commits from HEAD.
func (r *LogReader) Recent(ctx context.Context, n int) ([]Commit, error) {
	if n <= 0 {
		return []Commit{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, core.TimeoutGit)
	defer cancel()

	out, err := r.run(ctx, "log", logFormat, "-n", strconv.Itoa(n))
	if err != nil {
		return nil, fmt.Errorf("failed to read recent commits: %w", err)
	}
	return parseLog(out), nil
}

func (r *LogReader) run(ctx context.Context, args ...string) (string, error) {
	cmd := execCommand(ctx, "git", args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		stderrMsg := strings.TrimSpace(stderr.String())
		if stderrMsg != "" {
			return "", fmt.Errorf("%s: %w", stderrMsg, err)
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return stdout.String(), nil
}

// parseLog splits output produced with logFormat into commits.
func parseLog(out string) []Commit {
	commits := []Commit{}
	for record := range strings.SplitSeq(out, recordSep) {
		record = strings.Trim(record, "\n")
		if record == "" {
			continue
		}
		fields := strings.SplitN(record, fieldSep, 4)
		if len(fields) < 2 {
			continue
		}

		c := Commit{
			Hash:    strings.TrimSpace(fields[0]),
			Subject: fields[1],
		}
		if len(fields) > 2 {
			c.Body = strings.TrimSpace(fields[2])
		}
		if len(fields) > 3 {
			if secs, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64); err == nil {
				c.Timestamp = time.Unix(secs, 0).UTC()
			}
		}
		commits = append(commits, c)
	}
	return commits
}
