package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebsworthy/stagefmt/internal/executor"
	"github.com/bebsworthy/stagefmt/internal/git"
	"github.com/bebsworthy/stagefmt/internal/patch"
	"github.com/bebsworthy/stagefmt/internal/testutil"
)

type fakeIndex struct {
	objects [][]byte
	updates []string
	hashErr error
}

func (f *fakeIndex) HashObject(_ context.Context, content []byte) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	f.objects = append(f.objects, content)
	return "5716ca5987cbf97d6bb54920bea6adde242d87e6", nil
}

func (f *fakeIndex) UpdateIndex(_ context.Context, mode, oid, path string) error {
	f.updates = append(f.updates, mode+","+oid+","+path)
	return nil
}

type fakePatcher struct {
	applied []patch.FileDiff
	err     error
}

func (f *fakePatcher) Apply(_ context.Context, d patch.FileDiff) error {
	f.applied = append(f.applied, d)
	return f.err
}

type fakeReporter struct {
	printed []patch.FileDiff
}

func (f *fakeReporter) Print(d patch.FileDiff) error {
	f.printed = append(f.printed, d)
	return nil
}

type fakeConfirmer struct {
	answer bool
	asked  []string
}

func (f *fakeConfirmer) Confirm(d patch.FileDiff) (bool, error) {
	f.asked = append(f.asked, d.Path)
	return f.answer, nil
}

var (
	entry     = git.ChangeSetEntry{Mode: "100755", Path: "src/main.c"}
	original  = []byte("int main(void) {\n}\n")
	formatted = []byte("int main(void)\n{\n}\n")
)

func TestReconcile_Unchanged(t *testing.T) {
	idx, p, rep := &fakeIndex{}, &fakePatcher{}, &fakeReporter{}

	for _, dry := range []bool{false, true} {
		got, err := New(idx, p, rep, WithDryRun(dry)).Reconcile(context.Background(), entry, original, []byte(string(original)))
		require.NoError(t, err)
		assert.Equal(t, OutcomeUnchanged, got)
	}

	assert.Empty(t, idx.objects)
	assert.Empty(t, idx.updates)
	assert.Empty(t, p.applied)
	assert.Empty(t, rep.printed)
}

func TestReconcile_DryRun(t *testing.T) {
	idx, p, rep := &fakeIndex{}, &fakePatcher{}, &fakeReporter{}

	got, err := New(idx, p, rep, WithDryRun(true)).Reconcile(context.Background(), entry, original, formatted)
	require.NoError(t, err)
	assert.Equal(t, OutcomeReported, got)

	require.Len(t, rep.printed, 1)
	assert.Equal(t, patch.Unified(entry.Path, original, formatted), rep.printed[0])
	assert.Empty(t, idx.objects)
	assert.Empty(t, idx.updates)
	assert.Empty(t, p.applied)
}

func TestReconcile_Live(t *testing.T) {
	idx, p, rep := &fakeIndex{}, &fakePatcher{}, &fakeReporter{}

	got, err := New(idx, p, rep).Reconcile(context.Background(), entry, original, formatted)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, got)

	assert.Equal(t, [][]byte{formatted}, idx.objects)
	assert.Equal(t, []string{"100755,5716ca5987cbf97d6bb54920bea6adde242d87e6,src/main.c"}, idx.updates)
	require.Len(t, p.applied, 1)
	assert.Equal(t, "src/main.c", p.applied[0].Path)
	assert.Empty(t, rep.printed)
	assert.Equal(t, "int main(void) {\n}\n", string(original))
}

func TestReconcile_HashFailureStopsBeforeIndex(t *testing.T) {
	idx := &fakeIndex{hashErr: errors.New("object store read-only")}
	p := &fakePatcher{}

	_, err := New(idx, p, &fakeReporter{}).Reconcile(context.Background(), entry, original, formatted)
	require.Error(t, err)
	assert.Empty(t, idx.updates)
	assert.Empty(t, p.applied)
}

func TestReconcile_PatchFailure(t *testing.T) {
	idx := &fakeIndex{}
	p := &fakePatcher{err: errors.New("hunk failed")}

	_, err := New(idx, p, &fakeReporter{}).Reconcile(context.Background(), entry, original, formatted)
	require.EqualError(t, err, "hunk failed")
	// The index was already updated; there is no rollback
	assert.Len(t, idx.updates, 1)
}

func TestReconcile_Confirm(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		idx, p := &fakeIndex{}, &fakePatcher{}
		c := &fakeConfirmer{answer: false}

		got, err := New(idx, p, &fakeReporter{}, WithConfirmer(c)).Reconcile(context.Background(), entry, original, formatted)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSkipped, got)
		assert.Equal(t, []string{"src/main.c"}, c.asked)
		assert.Empty(t, idx.objects)
		assert.Empty(t, p.applied)
	})

	t.Run("accepted", func(t *testing.T) {
		idx, p := &fakeIndex{}, &fakePatcher{}
		c := &fakeConfirmer{answer: true}

		got, err := New(idx, p, &fakeReporter{}, WithConfirmer(c)).Reconcile(context.Background(), entry, original, formatted)
		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, got)
		assert.Len(t, p.applied, 1)
	})

	t.Run("not asked when unchanged", func(t *testing.T) {
		c := &fakeConfirmer{}
		_, err := New(&fakeIndex{}, &fakePatcher{}, &fakeReporter{}, WithConfirmer(c)).Reconcile(context.Background(), entry, original, original)
		require.NoError(t, err)
		assert.Empty(t, c.asked)
	})
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "unchanged", OutcomeUnchanged.String())
	assert.Equal(t, "reported", OutcomeReported.String())
	assert.Equal(t, "applied", OutcomeApplied.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
	assert.Equal(t, "Outcome(9)", Outcome(9).String())
}

func TestReconcile_Repository(t *testing.T) {
	testutil.RequireCommand(t, "patch")

	repo := testutil.NewRepo(t)
	repo.WriteFileMode("src/main.c", string(original), 0o755)
	repo.Stage("src/main.c")
	mode, _ := repo.IndexEntry("src/main.c")
	require.Equal(t, "100755", mode)

	runner := executor.NewCommandExecutor(0)
	client := git.NewClient(runner, repo.Dir)
	r := New(client, patch.NewApplier(runner, repo.Dir, 1), &fakeReporter{})

	got, err := r.Reconcile(testutil.TestContext(t), git.ChangeSetEntry{Mode: mode, Path: "src/main.c"}, original, formatted)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, got)

	newMode, _ := repo.IndexEntry("src/main.c")
	assert.Equal(t, "100755", newMode)
	assert.Equal(t, string(formatted), repo.StagedContent("src/main.c"))
	assert.Equal(t, string(formatted), repo.ReadFile("src/main.c"))
	assert.Empty(t, repo.UnstagedDiff())
}
