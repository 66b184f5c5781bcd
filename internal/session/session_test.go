package session

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsfront/internal/config"
	"fsfront/internal/diag"
)

func newSession(t *testing.T, dir string) (*Session, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	return New(config.NewBuilder().Freeze(), diag.BagReporter{Bag: bag}, Options{WorkDir: dir}), bag
}

func TestFragmentSeesEarlierBinding(t *testing.T) {
	s, bag := newSession(t, t.TempDir())
	ctx := context.Background()

	first, err := s.Eval(ctx, "let x = 1\n")
	require.NoError(t, err)
	assert.True(t, first.Committed)
	assert.Equal(t, "FSI_0001$fsx", first.Name)
	assert.Equal(t, []string{"FSI_0001.x : int"}, first.Entries)

	second, err := s.Eval(ctx, "let y = x + 1\n")
	require.NoError(t, err)
	assert.True(t, second.Committed, "%v", bag.Items())
	assert.Equal(t, "FSI_0002$fsx", second.Name)
	assert.Equal(t, 0, bag.Len(), "%v", bag.Items())

	assert.Equal(t, []string{"FSI_0001.x : int", "FSI_0002.y : int"}, s.State().Ccu().Contents().Entries())
	assert.Equal(t, [][]string{{"FSI_0001"}, {"FSI_0002"}}, s.State().ImplicitOpens())
}

func TestFragmentWithErrorsRollsBack(t *testing.T) {
	s, bag := newSession(t, t.TempDir())
	ctx := context.Background()

	_, err := s.Eval(ctx, "let x = 1\n")
	require.NoError(t, err)
	before := s.State()

	bad, err := s.Eval(ctx, "let y = missing\n")
	require.NoError(t, err)
	assert.False(t, bad.Committed)
	assert.Equal(t, 1, bad.Errors)
	assert.Equal(t, []diag.Code{diag.TcUndefinedName}, bag.Codes())
	assert.Equal(t, before.RootImpls(), s.State().RootImpls())
	assert.Equal(t, []string{"FSI_0001.x : int"}, s.State().Ccu().Contents().Entries())

	next, err := s.Eval(ctx, "let z = x\n")
	require.NoError(t, err)
	assert.True(t, next.Committed)
	assert.Equal(t, "FSI_0003$fsx", next.Name)
}

func TestInteractiveDefine(t *testing.T) {
	s, bag := newSession(t, t.TempDir())
	out, err := s.Eval(context.Background(), "#if INTERACTIVE\nlet v = 1\n#else\nlet v = \"batch\"\n#endif\n")
	require.NoError(t, err)
	assert.Equal(t, 0, bag.Len(), "%v", bag.Items())
	assert.Equal(t, []string{"FSI_0001.v : int"}, out.Entries)
}

func TestLoadRunsBeforeFragment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "helpers.fsx"), []byte("let answer = 42\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.fsx"),
		[]byte("#load \"lib/helpers.fsx\"\nlet doubled = answer * 2\n"), 0o600))

	s, bag := newSession(t, dir)
	out, err := s.RunScript(context.Background(), filepath.Join(dir, "main.fsx"))
	require.NoError(t, err)
	assert.True(t, out.Committed, "%v", bag.Items())
	assert.Equal(t, "Main$fsx", out.Name)
	assert.Equal(t, []string{filepath.Join(dir, "lib", "helpers.fsx")}, out.Loaded)

	// loading again is a no-op
	again, err := s.Eval(context.Background(), "#load \"lib/helpers.fsx\"\nlet t = answer\n")
	require.NoError(t, err)
	assert.True(t, again.Committed, "%v", bag.Items())
	assert.Empty(t, again.Loaded)
}

func TestSameScriptNameFromTwoDirectoriesIsDeduplicated(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, sub, "Script.fsx"), []byte("let v"+sub+" = 1\n"), 0o600))
	}
	s, bag := newSession(t, dir)
	ctx := context.Background()

	a, err := s.RunScript(ctx, filepath.Join(dir, "a", "Script.fsx"))
	require.NoError(t, err)
	b, err := s.RunScript(ctx, filepath.Join(dir, "b", "Script.fsx"))
	require.NoError(t, err)
	assert.Equal(t, 0, bag.Len(), "%v", bag.Items())
	assert.Equal(t, "Script$fsx", a.Name)
	assert.Equal(t, "Script$fsx___2", b.Name)
	assert.True(t, b.Committed)
}

func TestMissingLoadIsReported(t *testing.T) {
	s, bag := newSession(t, t.TempDir())
	out, err := s.Eval(context.Background(), "#load \"nope.fsx\"\nlet x = 1\n")
	require.NoError(t, err)
	assert.False(t, out.Committed)
	assert.Equal(t, []diag.Code{diag.BuildCouldNotFindSourceFile}, bag.Codes())
}

func TestNowarnAppliesToLaterFragments(t *testing.T) {
	s, bag := newSession(t, t.TempDir())
	ctx := context.Background()
	_, err := s.Eval(ctx, "let a = match 1 with | 1 -> 2\n")
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.TcIncompleteMatches}, bag.Codes())

	_, err = s.Eval(ctx, "#nowarn \"25\"\n")
	require.NoError(t, err)
	_, err = s.Eval(ctx, "let b = match 1 with | 1 -> 2\n")
	require.NoError(t, err)
	assert.Equal(t, 1, bag.Count(diag.TcIncompleteMatches))
	assert.True(t, s.Config().IsWarningOff(diag.TcIncompleteMatches))
}

func TestCancelledSubmissionKeepsState(t *testing.T) {
	s, _ := newSession(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Eval(ctx, "let x = 1\n")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.State().RootImpls())
}

func TestReaderSplitsInteractions(t *testing.T) {
	r := NewReader(strings.NewReader("let x = 1;;\nlet y =\n  2 ;;\nlet tail = 3\n"))
	var got []string
	for {
		text, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, text)
	}
	assert.Equal(t, []string{"let x = 1\n", "let y =\n  2 \n", "let tail = 3\n"}, got)
}
