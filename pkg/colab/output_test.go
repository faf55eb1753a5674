package colab

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRun replays a sequence of output reads. The run counts as complete
// once completeAfter reads have happened.
type fakeRun struct {
	outputs       []string
	completeAfter int
	// dialogs maps a read count to the dialog open at that point
	dialogs map[int]string

	reads  int
	closed []string
}

func (f *fakeRun) output() (string, error) {
	out := f.outputs[min(f.reads, len(f.outputs)-1)]
	f.reads++
	return out, nil
}

func (f *fakeRun) runComplete() (bool, error) {
	return f.reads >= f.completeAfter, nil
}

func (f *fakeRun) dialogMessage() (string, bool, error) {
	msg, ok := f.dialogs[f.reads]
	return msg, ok, nil
}

func (f *fakeRun) closeDialog(context.Context) error {
	f.closed = append(f.closed, f.dialogs[f.reads])
	delete(f.dialogs, f.reads)
	return nil
}

func collect(t *testing.T, view runView, timeout time.Duration) ([]string, error) {
	t.Helper()
	var chunks []string
	err := streamOutput(context.Background(), view, time.Millisecond, timeout, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	return chunks, err
}

func TestStreamOutputReportsSuffixes(t *testing.T) {
	run := &fakeRun{
		outputs:       []string{"", "a", "ab", "ab", "abc"},
		completeAfter: 5,
	}

	chunks, err := collect(t, run, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "a", "b", "c"}, chunks)
}

func TestStreamOutputInitialOutput(t *testing.T) {
	run := &fakeRun{
		outputs:       []string{"loading\n", "loading\ndone\n"},
		completeAfter: 2,
	}

	chunks, err := collect(t, run, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"loading\n", "done\n"}, chunks)
}

func TestStreamOutputRewrittenTail(t *testing.T) {
	run := &fakeRun{
		outputs:       []string{"progress 10%", "progress 90%"},
		completeAfter: 2,
	}

	chunks, err := collect(t, run, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"progress 10%", "90%"}, chunks)
}

func TestStreamOutputAlreadyComplete(t *testing.T) {
	run := &fakeRun{outputs: []string{"42"}, completeAfter: 0}

	chunks, err := collect(t, run, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, chunks)
}

func TestStreamOutputClosesDialog(t *testing.T) {
	run := &fakeRun{
		outputs:       []string{"x"},
		completeAfter: 4,
		dialogs:       map[int]string{2: "runtime warning"},
	}

	chunks, err := collect(t, run, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "runtime warning"}, chunks)
	assert.Equal(t, []string{"runtime warning"}, run.closed)
}

func TestStreamOutputTimeout(t *testing.T) {
	run := &fakeRun{outputs: []string{"stuck"}, completeAfter: 1 << 30}

	_, err := collect(t, run, 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestStreamOutputCallbackError(t *testing.T) {
	run := &fakeRun{outputs: []string{"a", "ab"}, completeAfter: 10}
	stop := errors.New("stop")

	calls := 0
	err := streamOutput(context.Background(), run, time.Millisecond, time.Second, func(string) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestStreamOutputCancelled(t *testing.T) {
	run := &fakeRun{outputs: []string{"stuck"}, completeAfter: 1 << 30}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := streamOutput(ctx, run, time.Millisecond, time.Hour, func(string) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOutputDelta(t *testing.T) {
	tests := []struct {
		last, next, want string
	}{
		{"", "abc", "abc"},
		{"abc", "abcdef", "def"},
		{"abc", "abc", ""},
		{"abc", "abX", "X"},
		{"abc", "ab", ""},
		{"αβ", "αβγ", "γ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, outputDelta(tt.last, tt.next), "%q -> %q", tt.last, tt.next)
	}
}
