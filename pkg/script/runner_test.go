package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeField struct {
	name  string
	value string
	err   error
}

func (f *fakeField) Name() (string, error) { return f.name, nil }

func (f *fakeField) SetValue(_ context.Context, value string) error {
	if f.err != nil {
		return f.err
	}
	f.value = value
	return nil
}

type fakeCell struct {
	text   string
	fields []*fakeField
	output []string
	runs   int

	// nb is set when the notebook hands the cell out
	nb *fakeNotebook
}

func (c *fakeCell) Focus() error {
	c.nb.focusOn(c)
	return nil
}

func (c *fakeCell) SetText(_ context.Context, text string) (string, error) {
	c.nb.focusOn(c)
	c.text = text
	return text, nil
}

func (c *fakeCell) Run(context.Context) error {
	c.nb.focusOn(c)
	c.runs++
	return nil
}

func (c *fakeCell) Stream(_ context.Context, fn func(string) error) error {
	for _, chunk := range c.output {
		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (c *fakeCell) Fields() ([]Field, error) {
	out := make([]Field, len(c.fields))
	for i, f := range c.fields {
		out[i] = f
	}
	return out, nil
}

// fakeNotebook inserts new cells below the focused cell and focuses them,
// like the notebook UI.
type fakeNotebook struct {
	cells    []*fakeCell
	focus    int
	opened   string
	created  bool
	name     string
	restarts int
	calls    []string
}

func (n *fakeNotebook) Open(url string) error {
	n.calls = append(n.calls, "open")
	n.opened = url
	return nil
}

func (n *fakeNotebook) Create() (string, error) {
	n.calls = append(n.calls, "create")
	n.created = true
	return "Untitled1.ipynb", nil
}

func (n *fakeNotebook) SetName(name string) (string, error) {
	n.calls = append(n.calls, "rename")
	n.name = name
	return name, nil
}

func (n *fakeNotebook) Restart(context.Context) error {
	n.calls = append(n.calls, "restart")
	n.restarts++
	return nil
}

func (n *fakeNotebook) InsertCellBelow(context.Context) (int, error) {
	n.calls = append(n.calls, "insert")
	at := min(n.focus+1, len(n.cells))
	n.cells = slices.Insert(n.cells, at, &fakeCell{output: []string{"new\n"}})
	n.focus = at
	return at, nil
}

func (n *fakeNotebook) Cell(index int) (Cell, error) {
	if index < 0 {
		index += len(n.cells)
	}
	if index < 0 || index >= len(n.cells) {
		return nil, fmt.Errorf("no cell %d", index)
	}
	c := n.cells[index]
	c.nb = n
	return c, nil
}

func (n *fakeNotebook) focusOn(c *fakeCell) {
	if i := slices.Index(n.cells, c); i >= 0 {
		n.focus = i
	}
}

func (n *fakeNotebook) texts() []string {
	out := make([]string, len(n.cells))
	for i, c := range n.cells {
		out[i] = c.text
	}
	return out
}

func ptr(s string) *string { return &s }

func TestRunnerRun(t *testing.T) {
	epochs := &fakeField{name: "epochs"}
	useGPU := &fakeField{name: "use_gpu"}
	useAMP := &fakeField{name: "use_amp"}
	nb := &fakeNotebook{cells: []*fakeCell{
		{fields: []*fakeField{epochs, useGPU, useAMP}, output: []string{"epoch 1\n", "epoch 2\n"}},
	}}

	s := &Script{
		Notebook: "https://example.com/nb",
		Name:     "train.ipynb",
		Restart:  true,
		Cells: []Step{
			{Cell: 0, Fields: Assignments{{"epochs", "2"}, {"use_*", "true"}}, Run: true},
			{Cell: NewCell, Text: ptr("print(1)"), Run: true},
		},
	}
	require.NoError(t, s.Validate())

	var out bytes.Buffer
	require.NoError(t, NewRunner(nb, &out, nil).Run(context.Background(), s))

	assert.Equal(t, []string{"open", "rename", "restart", "insert"}, nb.calls)
	assert.Equal(t, "https://example.com/nb", nb.opened)
	assert.Equal(t, "2", epochs.value)
	assert.Equal(t, "true", useGPU.value)
	assert.Equal(t, "true", useAMP.value)

	require.Len(t, nb.cells, 2)
	assert.Equal(t, "print(1)", nb.cells[1].text)
	assert.Equal(t, 1, nb.cells[0].runs)
	assert.Equal(t, 1, nb.cells[1].runs)
	assert.Equal(t, "epoch 1\nepoch 2\nnew\n", out.String())
}

func TestRunnerInsertsBelowFocusedCell(t *testing.T) {
	nb := &fakeNotebook{cells: []*fakeCell{{text: "a"}, {text: "b"}, {text: "c"}}}
	s := &Script{Cells: []Step{
		{Cell: NewCell, Text: ptr("x")},
		{Cell: NewCell, Text: ptr("y")},
	}}
	require.NoError(t, s.Validate())

	require.NoError(t, NewRunner(nb, nil, nil).Run(context.Background(), s))
	assert.Equal(t, []string{"a", "x", "y", "b", "c"}, nb.texts())
}

func TestRunnerInsertsBelowPreviousStep(t *testing.T) {
	nb := &fakeNotebook{cells: []*fakeCell{{text: "a"}, {text: "b"}, {text: "c"}}}
	s := &Script{Cells: []Step{
		{Cell: 1, Run: true},
		{Cell: NewCell, Text: ptr("x")},
		{Cell: 3, Text: ptr("c2")},
	}}
	require.NoError(t, s.Validate())

	require.NoError(t, NewRunner(nb, nil, nil).Run(context.Background(), s))
	assert.Equal(t, []string{"a", "b", "x", "c2"}, nb.texts())
}

func TestRunnerEmptyNotebookKeepsOpenNotebook(t *testing.T) {
	nb := &fakeNotebook{cells: []*fakeCell{{}}}
	s := &Script{Cells: []Step{{Cell: 0, Text: ptr("1")}}}

	require.NoError(t, NewRunner(nb, nil, nil).Run(context.Background(), s))
	assert.Empty(t, nb.calls)
	assert.Empty(t, nb.opened)
}

func TestRunnerCreate(t *testing.T) {
	nb := &fakeNotebook{}
	err := NewRunner(nb, nil, nil).Run(context.Background(), &Script{Create: true})
	require.NoError(t, err)
	assert.True(t, nb.created)
	assert.Equal(t, []string{"create"}, nb.calls)
}

func TestRunnerMissingCell(t *testing.T) {
	nb := &fakeNotebook{}
	s := &Script{Cells: []Step{{Cell: 3, Run: true}}}

	err := NewRunner(nb, nil, nil).Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 0 (cell 3)")
}

func TestRunnerCancelled(t *testing.T) {
	nb := &fakeNotebook{cells: []*fakeCell{{}}}
	s := &Script{Cells: []Step{{Cell: 0, Run: true}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewRunner(nb, nil, nil).Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, nb.cells[0].runs)
}

func TestSetFields(t *testing.T) {
	t.Run("unmatched pattern", func(t *testing.T) {
		cell := &fakeCell{fields: []*fakeField{{name: "epochs"}}}
		err := SetFields(context.Background(), cell, Assignments{{"lr", "0.1"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no field matches "lr"`)
		assert.Contains(t, err.Error(), "epochs")
	})

	t.Run("set error", func(t *testing.T) {
		boom := errors.New("not an option")
		cell := &fakeCell{fields: []*fakeField{{name: "optimizer", err: boom}}}
		err := SetFields(context.Background(), cell, Assignments{{"optimizer", "rmsprop"}})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("later assignment wins", func(t *testing.T) {
		a := &fakeField{name: "a"}
		cell := &fakeCell{fields: []*fakeField{a}}
		err := SetFields(context.Background(), cell, Assignments{{"*", "1"}, {"a", "2"}})
		require.NoError(t, err)
		assert.Equal(t, "2", a.value)
	})
}
