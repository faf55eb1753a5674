package script

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
notebook: https://colab.research.google.com/drive/1abc
name: training.ipynb
restart: true
timeout: 30m
cells:
  - cell: 0
    fields:
      epochs: 10
      use_*: "true"
      optimizer: sgd
    run: true
  - cell: -1
    text: |
      print("done")
    run: true
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "https://colab.research.google.com/drive/1abc", s.Notebook)
	assert.Equal(t, "training.ipynb", s.Name)
	assert.True(t, s.Restart)
	assert.Equal(t, 30*time.Minute, s.Timeout)
	require.Len(t, s.Cells, 2)

	first := s.Cells[0]
	assert.Equal(t, 0, first.Cell)
	assert.Nil(t, first.Text)
	assert.True(t, first.Run)
	assert.Equal(t, Assignments{
		{Pattern: "epochs", Value: "10"},
		{Pattern: "use_*", Value: "true"},
		{Pattern: "optimizer", Value: "sgd"},
	}, first.Fields)

	second := s.Cells[1]
	assert.Equal(t, NewCell, second.Cell)
	require.NotNil(t, second.Text)
	assert.Equal(t, "print(\"done\")\n", *second.Text)
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Cells)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr string
	}{
		{
			name:    "unknown key",
			script:  "notebok: x\n",
			wantErr: "notebok",
		},
		{
			name:    "create and notebook",
			script:  "create: true\nnotebook: https://example.com\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "negative timeout",
			script:  "timeout: -1s\n",
			wantErr: "timeout",
		},
		{
			name:    "bad index",
			script:  "cells:\n  - cell: -2\n    run: true\n",
			wantErr: "invalid cell index",
		},
		{
			name:    "empty step",
			script:  "cells:\n  - cell: 1\n",
			wantErr: "nothing to do",
		},
		{
			name:    "new cell without text",
			script:  "cells:\n  - cell: -1\n    run: true\n",
			wantErr: "needs text",
		},
		{
			name:    "bad pattern",
			script:  "cells:\n  - cell: 0\n    fields:\n      \"[a\": x\n",
			wantErr: "invalid field pattern",
		},
		{
			name:    "fields not a mapping",
			script:  "cells:\n  - cell: 0\n    fields: [a, b]\n",
			wantErr: "must be a mapping",
		},
		{
			name:    "non-scalar field value",
			script:  "cells:\n  - cell: 0\n    fields:\n      a: [1, 2]\n",
			wantErr: "scalar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.script))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Cells, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseAssignment(t *testing.T) {
	a, err := ParseAssignment("lr=0.01")
	require.NoError(t, err)
	assert.Equal(t, Assignment{Pattern: "lr", Value: "0.01"}, a)

	a, err = ParseAssignment("query=a=b")
	require.NoError(t, err)
	assert.Equal(t, Assignment{Pattern: "query", Value: "a=b"}, a)

	a, err = ParseAssignment("empty=")
	require.NoError(t, err)
	assert.Equal(t, "", a.Value)

	for _, bad := range []string{"novalue", "=x", "[a=1"} {
		_, err := ParseAssignment(bad)
		assert.Error(t, err, bad)
	}
}
