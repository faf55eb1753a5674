package script

import (
	"github.com/entrhq/clay/pkg/colab"
)

// Colab adapts a colab notebook for the runner.
func Colab(nb *colab.Notebook) Notebook {
	return colabNotebook{nb}
}

type colabNotebook struct {
	*colab.Notebook
}

func (n colabNotebook) Cell(index int) (Cell, error) {
	c, err := n.Notebook.Cell(index)
	if err != nil {
		return nil, err
	}
	return colabCell{c}, nil
}

type colabCell struct {
	*colab.Cell
}

func (c colabCell) Fields() ([]Field, error) {
	fields, err := c.Cell.Fields()
	if err != nil {
		return nil, err
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f
	}
	return out, nil
}
