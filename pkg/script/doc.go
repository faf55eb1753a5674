// Package script runs YAML notebook scripts.
//
// A script names a notebook (or asks for a new one) and lists steps. Each
// step selects a cell, optionally replaces its source, sets form fields by
// name pattern and runs it, streaming the output:
//
//	notebook: https://colab.research.google.com/drive/1abc
//	restart: true
//	cells:
//	  - cell: 0
//	    fields:
//	      epochs: "10"
//	      use_*: "true"
//	    run: true
//	  - cell: -1
//	    text: |
//	      print(model.summary())
//	    run: true
//
// Cell -1 inserts a new cell below the previous step's cell, or below the
// focused cell in the first step, and later steps see the cells shifted.
// Without notebook or create the script runs on the notebook already open.
package script
