package google

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// OpenAny creates a driver with the first engine that works, trying engines
// in random order. When every engine fails, all failures are returned joined.
// With no engines given, every supported engine is tried.
func OpenAny(rt *Runtime, opts Options, engines ...Engine) (*Driver, error) {
	if len(engines) == 0 {
		engines = Engines
	}

	order := append([]Engine(nil), engines...)
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	var errs []error
	for _, engine := range order {
		opts.Engine = engine
		d, err := New(rt, opts)
		if err == nil {
			return d, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", engine, err))
	}
	return nil, errors.Join(errs...)
}
