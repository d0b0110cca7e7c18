package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/aerosim/internal/dynamo"
)

const Default = "semi_implicit"

var constructors = map[string]func() dynamo.Integrator{
	"semi_implicit": func() dynamo.Integrator { return NewSemiImplicitEuler() },
	"euler":         func() dynamo.Integrator { return NewEuler() },
	"verlet":        func() dynamo.Integrator { return NewVerlet() },
}

// Get returns the integrator registered under name.
func Get(name string) (dynamo.Integrator, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
