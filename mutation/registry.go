package mutation

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"setgenome/gene"
	"setgenome/weight"
)

var (
	ErrBuilderExists   = errors.New("operator builder already registered")
	ErrBuilderNotFound = errors.New("operator builder not found")
)

// Deps carries the shared run state an operator may need: the random source,
// the identity registry and the weight sampler.
type Deps struct {
	Rand    *rand.Rand
	IDs     *gene.Registry
	Sampler *weight.Sampler
}

// Options holds per-operator numeric configuration keyed by option name.
type Options map[string]float64

// Float reads an option, falling back to def when absent.
func (o Options) Float(key string, def float64) float64 {
	if v, ok := o[key]; ok {
		return v
	}
	return def
}

// Bool reads an option as a flag; any non-zero value is true.
func (o Options) Bool(key string, def bool) bool {
	v, ok := o[key]
	if !ok {
		return def
	}
	return v != 0
}

// Builder constructs an operator from shared dependencies and its options.
type Builder func(deps Deps, opts Options) (Operator, error)

var builderRegistry = struct {
	mu sync.RWMutex
	m  map[string]Builder
}{
	m: make(map[string]Builder),
}

// RegisterBuilder makes an operator constructible by name, which is how
// configuration files select mutations.
func RegisterBuilder(name string, b Builder) error {
	if name == "" {
		return errors.New("operator name is required")
	}
	if b == nil {
		return errors.New("operator builder is required")
	}

	builderRegistry.mu.Lock()
	defer builderRegistry.mu.Unlock()

	if _, exists := builderRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrBuilderExists, name)
	}
	builderRegistry.m[name] = b
	return nil
}

// NewOperator builds a registered operator by name.
func NewOperator(name string, deps Deps, opts Options) (Operator, error) {
	builderRegistry.mu.RLock()
	b, ok := builderRegistry.m[name]
	builderRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBuilderNotFound, name)
	}
	return b(deps, opts)
}

// ListBuilders returns the registered operator names sorted.
func ListBuilders() []string {
	builderRegistry.mu.RLock()
	defer builderRegistry.mu.RUnlock()

	names := make([]string, 0, len(builderRegistry.m))
	for name := range builderRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(RegisterBuilder("add_node", func(deps Deps, opts Options) (Operator, error) {
		return &AddNode{
			Rand:        deps.Rand,
			IDs:         deps.IDs,
			Sampler:     deps.Sampler,
			RetainSplit: opts.Bool("retain_split", false),
		}, nil
	}))
	must(RegisterBuilder("remove_node", func(deps Deps, _ Options) (Operator, error) {
		return &RemoveNode{Rand: deps.Rand}, nil
	}))
	must(RegisterBuilder("add_connection", func(deps Deps, _ Options) (Operator, error) {
		return &AddConnection{Rand: deps.Rand, IDs: deps.IDs, Sampler: deps.Sampler}, nil
	}))
	must(RegisterBuilder("remove_connection", func(deps Deps, _ Options) (Operator, error) {
		return &RemoveConnection{Rand: deps.Rand}, nil
	}))
	must(RegisterBuilder("mutate_weights", func(deps Deps, opts Options) (Operator, error) {
		return &MutateWeights{
			Rand:   deps.Rand,
			Rate:   opts.Float("flip_rate", 0.05),
			Single: opts.Bool("single", false),
		}, nil
	}))
	must(RegisterBuilder("duplicate_weight", func(deps Deps, opts Options) (Operator, error) {
		return &DuplicateWeight{
			Rand:   deps.Rand,
			Chance: opts.Float("duplication_chance", 1),
		}, nil
	}))
}
