package builder

import (
	"context"
	"errors"

	"pc-autobuild-be/pkg/autobuild"
	"pc-autobuild-be/pkg/autobuild/compat"
)

var errStepLimit = errors.New("search step limit reached")

// Checker is the part of compat.Checker the builder depends on.
type Checker interface {
	IsCompatible(ctx context.Context, category autobuild.Category, part autobuild.Part, cfg autobuild.Configuration, opts ...compat.Option) (bool, error)
}

// Result is the outcome of one build.
type Result struct {
	Config autobuild.Configuration
	// Forced lists the categories filled without passing the compatibility
	// check. A forced configuration may be complete but is never correct.
	Forced []autobuild.Category
	// Partial is the deepest assignment the strict search reached. Every part
	// in it passed its check.
	Partial autobuild.Configuration
	// Skipped lists the categories that had no candidate at all.
	Skipped []autobuild.Category
	Steps   int
}

func (r Result) Complete() bool {
	return r.Config.IsComplete()
}

// Valid reports a complete configuration where every part passed its check.
func (r Result) Valid() bool {
	return r.Complete() && len(r.Forced) == 0
}

// Builder assigns one part per category with a depth-first, first-fit search.
type Builder struct {
	checker   Checker
	stepLimit int
	opts      []compat.Option
}

func New(checker Checker, stepLimit int, opts ...compat.Option) *Builder {
	return &Builder{checker: checker, stepLimit: stepLimit, opts: opts}
}

type search struct {
	ctx        context.Context
	b          *Builder
	order      []autobuild.Category
	candidates map[autobuild.Category][]autobuild.Part
	force      bool

	cfg     autobuild.Configuration
	forced  []autobuild.Category
	steps   int
	best    autobuild.Configuration
	bestLen int
}

// Build searches for a configuration. Candidates per category are the
// preferred parts, then the part carried over from start, then the pool,
// without repeated names. A strict backtracking search runs first; if it finds
// nothing within the step limit, a second pass force-assigns the first
// candidate of any category where nothing fits.
func (b *Builder) Build(ctx context.Context, preferred autobuild.PartsByCategory, pool autobuild.CandidatePool, start autobuild.Configuration) (Result, error) {
	candidates := make(map[autobuild.Category][]autobuild.Part, len(autobuild.BuildOrder))
	var order, skipped []autobuild.Category
	for _, c := range autobuild.BuildOrder {
		list := Candidates(c, start, preferred, pool)
		if len(list) == 0 {
			skipped = append(skipped, c)
			continue
		}
		candidates[c] = list
		order = append(order, c)
	}

	strict := &search{ctx: ctx, b: b, order: order, candidates: candidates}
	found, err := strict.run(0)
	if err != nil && !errors.Is(err, errStepLimit) {
		return Result{}, err
	}
	if found {
		return Result{Config: strict.cfg, Partial: strict.cfg, Skipped: skipped, Steps: strict.steps}, nil
	}

	forcing := &search{ctx: ctx, b: b, order: order, candidates: candidates, force: true}
	found, err = forcing.run(0)
	if err != nil && !errors.Is(err, errStepLimit) {
		return Result{}, err
	}
	steps := strict.steps + forcing.steps
	if found {
		return Result{Config: forcing.cfg, Forced: forcing.forced, Partial: strict.best, Skipped: skipped, Steps: steps}, nil
	}

	// Both passes ran out of steps: hand back the deepest strict assignment.
	return Result{Config: strict.best, Partial: strict.best, Skipped: skipped, Steps: steps}, nil
}

func (s *search) run(depth int) (bool, error) {
	if depth == len(s.order) {
		return true, nil
	}
	c := s.order[depth]
	list := s.candidates[c]

	anyFit := false
	for _, part := range list {
		s.steps++
		if s.b.stepLimit > 0 && s.steps > s.b.stepLimit {
			return false, errStepLimit
		}
		if s.steps%256 == 0 {
			if err := s.ctx.Err(); err != nil {
				return false, err
			}
		}

		ok, err := s.b.checker.IsCompatible(s.ctx, c, part, s.cfg, s.b.opts...)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		anyFit = true

		s.cfg.Assign(c, part)
		s.remember(depth + 1)
		found, err := s.run(depth + 1)
		if err != nil || found {
			return found, err
		}
		s.cfg.Unassign(c)
	}

	if !s.force || anyFit {
		return false, nil
	}

	s.cfg.Assign(c, list[0])
	s.forced = append(s.forced, c)
	found, err := s.run(depth + 1)
	if err != nil || found {
		return found, err
	}
	s.cfg.Unassign(c)
	s.forced = s.forced[:len(s.forced)-1]
	return false, nil
}

func (s *search) remember(assigned int) {
	if assigned > s.bestLen {
		s.bestLen = assigned
		s.best = s.cfg.Clone()
	}
}

// Candidates lists the parts tried for category c in order.
func Candidates(c autobuild.Category, start autobuild.Configuration, preferred autobuild.PartsByCategory, pool autobuild.CandidatePool) []autobuild.Part {
	seen := make(map[string]bool)
	var out []autobuild.Part
	add := func(p autobuild.Part) {
		if p.IsZero() || seen[p.Name] {
			return
		}
		seen[p.Name] = true
		p.Category = c
		out = append(out, p)
	}

	for _, p := range preferred[c] {
		add(p)
	}
	if carried, ok := start.Get(c); ok {
		add(carried)
	}
	for _, p := range pool[c] {
		add(p)
	}
	return out
}
