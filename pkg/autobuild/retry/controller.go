package retry

import (
	"context"
	"math"

	"pc-autobuild-be/internal/pkg/metrics"
	"pc-autobuild-be/pkg/autobuild"
	"pc-autobuild-be/pkg/autobuild/allocator"
	"pc-autobuild-be/pkg/autobuild/builder"
	"pc-autobuild-be/pkg/autobuild/pool"
	"pc-autobuild-be/pkg/autobuild/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("pc-autobuild.retry")

// Outcome is what one strategy run ends with.
type Outcome struct {
	Config autobuild.Configuration
	// Complete is set only for a complete configuration where every part
	// passed its check and the cost is within the cap.
	Complete      bool
	Attempts      int
	Increases     int
	InitialBudget int64
	FinalBudget   int64
}

// Controller loops allocate, fetch and build, adjusting the budget between
// attempts until a build is accepted or a bound is hit.
type Controller struct {
	allocator *allocator.Allocator
	pools     *pool.Provider
	builder   *builder.Builder
	tuning    autobuild.Tuning
}

func NewController(a *allocator.Allocator, p *pool.Provider, b *builder.Builder, tuning autobuild.Tuning) *Controller {
	return &Controller{allocator: a, pools: p, builder: b, tuning: tuning}
}

// CostCap is the highest total cost an accepted configuration may have.
func (c *Controller) CostCap(initial int64) int64 {
	return int64(math.Floor(float64(initial) * c.tuning.MaxCostRatio))
}

// NextBudget applies the adjustment of the given attempt number. The boolean
// reports whether it counts as an increase.
func (c *Controller) NextBudget(budget int64, attempt int) (int64, bool) {
	if c.tuning.ReallocationEvery > 0 && attempt%c.tuning.ReallocationEvery == 0 {
		scaled := float64(budget) * c.tuning.ReallocationFactor
		return int64(math.Floor(scaled + float64(c.tuning.ReallocationOffset))), false
	}
	return int64(math.Floor(float64(budget) * c.tuning.GrowthFactor)), true
}

// Resolve runs one strategy from the intent's original budget. Running out of
// attempts is not an error: the best partial seen within the cost cap is
// returned with Complete unset.
func (c *Controller) Resolve(ctx context.Context, sess *session.State, intent autobuild.Intent, strategy autobuild.Strategy) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "retry.Controller.Resolve",
		trace.WithAttributes(
			attribute.String("strategy", string(strategy)),
			attribute.Int64("budget", intent.Budget),
		),
	)
	defer span.End()

	run := autobuild.NewRun(intent, strategy)
	sess.SetBudgetSnapshot(strategy, run.Budget)

	out := Outcome{InitialBudget: intent.Budget}
	costCap := c.CostCap(intent.Budget)
	var start, best autobuild.Configuration

	for {
		out.Attempts++

		preferred, alloc, err := c.allocator.Allocate(ctx, sess, run)
		if err != nil {
			return c.fail(span, out, err)
		}
		candidates, err := c.pools.Fetch(ctx, sess, alloc, strategy)
		if err != nil {
			return c.fail(span, out, err)
		}
		res, err := c.builder.Build(ctx, preferred, candidates, start)
		if err != nil {
			return c.fail(span, out, err)
		}

		cost := res.Config.TotalCost()
		if res.Valid() && cost <= costCap {
			metrics.BuildsTotal.WithLabelValues(string(strategy), "complete").Inc()
			out.Config = res.Config
			out.Complete = true
			return c.finish(span, out, run, strategy), nil
		}
		switch {
		case res.Complete():
			metrics.BuildsTotal.WithLabelValues(string(strategy), "forced").Inc()
		default:
			metrics.BuildsTotal.WithLabelValues(string(strategy), "partial").Inc()
		}

		if res.Partial.Len() > best.Len() && res.Partial.TotalCost() <= costCap {
			best = res.Partial
		}

		if out.Attempts >= c.tuning.MaxAttempts ||
			out.Increases >= c.tuning.MaxBudgetIncreases ||
			cost > costCap {
			break
		}

		next, increase := c.NextBudget(run.Budget, out.Attempts)
		if increase {
			out.Increases++
		}
		run.Budget = next
		sess.SetBudgetSnapshot(strategy, run.Budget)
		start = res.Partial
	}

	out.Config = best
	return c.finish(span, out, run, strategy), nil
}

func (c *Controller) finish(span trace.Span, out Outcome, run *autobuild.Run, strategy autobuild.Strategy) Outcome {
	out.FinalBudget = run.Budget
	metrics.RetryAttempts.WithLabelValues(string(strategy)).Observe(float64(out.Attempts))
	span.SetAttributes(
		attribute.Int("attempts", out.Attempts),
		attribute.Int("increases", out.Increases),
		attribute.Bool("complete", out.Complete),
		attribute.Int64("total_cost", out.Config.TotalCost()),
	)
	return out
}

func (c *Controller) fail(span trace.Span, out Outcome, err error) (Outcome, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return out, err
}
