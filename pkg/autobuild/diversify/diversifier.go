package diversify

import (
	"context"
	"math/rand/v2"
	"sync"

	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/internal/pkg/metrics"
	"pc-autobuild-be/pkg/autobuild"
	"pc-autobuild-be/pkg/autobuild/compat"
	"pc-autobuild-be/pkg/autobuild/retry"
	"pc-autobuild-be/pkg/autobuild/session"
	"pc-autobuild-be/pkg/livefeed"

	"golang.org/x/sync/errgroup"
)

// Resolver runs one strategy to an outcome.
type Resolver interface {
	Resolve(ctx context.Context, sess *session.State, intent autobuild.Intent, strategy autobuild.Strategy) (retry.Outcome, error)
}

// Verifier re-checks a finished configuration, satisfied by *compat.Checker.
type Verifier interface {
	Verify(ctx context.Context, cfg autobuild.Configuration, opts ...compat.Option) (bool, error)
}

// StrategyResult collects what one strategy produced.
type StrategyResult struct {
	Configurations []autobuild.Configuration
	// Best is the best partial configuration when nothing complete was found.
	Best      autobuild.Configuration
	Exhausted bool
	Attempts  int
}

// Option configures a Diversifier.
type Option func(*Diversifier)

// WithIntN replaces the random source used to pick exclusions. intn must be
// safe for concurrent use and return a value in [0, n).
func WithIntN(intn func(n int) int) Option {
	return func(d *Diversifier) {
		d.intn = intn
	}
}

// WithVerifier re-checks every complete configuration before it is accepted.
// Configurations that fail are dropped, and one of their parts is excluded.
func WithVerifier(v Verifier) Option {
	return func(d *Diversifier) {
		d.verifier = v
	}
}

// Diversifier repeats a strategy, excluding one part of every result so the
// next attempt has to find a different configuration.
type Diversifier struct {
	resolver  Resolver
	publisher livefeed.Publisher
	attempts  int
	logger    logger.ILogger
	intn      func(n int) int
	verifier  Verifier
}

func New(resolver Resolver, publisher livefeed.Publisher, attempts int, log logger.ILogger, opts ...Option) *Diversifier {
	if publisher == nil {
		publisher = livefeed.Discard{}
	}
	d := &Diversifier{
		resolver:  resolver,
		publisher: publisher,
		attempts:  attempts,
		logger:    log,
		intn:      rand.IntN,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ResolveMany runs the strategies concurrently. The first error cancels the
// others and is returned.
func (d *Diversifier) ResolveMany(ctx context.Context, sess *session.State, intent autobuild.Intent, strategies []autobuild.Strategy) (map[autobuild.Strategy]StrategyResult, error) {
	var mu sync.Mutex
	results := make(map[autobuild.Strategy]StrategyResult, len(strategies))

	g, gctx := errgroup.WithContext(ctx)
	for _, strategy := range strategies {
		g.Go(func() error {
			res, err := d.resolveStrategy(gctx, sess, intent, strategy)
			if err != nil {
				return err
			}
			mu.Lock()
			results[strategy] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *Diversifier) resolveStrategy(ctx context.Context, sess *session.State, intent autobuild.Intent, strategy autobuild.Strategy) (StrategyResult, error) {
	sess.ResetExclusions(strategy)

	var res StrategyResult
	seen := make(map[string]bool)

	for res.Attempts < d.attempts {
		res.Attempts++

		out, err := d.resolver.Resolve(ctx, sess, intent, strategy)
		if err != nil {
			return StrategyResult{}, err
		}
		if !out.Complete {
			if len(res.Configurations) == 0 {
				res.Best = out.Config
			}
			break
		}

		verified, err := d.verify(ctx, out.Config)
		if err != nil {
			return StrategyResult{}, err
		}

		fp := out.Config.Fingerprint()
		if verified && !seen[fp] {
			seen[fp] = true
			res.Configurations = append(res.Configurations, out.Config)
			metrics.ConfigurationsEmitted.WithLabelValues(string(strategy)).Inc()
			d.publish(ctx, livefeed.NewUpdate(sess.RequesterID, strategy, len(res.Configurations)-1, out.Config))
		}

		if !d.excludeOne(sess, intent, strategy, out.Config) {
			break
		}
	}

	res.Exhausted = len(res.Configurations) == 0
	d.logger.Info("Diversifier", "Strategy resolved", map[string]interface{}{
		"requester_id":   sess.RequesterID,
		"strategy":       strategy,
		"configurations": len(res.Configurations),
		"attempts":       res.Attempts,
		"exhausted":      res.Exhausted,
	})
	return res, nil
}

// excludeOne bans one randomly chosen part of cfg for the strategy. Parts the
// user asked for are never banned. It reports false when nothing is left to
// ban.
func (d *Diversifier) excludeOne(sess *session.State, intent autobuild.Intent, strategy autobuild.Strategy, cfg autobuild.Configuration) bool {
	preferred, _ := sess.Preferred(intent.CacheKey())

	var options []autobuild.Part
	for _, c := range cfg.Assigned() {
		part, _ := cfg.Get(c)
		if isPreferred(preferred[c], part.Name) {
			continue
		}
		options = append(options, part)
	}
	if len(options) == 0 {
		return false
	}

	pick := options[d.intn(len(options))]
	sess.Exclude(strategy, pick.Category, pick.Name)
	return true
}

func isPreferred(parts []autobuild.Part, name string) bool {
	for _, p := range parts {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (d *Diversifier) verify(ctx context.Context, cfg autobuild.Configuration) (bool, error) {
	if d.verifier == nil {
		return true, nil
	}
	ok, err := d.verifier.Verify(ctx, cfg)
	if err != nil {
		return false, err
	}
	if !ok {
		d.logger.Warn("Diversifier", "Dropping configuration that failed verification", map[string]interface{}{
			"configuration": cfg.String(),
		})
	}
	return ok, nil
}

func (d *Diversifier) publish(ctx context.Context, update livefeed.Update) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := d.publisher.Publish(ctx, update); err != nil {
			d.logger.Warn("Diversifier", "Failed to publish build update", map[string]interface{}{
				"requester_id": update.RequesterID,
				"strategy":     update.Strategy,
				"error":        err.Error(),
			})
		}
	}()
}
