package service

import (
	"context"
	"time"

	"pc-autobuild-be/internal/dto"
	"pc-autobuild-be/internal/mapper"
	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/internal/pkg/metrics"
	"pc-autobuild-be/pkg/autobuild"
	"pc-autobuild-be/pkg/autobuild/diversify"
	"pc-autobuild-be/pkg/autobuild/retry"
	"pc-autobuild-be/pkg/autobuild/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("pc-autobuild.service")

// SingleStrategy is the strategy used by ResolveOne.
const SingleStrategy = autobuild.StrategyPerformance

type IAutobuildService interface {
	ResolveMany(ctx context.Context, requesterID string, req *dto.ResolveRequest) (*dto.ResolveManyResponse, error)
	ResolveOne(ctx context.Context, requesterID string, req *dto.ResolveOneRequest) (*dto.ResolveOneResponse, error)
	Reset(ctx context.Context, requesterID string) error
}

// IntentInterpreter is satisfied by *intent.Interpreter.
type IntentInterpreter interface {
	Interpret(ctx context.Context, text string) (autobuild.Intent, error)
}

type autobuildService struct {
	interpreter IntentInterpreter
	sessions    *session.Manager
	diversifier *diversify.Diversifier
	controller  *retry.Controller
	mapper      *mapper.BuildMapper
	timeout     time.Duration
	logger      logger.ILogger
}

func NewAutobuildService(
	interpreter IntentInterpreter,
	sessions *session.Manager,
	diversifier *diversify.Diversifier,
	controller *retry.Controller,
	timeout time.Duration,
	log logger.ILogger,
) IAutobuildService {
	return &autobuildService{
		interpreter: interpreter,
		sessions:    sessions,
		diversifier: diversifier,
		controller:  controller,
		mapper:      mapper.NewBuildMapper(),
		timeout:     timeout,
		logger:      log,
	}
}

func (s *autobuildService) begin(ctx context.Context, name, requesterID string) (context.Context, context.CancelFunc, trace.Span) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attribute.String("requester_id", requesterID)))
	if s.timeout <= 0 {
		return ctx, func() {}, span
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return ctx, cancel, span
}

func (s *autobuildService) ResolveMany(ctx context.Context, requesterID string, req *dto.ResolveRequest) (*dto.ResolveManyResponse, error) {
	defer observe("many", time.Now())
	ctx, cancel, span := s.begin(ctx, "AutobuildService.ResolveMany", requesterID)
	defer cancel()
	defer span.End()

	strategies, err := parseStrategies(req.Strategies)
	if err != nil {
		return nil, s.fail(span, "ResolveMany", requesterID, err)
	}

	in, err := s.interpreter.Interpret(ctx, req.Text)
	if err != nil {
		return nil, s.fail(span, "ResolveMany", requesterID, err)
	}
	span.SetAttributes(attribute.Int64("budget", in.Budget), attribute.String("purpose", string(in.Purpose)))

	sess, release := s.sessions.Acquire(requesterID)
	defer release()

	results, err := s.diversifier.ResolveMany(ctx, sess, in, strategies)
	if err != nil {
		return nil, s.fail(span, "ResolveMany", requesterID, err)
	}

	res := &dto.ResolveManyResponse{
		RequesterID: requesterID,
		Intent:      s.mapper.ToIntentResponse(in),
		Results:     s.mapper.ToStrategyResults(strategies, results),
	}

	total := 0
	for _, r := range res.Results {
		total += len(r.Configurations)
	}
	s.logger.Info("AutobuildService", "Resolved builds", map[string]interface{}{
		"requester_id":   requesterID,
		"budget":         in.Budget,
		"purpose":        in.Purpose,
		"configurations": total,
	})
	return res, nil
}

func (s *autobuildService) ResolveOne(ctx context.Context, requesterID string, req *dto.ResolveOneRequest) (*dto.ResolveOneResponse, error) {
	defer observe("one", time.Now())
	ctx, cancel, span := s.begin(ctx, "AutobuildService.ResolveOne", requesterID)
	defer cancel()
	defer span.End()

	in, err := s.interpreter.Interpret(ctx, req.Text)
	if err != nil {
		return nil, s.fail(span, "ResolveOne", requesterID, err)
	}

	sess, release := s.sessions.Acquire(requesterID)
	defer release()

	out, err := s.controller.Resolve(ctx, sess, in, SingleStrategy)
	if err != nil {
		return nil, s.fail(span, "ResolveOne", requesterID, err)
	}

	if !out.Complete {
		s.logger.Warn("AutobuildService", "Returning incomplete build", map[string]interface{}{
			"requester_id": requesterID,
			"missing":      out.Config.Missing(),
			"attempts":     out.Attempts,
		})
	}

	return &dto.ResolveOneResponse{
		RequesterID: requesterID,
		Intent:      s.mapper.ToIntentResponse(in),
		Strategy:    SingleStrategy,
		Build:       s.mapper.ToBuildResponse(out.Config),
		Attempts:    out.Attempts,
		Increases:   out.Increases,
		FinalBudget: out.FinalBudget,
	}, nil
}

// Reset drops the requester's pools and exclusions so the next resolve
// starts from a clean catalog view.
func (s *autobuildService) Reset(ctx context.Context, requesterID string) error {
	s.sessions.Forget(requesterID)
	s.logger.Info("AutobuildService", "Session reset", map[string]interface{}{
		"requester_id": requesterID,
	})
	return nil
}

func (s *autobuildService) fail(span trace.Span, op, requesterID string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Error("AutobuildService", op+" failed", map[string]interface{}{
		"requester_id": requesterID,
		"error":        err,
	})
	return err
}

func observe(mode string, start time.Time) {
	metrics.ResolveDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}

// parseStrategies defaults to every strategy and drops repeats.
func parseStrategies(names []string) ([]autobuild.Strategy, error) {
	if len(names) == 0 {
		return autobuild.AllStrategies, nil
	}
	seen := make(map[autobuild.Strategy]bool, len(names))
	out := make([]autobuild.Strategy, 0, len(names))
	for _, name := range names {
		s, err := autobuild.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}
