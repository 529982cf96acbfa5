package generator

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"content_strategy_designer/logger"
)

// Agent 负责调用模型，把 StrategyRequest 转成 StrategyResult。
type Agent struct {
	llm     LLMClient
	mode    ExtractMode
	strict  bool
	timeout time.Duration
	log     *logger.Logger
	tracer  trace.Tracer
}

// Option 配置 Agent。
type Option func(*Agent)

// WithExtractMode 选择 JSON 提取方式。
func WithExtractMode(m ExtractMode) Option {
	return func(a *Agent) { a.mode = m }
}

// WithStrictShape 缺少部分时直接让生成失败，而不是留到渲染阶段。
func WithStrictShape(strict bool) Option {
	return func(a *Agent) { a.strict = strict }
}

// WithTimeout 限制模型调用时长，0 表示不限制。
func WithTimeout(d time.Duration) Option {
	return func(a *Agent) { a.timeout = d }
}

func WithLogger(l *logger.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.log = l
		}
	}
}

func NewAgent(llm LLMClient, opts ...Option) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	a := &Agent{
		llm:    llm,
		mode:   ExtractBalanced,
		log:    logger.Nop(),
		tracer: otel.Tracer("content_strategy_designer/generator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Generate 校验请求，调用一次模型并解析返回。
// 错误类型为 *ValidationError 或 *GenerationError。
func (a *Agent) Generate(ctx context.Context, req StrategyRequest) (StrategyResult, error) {
	if err := req.Validate(); err != nil {
		a.log.Debug("strategy request rejected", "error", err)
		return StrategyResult{}, err
	}

	ctx, span := a.tracer.Start(ctx, "generator.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("strategy.platform", string(req.Platform)),
		attribute.String("strategy.extract_mode", string(a.mode)),
	)

	res, err := a.generate(ctx, req)
	if err != nil {
		var gerr *GenerationError
		if errors.As(err, &gerr) {
			span.SetAttributes(attribute.String("strategy.failed_stage", string(gerr.Stage)))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return StrategyResult{}, err
	}
	return res, nil
}

func (a *Agent) generate(ctx context.Context, req StrategyRequest) (StrategyResult, error) {
	prompt := BuildPrompt(req)

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := a.llm.Complete(callCtx, prompt)
	if err != nil {
		a.log.Warn("model call failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return StrategyResult{}, &GenerationError{Stage: StageInvoke, Err: err}
	}
	a.log.Debug("model responded", "chars", len(raw), "duration_ms", time.Since(start).Milliseconds())
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("strategy.response_chars", len(raw)))

	payload, err := ExtractJSON(raw, a.mode)
	if err != nil {
		a.log.Warn("no strategy JSON in response", "error", err)
		return StrategyResult{}, &GenerationError{Stage: StageExtract, Raw: raw, Err: err}
	}

	res, err := ParseStrategy(payload)
	if err != nil {
		a.log.Warn("strategy JSON did not parse", "error", err)
		return StrategyResult{}, &GenerationError{Stage: StageParse, Raw: raw, Err: err}
	}

	if a.strict {
		if err := CheckShape(res); err != nil {
			return StrategyResult{}, &GenerationError{Stage: StageShape, Raw: raw, Err: err}
		}
	} else if missing := res.Missing(); len(missing) > 0 {
		a.log.Warn("strategy is missing sections", "missing", missing)
	}
	return res, nil
}
