package view

import (
	"errors"

	"content_strategy_designer/generator"
)

// Page is everything the strategy page template needs for one render.
type Page struct {
	Request   generator.StrategyRequest
	Platforms []generator.Platform

	HasResult bool
	Checklist []ChecklistGroup
	Timeline  []TimelineRow
	Metrics   []MetricCard
	// RenderError is set when the stored result cannot be shown, e.g. a
	// section the model left out.
	RenderError string

	Editing     bool
	Generations int

	Notice      string
	Error       string
	RawResponse string
}

// BuildPage projects the session into a Page. The form is pre-filled with
// form when given, otherwise with the request behind the current result.
func BuildPage(sess *generator.Session, mode KeyMode, form *generator.StrategyRequest) Page {
	p := Page{Platforms: generator.Platforms()}
	if sess == nil {
		return p
	}
	p.Request = sess.Request()
	if form != nil {
		p.Request = *form
	}
	p.Editing = sess.Editing()
	p.Generations = len(sess.History())

	res, ok := sess.Result()
	if !ok {
		return p
	}
	p.HasResult = true

	p.Checklist = Checklist(res, sess, mode)
	// Timeline and Metrics stay nil when their section is missing.
	p.Timeline, _ = Timeline(res)
	p.Metrics, _ = MetricCards(res)
	if err := generator.CheckShape(res); err != nil {
		p.RenderError = err.Error()
	}
	return p
}

// WithError records a failed action on the page. Generation failures carry the
// raw model response for diagnosis.
func (p Page) WithError(err error) Page {
	if err == nil {
		return p
	}
	p.Error = err.Error()
	var verr *generator.ValidationError
	if errors.As(err, &verr) && verr.Message != "" {
		p.Error = verr.Message
	}
	var gerr *generator.GenerationError
	if errors.As(err, &gerr) {
		p.RawResponse = gerr.Raw
	}
	return p
}
