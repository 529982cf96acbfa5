package server

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"content_strategy_designer/generator"
	"content_strategy_designer/publisher"
	"content_strategy_designer/view"
)

// --- Page handlers ---

func (s *Server) render(c *gin.Context, status int, page view.Page) {
	c.HTML(status, "index.tmpl", page)
}

func (s *Server) handleIndex(c *gin.Context) {
	sess := s.session(c)
	s.render(c, http.StatusOK, view.BuildPage(sess, s.keyMode, nil))
}

func formRequest(c *gin.Context) generator.StrategyRequest {
	return generator.StrategyRequest{
		Business: c.PostForm("business"),
		Audience: c.PostForm("audience"),
		Goals:    c.PostForm("goals"),
		Platform: generator.Platform(c.PostForm("platform")),
	}
}

func (s *Server) handleGenerate(c *gin.Context) {
	sess := s.session(c)
	req := formRequest(c)

	_, err := sess.Generate(c.Request.Context(), req)
	if err != nil {
		status := errorStatus(err)
		s.log.Warn("strategy generation failed", "session", sess.ID, "status", status, "error", err)
		s.render(c, status, view.BuildPage(sess, s.keyMode, &req).WithError(err))
		return
	}
	s.log.Info("strategy generated", "session", sess.ID, "platform", string(req.Platform))
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleCheck(c *gin.Context) {
	sess := s.session(c)
	if key := c.PostForm("key"); key != "" {
		sess.Toggle(key)
	}
	c.Redirect(http.StatusSeeOther, "/#strategy")
}

func (s *Server) handleEdit(c *gin.Context) {
	sess := s.session(c)
	sess.BeginEdit()
	page := view.BuildPage(sess, s.keyMode, nil)
	page.Notice = "Editing is not available yet. Adjust the form and generate again."
	s.render(c, http.StatusOK, page)
}

func (s *Server) handleShare(c *gin.Context) {
	sess := s.session(c)
	page := view.BuildPage(sess, s.keyMode, nil)
	if res, ok := sess.Result(); ok {
		if err := publisher.Share(res); errors.Is(err, publisher.ErrShareUnavailable) {
			page.Notice = publisher.ShareNotice
		} else if err != nil {
			page = page.WithError(err)
		}
	}
	s.render(c, http.StatusOK, page)
}

// --- Downloads ---

func (s *Server) handleExportJSON(c *gin.Context) {
	sess := s.session(c)
	res, ok := sess.Result()
	if !ok {
		respondError(c, http.StatusNotFound, "no_strategy", errors.New("no strategy generated yet"), "")
		return
	}
	data, err := publisher.ExportJSON(res)
	if err != nil {
		respondError(c, http.StatusConflict, "incomplete_strategy", err, "")
		return
	}
	attachment(c, publisher.ExportFilename(s.now()))
	c.Data(http.StatusOK, publisher.JSONContentType, data)
}

func (s *Server) handleExportMarkdown(c *gin.Context) {
	sess := s.session(c)
	res, ok := sess.Result()
	if !ok {
		respondError(c, http.StatusNotFound, "no_strategy", errors.New("no strategy generated yet"), "")
		return
	}
	attachment(c, publisher.MarkdownFilename(s.now()))
	c.Data(http.StatusOK, publisher.MarkdownContentType, []byte(publisher.RenderMarkdown(sess.Request(), res)))
}

type previewPage struct {
	Digest string
	Body   template.HTML
}

func (s *Server) handlePreview(c *gin.Context) {
	sess := s.session(c)
	res, ok := sess.Result()
	if !ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	md := publisher.RenderMarkdown(sess.Request(), res)
	body, err := publisher.RenderHTML(md)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "render_failed", err, "")
		return
	}
	// goldmark escapes raw HTML unless WithUnsafe is set, so the fragment is safe to embed.
	c.HTML(http.StatusOK, "preview.tmpl", previewPage{
		Digest: publisher.Digest(md, 160),
		Body:   template.HTML(body),
	})
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// --- JSON API ---

type strategyReq struct {
	Business string `json:"business"`
	Audience string `json:"audience"`
	Goals    string `json:"goals"`
	Platform string `json:"platform"`
}

type strategyResp struct {
	SessionID string                    `json:"session_id"`
	Request   generator.StrategyRequest `json:"request"`
	Strategy  generator.StrategyResult  `json:"strategy"`
	Timeline  []timelineRow             `json:"timeline,omitempty"`
	Metrics   []metricCard              `json:"metrics,omitempty"`
	History   []generator.Turn          `json:"history"`
	// RenderError reports a missing section that blocks a view.
	RenderError string `json:"render_error,omitempty"`
}

type timelineRow struct {
	Month string `json:"month"`
	Task  string `json:"task"`
}

type metricCard struct {
	Title  string `json:"title"`
	Target string `json:"target"`
}

type apiError struct {
	Message     string `json:"message"`
	Code        string `json:"code,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error, raw string) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, errorEnvelope{Error: apiError{Message: msg, Code: code, RawResponse: raw}})
}

func errorStatus(err error) int {
	var verr *generator.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func (s *Server) strategyResponse(sess *generator.Session) strategyResp {
	res, _ := sess.Result()
	out := strategyResp{
		SessionID: sess.ID,
		Request:   sess.Request(),
		Strategy:  res,
		History:   sess.History(),
	}
	if err := generator.CheckShape(res); err != nil {
		out.RenderError = err.Error()
	}
	rows, _ := view.Timeline(res)
	for _, r := range rows {
		out.Timeline = append(out.Timeline, timelineRow{Month: r.Month, Task: r.Task})
	}
	cards, _ := view.MetricCards(res)
	for _, m := range cards {
		out.Metrics = append(out.Metrics, metricCard{Title: m.Title, Target: m.Target})
	}
	return out
}

func (s *Server) handleAPIGet(c *gin.Context) {
	sess := s.session(c)
	if _, ok := sess.Result(); !ok {
		respondError(c, http.StatusNotFound, "no_strategy", errors.New("no strategy generated yet"), "")
		return
	}
	c.JSON(http.StatusOK, s.strategyResponse(sess))
}

func (s *Server) handleAPIGenerate(c *gin.Context) {
	sess := s.session(c)
	var body strategyReq
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err, "")
		return
	}
	req := generator.StrategyRequest{
		Business: body.Business,
		Audience: body.Audience,
		Goals:    body.Goals,
		Platform: generator.Platform(body.Platform),
	}

	if _, err := sess.Generate(c.Request.Context(), req); err != nil {
		var verr *generator.ValidationError
		if errors.As(err, &verr) {
			respondError(c, http.StatusUnprocessableEntity, "validation_failed", err, "")
			return
		}
		var gerr *generator.GenerationError
		if errors.As(err, &gerr) {
			s.log.Warn("strategy generation failed", "session", sess.ID, "stage", string(gerr.Stage), "error", gerr.Err)
			respondError(c, http.StatusBadGateway, "generation_failed", err, gerr.Raw)
			return
		}
		respondError(c, http.StatusInternalServerError, "internal", err, "")
		return
	}
	c.JSON(http.StatusOK, s.strategyResponse(sess))
}
