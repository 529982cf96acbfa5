package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"content_strategy_designer/generator"
	"content_strategy_designer/logger"
	"content_strategy_designer/view"
)

//go:embed web/templates/*.tmpl
var embeddedTemplates embed.FS

const sessionCookie = "strategy_session"

type Server struct {
	genAgent    *generator.Agent
	keyMode     view.KeyMode
	corsOrigins []string
	log         *logger.Logger
	store       *sessionStore
	tmpl        *template.Template
	now         func() time.Time
}

// Options tune how the server renders and logs.
type Options struct {
	KeyMode     view.KeyMode
	CORSOrigins []string
	Logger      *logger.Logger
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*generator.Session
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*generator.Session)}
}

func (s *sessionStore) set(id string, sess *generator.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *sessionStore) get(id string) (*generator.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func New(genAgent *generator.Agent, opts Options) (*Server, error) {
	if genAgent == nil {
		return nil, errors.New("generator agent required")
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(embeddedTemplates, "web/templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if opts.KeyMode == "" {
		opts.KeyMode = view.KeyBySectionIndex
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Server{
		genAgent:    genAgent,
		keyMode:     opts.KeyMode,
		corsOrigins: opts.CORSOrigins,
		log:         opts.Logger,
		store:       newStore(),
		tmpl:        tmpl,
		now:         time.Now,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))
	r.SetHTMLTemplate(s.tmpl)

	r.GET("/healthcheck", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	r.GET("/", s.handleIndex)
	r.POST("/generate", s.handleGenerate)
	r.POST("/check", s.handleCheck)
	r.POST("/edit", s.handleEdit)
	r.POST("/share", s.handleShare)
	r.GET("/export", s.handleExportJSON)
	r.GET("/export/markdown", s.handleExportMarkdown)
	r.GET("/preview", s.handlePreview)

	api := r.Group("/api")
	if len(s.corsOrigins) > 0 {
		api.Use(cors.New(cors.Config{
			AllowOrigins:     s.corsOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
		}))
		// Preflight requests need a route to reach the CORS middleware.
		api.OPTIONS("/strategy", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}
	api.GET("/strategy", s.handleAPIGet)
	api.POST("/strategy", s.handleAPIGenerate)
	return r
}

// session returns the caller's session, creating one and setting the cookie
// when the browser has none.
func (s *Server) session(c *gin.Context) *generator.Session {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		if sess, ok := s.store.get(id); ok {
			return sess
		}
	}
	id := uuid.NewString()
	sess := generator.NewSession(id, s.genAgent)
	s.store.set(id, sess)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	s.log.Debug("session created", "session", id)
	return sess
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
