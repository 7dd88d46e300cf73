package web

import (
	"Quizzy/core"
	"Quizzy/lib/sl"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// The page loads the browser build of the form handler from the static dir.
//go:generate mkdir -p ../static
//go:generate env GOOS=js GOARCH=wasm go build -o ../static/webform.wasm ../cmd/webform
//go:generate cp $GOROOT/lib/wasm/wasm_exec.js ../static/

//go:embed templates/*.html
var templates embed.FS

var bundleFiles = []string{"wasm_exec.js", "webform.wasm"}

type Server struct {
	conf      *core.Config
	log       *slog.Logger
	questions core.QuestionService
	content   core.ContentService
	history   History
	limiter   Limiter
	engine    *gin.Engine
	http      *http.Server
}

// New builds the router. limiter may be nil, requests are then not limited.
func New(conf *core.Config, questions core.QuestionService, content core.ContentService, history History, limiter Limiter, log *slog.Logger) *Server {
	if conf.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		conf:      conf,
		log:       log.With(sl.Module("web")),
		questions: questions,
		content:   content,
		history:   history,
		limiter:   limiter,
	}
	s.engine = s.routes()
	s.checkBundle()
	s.http = &http.Server{
		Addr:         conf.Addr(),
		Handler:      s.engine,
		ReadTimeout:  conf.Listen.ReadTimeout,
		WriteTimeout: conf.Listen.WriteTimeout,
	}
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))

	r.Use(
		recovery(s.log),
		requestID(),
		accessLog(s.log),
		metrics(),
		corsPolicy(s.conf.Listen.AllowedOrigins),
	)

	r.GET("/", s.index)
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/generations", s.generations)

	// model backed routes share the rate limit
	limited := r.Group("/")
	if s.limiter != nil && s.conf.RateLimit.Requests > 0 {
		limited.Use(rateLimit(s.limiter, s.conf.RateLimit.Requests, s.conf.RateLimit.Window, s.log))
	}
	limited.POST("/generate", s.generate)
	limited.POST("/process", s.process)
	limited.POST("/feedback", s.feedback)

	if s.conf.Listen.StaticDir != "" {
		r.Static("/static", s.conf.Listen.StaticDir)
	}
	r.NoRoute(s.notFound)

	return r
}

// checkBundle warns when the form page would load without its submit handler
func (s *Server) checkBundle() {
	dir := s.conf.Listen.StaticDir
	if dir == "" {
		s.log.Warn("static dir disabled, the form page has no submit handler")
		return
	}
	for _, name := range bundleFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			s.log.With(
				slog.String("file", filepath.Join(dir, name)),
			).Warn("form bundle missing, run go generate ./web", sl.Err(err))
		}
	}
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks until the server is shut down
func (s *Server) Start() error {
	s.log.With(
		slog.String("addr", s.http.Addr),
	).Info("starting web server")

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
