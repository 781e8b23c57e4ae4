package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inno-quiz-service/internal/app"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Users   *app.UserService
	Quizzes *app.QuizService
	Results *app.ResultService
	Trivia  *app.TriviaService
	Hub     *app.Hub
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the router.
type Options struct {
	AppName        string
	Version        string
	AllowedOrigins []string
	// LoginRate token requests are allowed per client IP every LoginWindow.
	LoginRate   int
	LoginWindow time.Duration
	Ready       []Pinger
	Metrics     *Metrics
}

// Handler serves the REST API.
type Handler struct {
	services Services
	metrics  *Metrics
	log      *zap.Logger
}

// NewRouter wires middleware and every API route onto a gin engine.
func NewRouter(services Services, opts Options, log *zap.Logger) *gin.Engine {
	registerValidators()
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.LoginWindow <= 0 {
		opts.LoginWindow = time.Minute
	}

	h := &Handler{services: services, metrics: opts.Metrics, log: log}
	ws := NewWSHandler(services.Results, services.Hub, opts.Metrics, log)
	loginLimiter := newIPRateLimiter(opts.LoginRate, opts.LoginWindow)

	r := gin.New()
	r.Use(
		requestIDMiddleware(),
		recovery(log),
		accessLog(log),
		opts.Metrics.middleware(),
		cors(opts.AllowedOrigins),
		secureHeaders(),
	)

	health := &healthHandler{name: opts.AppName, version: opts.Version, ready: opts.Ready}
	r.GET("/", health.root)
	r.GET("/healthz", health.live)
	r.GET("/readyz", health.readiness)
	r.GET("/metrics", opts.Metrics.handler())

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/token", loginLimiter.middleware(), h.login)

	trivia := api.Group("/trivia")
	trivia.GET("/categories", h.triviaCategories)
	trivia.GET("/questions", h.triviaQuestions)

	authed := api.Group("", authenticate(services.Users, log))
	authed.POST("/trivia/create-quiz", h.triviaCreateQuiz)

	users := authed.Group("/users")
	users.GET("", requireAdmin(), h.listUsers)
	users.GET("/me", h.me)
	users.GET("/:user_id", h.getUser)
	users.PUT("/:user_id", h.updateUser)
	users.DELETE("/:user_id", h.deleteUser)

	quizzes := authed.Group("/quizzes")
	quizzes.GET("", h.listQuizzes)
	quizzes.POST("", h.createQuiz)
	quizzes.GET("/:quiz_id", h.getQuiz)
	quizzes.PUT("/:quiz_id", h.updateQuiz)
	quizzes.DELETE("/:quiz_id", h.deleteQuiz)

	quizzes.GET("/:quiz_id/questions", h.listQuestions)
	quizzes.POST("/:quiz_id/questions", h.createQuestion)
	quizzes.GET("/:quiz_id/questions/:question_id", h.getQuestion)
	quizzes.PUT("/:quiz_id/questions/:question_id", h.updateQuestion)
	quizzes.DELETE("/:quiz_id/questions/:question_id", h.deleteQuestion)

	quizzes.POST("/:quiz_id/results", h.submitResult)
	quizzes.GET("/:quiz_id/results", h.listResults)
	quizzes.GET("/:quiz_id/results/leaderboard", h.leaderboard)
	quizzes.GET("/:quiz_id/results/leaderboard/ws", ws.ServeWS)

	authed.GET("/results/user", h.myResults)

	return r
}
