// Package server exposes the wizard over HTTP with gin.
package server

import (
	"admitcast/internal/wizard"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig wires the handlers.
type RouterConfig struct {
	Deps         wizard.Deps
	Store        *Store
	AllowOrigins []string
	Logger       *zap.SugaredLogger
}

// NewRouter builds the gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.Store == nil {
		cfg.Store = NewStore(cfg.Deps)
	}
	h := &Handler{
		store:     cfg.Store,
		catalog:   cfg.Deps.Catalog,
		predictor: cfg.Deps.Predictor,
		log:       log,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Requested-With"},
	}
	if len(origins) == 1 && origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthcheck", h.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/colleges", h.ListColleges)
		api.POST("/predict", h.Predict)

		api.POST("/sessions", h.CreateSession)
		sess := api.Group("/sessions/:id")
		{
			sess.GET("", h.GetSession)
			sess.DELETE("", h.DeleteSession)
			sess.POST("/events/:event", h.FireEvent)

			sess.PUT("/academics", h.SetAcademics)
			sess.PUT("/scores", h.SetScores)
			sess.PUT("/extracurriculars", h.SetExtracurriculars)
			sess.PUT("/demographics", h.SetDemographics)

			sess.POST("/select", h.SelectCollege)
			sess.PATCH("/profile", h.UpdateProfile)

			sess.POST("/chat", h.Ask)
			sess.GET("/chat", h.Transcript)
		}
	}

	return router
}
