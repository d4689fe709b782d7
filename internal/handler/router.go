package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/easynatorics-api/internal/middleware"
)

// Router собирает все обработчики и middleware приложения
type Router struct {
	Participants *ParticipantHandler
	Instruments  *InstrumentHandler
	Learning     *LearningHandler
	Research     *ResearchHandler
	Auth         *middleware.AuthMiddleware
	RateLimiter  *middleware.RateLimiter

	AllowedOrigins []string
	Production     bool
}

// Engine создаёт gin.Engine с маршрутами API
func (r *Router) Engine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if !r.Production {
		router.Use(gin.Logger())
	}

	// В production не доверяем прокси-заголовкам (защита от IP spoofing)
	if r.Production {
		_ = router.SetTrustedProxies(nil)
	} else {
		_ = router.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}

	if len(r.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     r.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.SessionHeader},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/participants/register",
			r.RateLimiter.Limit(middleware.RegistrationRateLimitConfig()),
			r.Participants.Register)

		sessions := api.Group("/sessions")
		{
			sessions.POST("", r.Participants.StartSession)
			sessions.DELETE("", r.Auth.RequireSession(), r.Participants.EndSession)
		}

		instruments := api.Group("/instruments")
		{
			instruments.GET("/anxiety", r.Instruments.Anxiety)
			instruments.GET("/tests/:kind", middleware.ExtractTestKind("kind"), r.Instruments.Test)
		}

		me := api.Group("/participants/me", r.Auth.RequireSession())
		{
			me.GET("", r.Participants.Me)
			me.POST("/anxiety/:phase", middleware.ExtractSurveyPhase("phase"), r.Participants.SubmitAnxietySurvey)
			me.POST("/tests/:kind", middleware.ExtractTestKind("kind"), r.Participants.SubmitTest)
			me.POST("/satisfaction", r.Participants.SubmitSatisfaction)
		}

		learning := api.Group("/learning", r.Auth.RequireSession())
		{
			learning.GET("/modules", r.Learning.ListModules)

			module := learning.Group("/modules/:concept", middleware.ExtractConcept("concept"))
			{
				module.GET("", r.Learning.GetModule)
				module.GET("/practice", r.Learning.GetPractice)
				module.POST("/practice/reset", r.Learning.ResetAnswers)
				module.POST("/practice/:index/check", middleware.ExtractIntParam("index", middleware.IndexKey), r.Learning.CheckAnswer)
				module.POST("/tutor", r.RateLimiter.LimitByIP(middleware.TutorRateLimitConfig()), r.Learning.AskTutor)
				module.POST("/complete", r.Learning.CompleteModule)
			}
		}

		research := api.Group("/research")
		{
			research.POST("/login",
				r.RateLimiter.Limit(middleware.ResearcherLoginRateLimitConfig()),
				r.Research.Login)

			authed := research.Group("", r.Auth.RequireResearcher())
			{
				authed.GET("/participants", r.Research.ListParticipants)
				authed.GET("/participants/:id", r.Research.GetParticipant)
				authed.GET("/export", r.Research.Export)
				authed.GET("/summary", r.Research.Summary)
			}
		}
	}

	return router
}
