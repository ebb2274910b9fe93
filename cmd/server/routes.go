package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stagepass.backend/internal/interfaces/http/handlers"
	"stagepass.backend/internal/interfaces/http/middleware"
	"stagepass.backend/pkg/metrics"
)

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	entryHandler      *handlers.EntryHandler
	paymentHandler    *handlers.PaymentHandler
	webhookHandler    *handlers.WebhookHandler
	submissionHandler *handlers.SubmissionHandler
	contestHandler    *handlers.ContestHandler
	authMiddleware    gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID, Idempotency-Key")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "stagepass-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", metrics.Handler())
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public + profile)
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", d.authHandler.Signup)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.Refresh)
			auth.GET("/profile", d.authMiddleware, d.authHandler.Profile)
			auth.PATCH("/profile", d.authMiddleware, d.authHandler.UpdateProfile)
		}

		// Contest routes (public read)
		contests := v1.Group("/contests")
		{
			contests.GET("", d.contestHandler.List)
			contests.GET("/:id", d.contestHandler.Get)
		}

		// Participant contest views (protected)
		contestsAuth := v1.Group("/contests")
		contestsAuth.Use(d.authMiddleware)
		{
			contestsAuth.GET("/:id/entry", d.entryHandler.EntryStatus)
			contestsAuth.GET("/:id/submission", d.submissionHandler.MySubmission)
		}

		// Entry routes (protected)
		entries := v1.Group("/entries")
		entries.Use(d.authMiddleware)
		{
			entries.POST("", middleware.IdempotencyMiddleware(), d.entryHandler.RequestEntry)
			entries.GET("", d.entryHandler.ListMyEntries)
		}

		// Payment reconciliation (protected)
		payments := v1.Group("/payments")
		payments.Use(d.authMiddleware)
		{
			payments.GET("/verify/:reference", d.paymentHandler.Verify)
		}

		// Submission upload (protected)
		submissions := v1.Group("/submissions")
		submissions.Use(d.authMiddleware)
		{
			submissions.POST("", d.submissionHandler.Upload)
		}

		// Gateway webhook (signature-authenticated, not JWT)
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/paystack", d.webhookHandler.HandlePaystackWebhook)
		}

		// Admin console (protected, administrator role)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.POST("/contests", d.contestHandler.Create)
			admin.PATCH("/contests/:id", d.contestHandler.Update)
			admin.PUT("/contests/:id/stage", d.contestHandler.SetStage)
			admin.DELETE("/contests/:id", d.contestHandler.Delete)
			admin.GET("/contests/:id/contestants", d.contestHandler.Contestants)
			admin.PUT("/contests/:id/entries/:entryId/winner", d.contestHandler.MarkWinner)
			admin.POST("/contests/:id/entries/:entryId/promote", d.contestHandler.Promote)
			admin.POST("/contests/:id/promote", d.contestHandler.BulkPromote)

			admin.GET("/users", d.contestHandler.ListUsers)
			admin.GET("/users/:id", d.contestHandler.GetUser)
			admin.DELETE("/users/:id", d.contestHandler.DeleteUser)
			admin.POST("/users/:id/promote", d.contestHandler.PromoteUser)

			admin.GET("/submissions", d.contestHandler.ListSubmissions)
			admin.DELETE("/submissions/:id", d.contestHandler.DeleteSubmission)
		}
	}
}
