package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")
	auth := api.Group("/auth")
	auth.POST("/signup", s.signup)
	auth.POST("/login", s.login)
	auth.POST("/refresh", s.refreshToken)

	protected := api.Group("")
	protected.Use(s.middleware.JWT.RequireJWT())

	users := protected.Group("/users")
	users.GET("/me", s.getOwnProfile)
	users.PUT("/me", s.updateOwnProfile)

	projects := protected.Group("/projects")
	projects.GET("", s.listProjects)
	projects.POST("", s.createProject)
	projects.GET("/:id", s.getProject)
	projects.PUT("/:id", s.updateProject)
	projects.DELETE("/:id", s.deleteProject)
	projects.GET("/:id/calls", s.listProjectCalls)

	calls := protected.Group("/calls")
	calls.GET("", s.listCalls)
	calls.POST("", s.createCall)
	calls.GET("/:id", s.getCall)
	calls.PUT("/:id", s.updateCall)
	calls.DELETE("/:id", s.deleteCall)

	templates := protected.Group("/templates")
	templates.GET("", s.listTemplates)
	templates.POST("", s.createTemplate)
	templates.GET("/:id", s.getTemplate)
	templates.PUT("/:id", s.updateTemplate)
	templates.DELETE("/:id", s.deleteTemplate)

	credits := protected.Group("/credits")
	credits.GET("", s.getCreditBalance)
	credits.GET("/usage", s.listCreditUsage)
	credits.POST("/grant", s.grantCredits, s.middleware.Admin.RequireAdmin())

	// Metered endpoints run the full gate: auth, then the per-user rate
	// limiter, then an up-front credit debit sized to the operation.
	ai := protected.Group("/ai")
	ai.Use(s.middleware.RateLimit.Handler())
	ai.POST("/transcriptions", s.transcribeAudio, s.middleware.Credits.RequireCredits(s.costs.Transcription))
	ai.POST("/reports", s.generateReport, s.middleware.Credits.RequireCredits(s.costs.Report))
	ai.POST("/reports/refine", s.refineReport, s.middleware.Credits.RequireCredits(s.costs.Refine))
	ai.POST("/templates", s.generateTemplate, s.middleware.Credits.RequireCredits(s.costs.Template))

	protected.POST("/reports/share", s.shareReport)
}
