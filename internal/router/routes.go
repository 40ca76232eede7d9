package router

func InitializeRoutes(reviews *ReviewHandler, catalog *CatalogHandler) {
	api := Router.Group("/api")
	{
		api.GET("/health", reviews.HealthCheck)

		rev := api.Group("/reviews")
		{
			rev.GET("", reviews.ListAll)
			rev.POST("", reviews.Create)
			rev.GET("/user/:username", reviews.ListByUser)
			rev.GET("/:movieId", reviews.ListByMovie)
			rev.PUT("/:id", reviews.Update)
			rev.DELETE("/:id", reviews.Delete)
		}

		cat := api.Group("/catalog")
		{
			cat.GET("/top-rated", catalog.TopRated)
			cat.GET("/popular", catalog.Popular)
			cat.GET("/search", catalog.Search)
			cat.GET("/movies/:id", catalog.MovieDetails)
		}
	}
}
