package router

import (
	"youthPolicyHub/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupPolicyRoutes(api *echo.Group, handler *rest.PolicyHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	policies := api.Group("/policies", authRequired)

	policies.GET("", handler.ListPolicies)
	policies.GET("/hot", handler.GetHotPolicies)
	policies.GET("/recommendations", handler.GetRecommendations)
	policies.GET("/search", handler.Search)
	policies.GET("/favorites", handler.ListFavorites)
	policies.GET("/:policyId", handler.GetPolicyDetail)
	policies.POST("/:policyId/favorites", handler.RegisterFavorite)
	policies.DELETE("/:policyId/favorites", handler.RemoveFavorite)

	policies.POST("/refresh", handler.Refresh, adminOnly)
}

func SetupPreferenceRoutes(api *echo.Group, handler *rest.PolicyHandler, authRequired echo.MiddlewareFunc) {
	me := api.Group("/users/me", authRequired)

	me.GET("/preferences", handler.GetPreferences)
	me.PUT("/preferences", handler.UpdatePreferences)
}

func SetupMetricsRoute(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
