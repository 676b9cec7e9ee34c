package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kapildev5262/Token-World/config"
	"github.com/kapildev5262/Token-World/controllers"
	"github.com/kapildev5262/Token-World/routers/middleware"
	u "github.com/kapildev5262/Token-World/utils"
)

// Routes builds the HTTP router of the UI API
func Routes(conf *config.ServerConfiguration, ctrl *controllers.Controller) *gin.Engine {
	if !conf.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(conf.AllowedOrigins))

	router.GET("/health", func(ctx *gin.Context) {
		u.APIResponse(ctx, http.StatusOK, "success", "OK", nil)
	})

	v1 := router.Group("/v1")

	reads := v1.Group("")
	reads.Use(middleware.RateLimitMiddleware("reads", conf.RateLimitReads))
	reads.GET("chains", ctrl.GetChains)
	reads.GET("wallets", ctrl.GetWallets)
	reads.GET("session", ctrl.GetSession)
	reads.GET("fees/preview", ctrl.GetFeePreview)
	reads.GET("factories/:kind/configuration", ctrl.GetConfiguration)
	reads.GET("deployments", ctrl.GetDeployments)

	// intents reach the wallet and may broadcast transactions
	intents := v1.Group("")
	intents.Use(middleware.RateLimitMiddleware("intents", conf.RateLimitIntents))
	intents.POST("session/connect", ctrl.Connect)
	intents.POST("session/disconnect", ctrl.Disconnect)
	intents.POST("session/chain", ctrl.SelectChain)
	intents.POST("factories/:kind/deploy", ctrl.Deploy)
	intents.POST("factories/:kind/mint", ctrl.Mint)
	intents.POST("factories/:kind/fees", ctrl.UpdateFees)
	intents.POST("factories/:kind/withdraw", ctrl.Withdraw)
	intents.POST("factories/:kind/recover", ctrl.Recover)

	return router
}
