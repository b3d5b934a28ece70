package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/savia-platform/savia-ledger/src/api/config"
	"github.com/savia-platform/savia-ledger/src/shared/ledger"
)

func attachRoutes(r *gin.Engine, cfg config.Config, eng *ledger.Engine, rdb *redis.Client) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://app.savia.org"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	authH := NewAuth(rdb, []byte(cfg.JWTSecret))
	platformH := NewPlatform(eng)
	campaignH := NewCampaigns(eng)
	donationH := NewDonations(eng)
	trustH := NewTrust(eng)
	disbursementH := NewDisbursements(eng)
	nftH := NewNFTs(eng)

	limiter := NewRateLimiter(120, time.Minute)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/challenge", authH.Challenge)
		v1.POST("/auth/verify", authH.Verify)

		// Badges are public: wallets and marketplaces resolve them without
		// a platform session.
		v1.GET("/nfts/:id", nftH.Get)
		v1.GET("/nfts/:id/metadata", nftH.Metadata)
		v1.GET("/nfts/:id/badge.png", nftH.Badge)

		secured := v1.Group("")
		secured.Use(JWTMiddleware([]byte(cfg.JWTSecret)), RateLimitMiddleware(limiter))
		{
			secured.POST("/platform/initialize", platformH.Initialize)
			secured.GET("/stats", platformH.Stats)

			secured.POST("/campaigns", campaignH.Create)
			secured.GET("/campaigns/:id", campaignH.Get)
			secured.GET("/campaigns/:id/donations", campaignH.Donations)
			secured.POST("/campaigns/:id/verify", campaignH.Verify)
			secured.POST("/campaigns/:id/close", campaignH.Close)
			secured.GET("/beneficiaries/:address/campaigns", campaignH.ByBeneficiary)

			secured.POST("/donations", donationH.Create)
			secured.GET("/donations/:id", donationH.Get)

			secured.POST("/trust", trustH.Create)
			secured.GET("/trust/:address", trustH.Get)

			secured.POST("/disbursements", disbursementH.Create)
			secured.GET("/disbursements/:id", disbursementH.Get)
			secured.POST("/disbursements/:id/approve", disbursementH.Approve)
			secured.POST("/disbursements/:id/reject", disbursementH.Reject)
			secured.POST("/disbursements/:id/execute", disbursementH.Execute)
		}
	}
}
