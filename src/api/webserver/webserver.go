package webserver

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/savia-platform/savia-ledger/src/api/config"
	"github.com/savia-platform/savia-ledger/src/shared/ledger"
)

func New(cfg config.Config, eng *ledger.Engine, rdb *redis.Client) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, eng, rdb)
	return g
}
