package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"tabiji/cmd/fx/catalog_fx"
	"tabiji/cmd/fx/config_fx"
	"tabiji/cmd/fx/db_fx"
	"tabiji/cmd/fx/planner_fx"
	"tabiji/cmd/fx/pois_fx"
	"tabiji/cmd/fx/retrieval_fx"
	"tabiji/internal/api/controllers"
	"tabiji/internal/catalog"
	"tabiji/internal/config"
	"tabiji/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		retrieval_fx.Module,
		catalog_fx.Module,
		pois_fx.Module,
		planner_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("Starting HTTP server on :%s", cfg.Server.Port)
				if err := engine.Run(":" + cfg.Server.Port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	planController *controllers.PlanController,
	poisController *controllers.POIsController,
	catalogController *controllers.CatalogController,
	index *catalog.Index) *gin.Engine {

	r := gin.Default()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, planController, poisController, catalogController, index)

	return r
}

func RegisterRoutes(r *gin.Engine,
	planController *controllers.PlanController,
	poisController *controllers.POIsController,
	catalogController *controllers.CatalogController,
	index *catalog.Index) {

	r.GET("/healthz", func(c *gin.Context) {
		snap, ok := index.Current()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "catalog not loaded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"pois":       snap.Len(),
			"catalog_at": snap.BuiltAt(),
		})
	})

	r.POST("/plan", planController.CreatePlanHandler)

	poisGroup := r.Group("/pois")
	poisGroup.GET("", poisController.ListPois)
	poisGroup.GET("/:id", poisController.GetPoiById)

	catalogGroup := r.Group("/catalog")
	catalogGroup.Use(middleware.AdminAuthMiddleware())
	catalogGroup.POST("/refresh", catalogController.RefreshHandler)
	catalogGroup.POST("/pois", catalogController.UpsertPoiHandler)
	catalogGroup.DELETE("/pois/:id", catalogController.DeletePoiHandler)
}
