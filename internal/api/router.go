package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "service-order-pipeline/internal/api/docs"
	"service-order-pipeline/internal/api/handler"
	"service-order-pipeline/pkg/router"
)

// @title Service Order Ingestion API
// @version 1.0
// @BasePath /api/v1

func RegisterRoutes(r *router.Router, uploads *handler.UploadHandler, metrics http.Handler) {
	r.POST("/api/v1/uploads", uploads.CreateUpload)
	r.GET("/api/v1/uploads", uploads.ListUploads)
	r.GET("/api/v1/uploads/*", uploads.GetUpload)

	r.GET("/health", handler.Health)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}
	r.GET("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")).ServeHTTP)
}
