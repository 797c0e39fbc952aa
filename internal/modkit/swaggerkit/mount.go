// Package swaggerkit serves the OpenAPI document and the swagger ui
package swaggerkit

import (
	"net/http"

	phttp "opendash/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount wires /api/docs when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON())
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
