// Package http provides HTTP transport for the catalog proxy
package http

import (
	stdhttp "net/http"

	"opendash/internal/modkit/httpkit"
	"opendash/internal/services/api/catalog/domain"
)

// Register mounts the catalog endpoints
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.GetQuery[domain.ListInput](r, "/datasets", h.list)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /catalog/datasets Catalog catalogDatasets
// @Summary Public data portal dataset listing
// @Description Falls back to a fixed listing when the portal is unreachable, fallback is true then
// @Tags Catalog
// @Produce json
// @Param page query int false "page, from 1"
// @Param perPage query int false "page size, up to 1000"
// @Success 200 {object} domain.ListResp "ok"
// @Router /catalog/datasets [get]
func (h *handlers) list(r *stdhttp.Request, in domain.ListInput) (any, error) {
	return h.svc.List(r.Context(), in)
}
