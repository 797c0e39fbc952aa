// Package http provides HTTP transport for the dashboard views
package http

import (
	stdhttp "net/http"

	"opendash/internal/modkit/httpkit"
	"opendash/internal/platform/net/middleware"
	"opendash/internal/services/api/dashboard/domain"
)

// Register mounts the dashboard endpoints, purge sits behind the admin role
func Register(r httpkit.Router, s domain.ServicePort, admin middleware.AuthPort) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/overview", h.overview)
	httpkit.Get(r, "/categories", h.categories)
	httpkit.GetQuery[domain.TrendsInput](r, "/trends", h.trends)
	httpkit.Get(r, "/trends/download-records", h.downloadRecords)
	httpkit.GetQuery[domain.RankingsInput](r, "/rankings", h.rankings)
	httpkit.GetQuery[domain.DatasetsInput](r, "/datasets", h.datasets)
	httpkit.Get(r, "/snapshot", h.snapshot)

	httpkit.AdminOnly(r, admin, func(ar httpkit.Router) {
		httpkit.Post(ar, "/cache/purge", h.purge)
	})
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /dashboard/overview Dashboard dashboardOverview
// @Summary Headline totals and refresh status summaries
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.OverviewResp "ok"
// @Router /dashboard/overview [get]
func (h *handlers) overview(r *stdhttp.Request) (any, error) {
	return h.svc.Overview(r.Context())
}

// swagger:route GET /dashboard/categories Dashboard dashboardCategories
// @Summary Datasets per category with the chart subset
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.CategoriesResp "ok"
// @Router /dashboard/categories [get]
func (h *handlers) categories(r *stdhttp.Request) (any, error) {
	return h.svc.Categories(r.Context())
}

// swagger:route GET /dashboard/trends Dashboard dashboardTrends
// @Summary Yearly downloads and api calls, or one year by month
// @Tags Dashboard
// @Produce json
// @Param year query int false "drill into this year (2020-2024)"
// @Success 200 {object} domain.TrendsResp "ok"
// @Router /dashboard/trends [get]
func (h *handlers) trends(r *stdhttp.Request, in domain.TrendsInput) (any, error) {
	return h.svc.Trends(r.Context(), in)
}

// swagger:route GET /dashboard/trends/download-records Dashboard dashboardDownloadRecords
// @Summary Download log rows per year
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DownloadRecordsResp "ok"
// @Router /dashboard/trends/download-records [get]
func (h *handlers) downloadRecords(r *stdhttp.Request) (any, error) {
	return h.svc.DownloadRecords(r.Context())
}

// swagger:route GET /dashboard/rankings Dashboard dashboardRankings
// @Summary Top datasets by api calls or downloads
// @Tags Dashboard
// @Produce json
// @Param kind query string false "api or file" Enums(api, file)
// @Success 200 {object} domain.RankingsResp "ok"
// @Router /dashboard/rankings [get]
func (h *handlers) rankings(r *stdhttp.Request, in domain.RankingsInput) (any, error) {
	return h.svc.Rankings(r.Context(), in)
}

// swagger:route GET /dashboard/datasets Dashboard dashboardDatasets
// @Summary Recently modified datasets with category filter and search
// @Tags Dashboard
// @Produce json
// @Param category query string false "category, All or 전체 for every category"
// @Param q query string false "search over name and department"
// @Success 200 {object} domain.DatasetsResp "ok"
// @Router /dashboard/datasets [get]
func (h *handlers) datasets(r *stdhttp.Request, in domain.DatasetsInput) (any, error) {
	return h.svc.Datasets(r.Context(), in)
}

// swagger:route GET /dashboard/snapshot Dashboard dashboardSnapshot
// @Summary Export data bundle
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.SnapshotResp "ok"
// @Router /dashboard/snapshot [get]
func (h *handlers) snapshot(r *stdhttp.Request) (any, error) {
	return h.svc.Snapshot(r.Context())
}

// swagger:route POST /dashboard/cache/purge Dashboard dashboardPurge
// @Summary Drop every cached snapshot
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.PurgeResp "ok"
// @Failure 401 {object} phttp.Envelope "missing token"
// @Failure 403 {object} phttp.Envelope "not an admin"
// @Router /dashboard/cache/purge [post]
func (h *handlers) purge(r *stdhttp.Request) (any, error) {
	return h.svc.Purge(r.Context()), nil
}
