//go:build swag

package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "tags": [
    {"name": "Dashboard", "description": "Registry and telemetry read models"},
    {"name": "Catalog", "description": "Public data portal listing proxy"},
    {"name": "Chat", "description": "Question answering over the dashboard tables"},
    {"name": "Meta", "description": "Probes and build info"}
  ],
  "components": {
    "securitySchemes": {
      "BearerAuth": {"type": "http", "scheme": "bearer"}
    }
  },
  "paths": {
    "/dashboard/overview": {"get": {"tags": ["Dashboard"], "summary": "Headline totals and refresh status summaries", "responses": {"200": {"description": "ok"}}}},
    "/dashboard/categories": {"get": {"tags": ["Dashboard"], "summary": "Datasets per category with the chart subset", "responses": {"200": {"description": "ok"}}}},
    "/dashboard/trends": {"get": {"tags": ["Dashboard"], "summary": "Yearly downloads and api calls, or one year by month",
      "parameters": [{"name": "year", "in": "query", "schema": {"type": "integer", "minimum": 2020, "maximum": 2024}}],
      "responses": {"200": {"description": "ok"}}}},
    "/dashboard/trends/download-records": {"get": {"tags": ["Dashboard"], "summary": "Download log rows per year", "responses": {"200": {"description": "ok"}}}},
    "/dashboard/rankings": {"get": {"tags": ["Dashboard"], "summary": "Top datasets by api calls or downloads",
      "parameters": [{"name": "kind", "in": "query", "schema": {"type": "string", "enum": ["api", "file"]}}],
      "responses": {"200": {"description": "ok"}}}},
    "/dashboard/datasets": {"get": {"tags": ["Dashboard"], "summary": "Recently modified datasets with category filter and search",
      "parameters": [
        {"name": "category", "in": "query", "schema": {"type": "string"}},
        {"name": "q", "in": "query", "schema": {"type": "string"}}
      ],
      "responses": {"200": {"description": "ok"}}}},
    "/dashboard/snapshot": {"get": {"tags": ["Dashboard"], "summary": "Export data bundle", "responses": {"200": {"description": "ok"}}}},
    "/dashboard/cache/purge": {"post": {"tags": ["Dashboard"], "summary": "Drop every cached snapshot", "security": [{"BearerAuth": []}],
      "responses": {"200": {"description": "ok"}, "401": {"description": "missing token"}, "403": {"description": "not an admin"}}}},
    "/catalog/datasets": {"get": {"tags": ["Catalog"], "summary": "Public data portal dataset listing, fallback when unreachable",
      "parameters": [
        {"name": "page", "in": "query", "schema": {"type": "integer", "minimum": 1}},
        {"name": "perPage", "in": "query", "schema": {"type": "integer", "minimum": 1, "maximum": 1000}}
      ],
      "responses": {"200": {"description": "ok"}}}},
    "/chat": {"post": {"tags": ["Chat"], "summary": "Ask a question about the ministry's open data",
      "requestBody": {"required": true, "content": {"application/json": {"schema": {"type": "object",
        "properties": {"message": {"type": "string"}, "session_id": {"type": "string"}}, "required": ["message"]}}}},
      "responses": {"200": {"description": "answer", "content": {"application/json": {"schema": {"type": "object",
        "properties": {"answer": {"type": "string"}, "session_id": {"type": "string"}}}}}}}}},
    "/meta/health": {"get": {"tags": ["Meta"], "summary": "Liveness", "responses": {"200": {"description": "ok"}}}},
    "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness with store checks", "responses": {"200": {"description": "ready"}, "503": {"description": "a store is down"}}}},
    "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}},
    "/meta/service": {"get": {"tags": ["Meta"], "summary": "Service info and uptime", "responses": {"200": {"description": "ok"}}}},
    "/meta/cache": {"get": {"tags": ["Meta"], "summary": "Dashboard snapshot cache size and freshness", "responses": {"200": {"description": "ok"}}}}
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/v1",
	Title:            "opendash API",
	Description:      "Open data portal dashboard: registry and telemetry read models, catalog proxy and chat.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
