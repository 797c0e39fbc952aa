// Package docs registers the OpenAPI document with swag, built only with -tags swag
package docs
