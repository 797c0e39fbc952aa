//go:build swag

package swaggerkit

import docs "opendash/internal/services/api/docs"

var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }
