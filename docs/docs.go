// Package docs embeds the OpenAPI description served at /docs.
package docs

import _ "embed"

//go:embed swagger.yaml
var Swagger []byte
