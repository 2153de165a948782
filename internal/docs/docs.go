// Package docs serves the machine-readable API description.
package docs

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.json
var openapiJSON []byte

// Handler serves the embedded OpenAPI 3.0 document.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(openapiJSON)
}
