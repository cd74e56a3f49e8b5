//go:build swagger
// +build swagger

// Documentation generation only — not runtime code. Kept out of the
// normal server build by the swagger tag; swag scans this file (and
// interfaces/http/rest/handlers/operations_docs.go) to produce the OpenAPI
// spec, grounded on the teacher's docs/swagger/main.go.
package main

// @title Semem Memory Engine API
// @version 1.0
// @description Tell/Ask/Augment/Navigate/Iterate operations over a SPARQL-backed semantic memory store with zoom-pan-tilt navigation.

// @contact.name Semem Engine Maintainers

// @license.name MIT

// @host localhost:8080
// @BasePath /api/v1

// @schemes http
