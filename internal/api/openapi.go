package api

import "net/http"

// handleOpenAPI serves a static description of the HTTP surface. The
// document is rebuilt per request; it is cheap and stays in sync with
// the configured version.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.buildOpenAPIDoc())
}

func jsonBody(description string, schema map[string]any) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{"schema": schema},
		},
	}
}

func schemaRef(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func (s *Server) buildOpenAPIDoc() map[string]any {
	version := s.config.Version
	if version == "" {
		version = "dev"
	}

	errorResponse := jsonBody("Error", schemaRef("Error"))

	return map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":       "glossa API",
			"description": "Multilingual semantic DSL compilation service.",
			"version":     version,
		},
		"paths": map[string]any{
			"/healthz": map[string]any{
				"get": map[string]any{
					"summary":  "Liveness and engine shape",
					"security": []any{},
					"responses": map[string]any{
						"200": jsonBody("Service is up", schemaRef("Healthz")),
					},
				},
			},
			"/openapi.json": map[string]any{
				"get": map[string]any{
					"summary":  "This document",
					"security": []any{},
					"responses": map[string]any{
						"200": jsonBody("OpenAPI description", map[string]any{"type": "object"}),
					},
				},
			},
			"/v1/compile": map[string]any{
				"post": map[string]any{
					"summary":     "Compile natural, explicit, or JSON input to code",
					"requestBody": jsonBody("Compilation job", schemaRef("CompileRequest")),
					"responses": map[string]any{
						"200": jsonBody("Compilation result; defects land in diagnostics with ok=false",
							schemaRef("CompileResult")),
						"400": errorResponse,
					},
				},
			},
			"/v1/parse": map[string]any{
				"post": map[string]any{
					"summary":     "Parse one natural-language command",
					"requestBody": jsonBody("Text and source language", schemaRef("ParseRequest")),
					"responses": map[string]any{
						"200": jsonBody("Parse outcome", schemaRef("ParseResponse")),
						"400": errorResponse,
					},
				},
			},
			"/v1/translate": map[string]any{
				"post": map[string]any{
					"summary":     "Re-phrase a command in another language",
					"requestBody": jsonBody("Source text and language pair", schemaRef("TranslateRequest")),
					"responses": map[string]any{
						"200": jsonBody("Rendered output", schemaRef("TranslateResponse")),
						"400": errorResponse,
						"422": jsonBody("Parse rejected or confidence below threshold",
							schemaRef("TranslateResponse")),
					},
				},
			},
			"/v1/validate": map[string]any{
				"post": map[string]any{
					"summary":     "Check explicit or JSON input without generating code",
					"requestBody": jsonBody("Input to check", schemaRef("ValidateRequest")),
					"responses": map[string]any{
						"200": jsonBody("All defects found", schemaRef("ValidateResponse")),
						"400": errorResponse,
					},
				},
			},
			"/v1/languages": map[string]any{
				"get": map[string]any{
					"summary": "Registered language codes",
					"responses": map[string]any{
						"200": jsonBody("Language codes, sorted", schemaRef("Languages")),
					},
				},
			},
			"/v1/actions": map[string]any{
				"get": map[string]any{
					"summary": "Canonical actions",
					"responses": map[string]any{
						"200": jsonBody("Action names, sorted", schemaRef("Actions")),
					},
				},
			},
			"/v1/cache": map[string]any{
				"get": map[string]any{
					"summary": "Result cache counters",
					"responses": map[string]any{
						"200": jsonBody("Cache statistics", schemaRef("CacheStats")),
					},
				},
				"delete": map[string]any{
					"summary": "Drop all cached compile results",
					"responses": map[string]any{
						"200": jsonBody("Acknowledgement", map[string]any{
							"type":       "object",
							"properties": map[string]any{"status": map[string]any{"type": "string"}},
						}),
					},
				},
			},
			"/v1/history": map[string]any{
				"get": map[string]any{
					"summary": "Recent compilations, newest first",
					"parameters": []any{
						map[string]any{
							"name":   "limit",
							"in":     "query",
							"schema": map[string]any{"type": "integer", "minimum": 0},
						},
					},
					"responses": map[string]any{
						"200": jsonBody("Records", schemaRef("HistoryList")),
						"404": errorResponse,
					},
				},
			},
			"/v1/history/{id}": map[string]any{
				"get": map[string]any{
					"summary": "One compilation by id or unique id prefix",
					"parameters": []any{
						map[string]any{
							"name":     "id",
							"in":       "path",
							"required": true,
							"schema":   map[string]any{"type": "string"},
						},
					},
					"responses": map[string]any{
						"200": jsonBody("Record", schemaRef("HistoryEntry")),
						"400": errorResponse,
						"404": errorResponse,
					},
				},
			},
			"/events": map[string]any{
				"get": map[string]any{
					"summary":     "Server-sent event stream",
					"description": "Replays buffered events after Last-Event-ID, then streams live.",
					"responses": map[string]any{
						"200": map[string]any{
							"description": "SSE stream",
							"content": map[string]any{
								"text/event-stream": map[string]any{
									"schema": map[string]any{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
		"components": map[string]any{
			"securitySchemes": map[string]any{
				"BearerAuth": map[string]any{
					"type":   "http",
					"scheme": "bearer",
				},
			},
			"schemas": map[string]any{
				"Error": map[string]any{
					"type":       "object",
					"properties": map[string]any{"error": map[string]any{"type": "string"}},
				},
				"Healthz": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"status":         map[string]any{"type": "string"},
						"version":        map[string]any{"type": "string"},
						"domain":         map[string]any{"type": "string"},
						"uptime_seconds": map[string]any{"type": "integer"},
						"languages":      map[string]any{"type": "integer"},
						"actions":        map[string]any{"type": "integer"},
						"cache":          schemaRef("CacheStats"),
						"history":        map[string]any{"type": "boolean"},
					},
				},
				"CompileRequest": map[string]any{
					"type":     "object",
					"required": []any{"input"},
					"properties": map[string]any{
						"input":    map[string]any{"type": "string"},
						"format":   map[string]any{"type": "string", "enum": []any{"", "natural", "explicit", "json"}},
						"language": map[string]any{"type": "string"},
						"options":  map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "string"}},
					},
				},
				"CompileResult": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"ok":          map[string]any{"type": "boolean"},
						"code":        map[string]any{"type": "string"},
						"semantic":    schemaRef("SemanticObject"),
						"confidence":  map[string]any{"type": "number"},
						"diagnostics": map[string]any{"type": "array", "items": schemaRef("Diagnostic")},
						"fingerprint": map[string]any{"type": "string"},
						"format":      map[string]any{"type": "string"},
						"cached":      map[string]any{"type": "boolean"},
					},
				},
				"ParseRequest": map[string]any{
					"type":     "object",
					"required": []any{"input"},
					"properties": map[string]any{
						"input":    map[string]any{"type": "string"},
						"language": map[string]any{"type": "string"},
					},
				},
				"ParseResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"ok":          map[string]any{"type": "boolean"},
						"language":    map[string]any{"type": "string"},
						"action":      map[string]any{"type": "string"},
						"confidence":  map[string]any{"type": "number"},
						"semantic":    schemaRef("SemanticObject"),
						"diagnostics": map[string]any{"type": "array", "items": schemaRef("Diagnostic")},
					},
				},
				"TranslateRequest": map[string]any{
					"type":     "object",
					"required": []any{"input", "to"},
					"properties": map[string]any{
						"input":          map[string]any{"type": "string"},
						"from":           map[string]any{"type": "string"},
						"to":             map[string]any{"type": "string"},
						"min_confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
					},
				},
				"TranslateResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"ok":          map[string]any{"type": "boolean"},
						"output":      map[string]any{"type": "string"},
						"action":      map[string]any{"type": "string"},
						"confidence":  map[string]any{"type": "number"},
						"threshold":   map[string]any{"type": "number"},
						"diagnostics": map[string]any{"type": "array", "items": schemaRef("Diagnostic")},
					},
				},
				"ValidateRequest": map[string]any{
					"type":     "object",
					"required": []any{"input"},
					"properties": map[string]any{
						"input": map[string]any{"type": "string"},
					},
				},
				"ValidateResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"ok":          map[string]any{"type": "boolean"},
						"diagnostics": map[string]any{"type": "array", "items": schemaRef("Diagnostic")},
					},
				},
				"Languages": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"default":   map[string]any{"type": "string"},
						"languages": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
				},
				"Actions": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"actions": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
				},
				"CacheStats": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"size":      map[string]any{"type": "integer"},
						"hits":      map[string]any{"type": "integer"},
						"misses":    map[string]any{"type": "integer"},
						"evictions": map[string]any{"type": "integer"},
					},
				},
				"HistoryEntry": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":          map[string]any{"type": "string"},
						"created_at":  map[string]any{"type": "string", "format": "date-time"},
						"language":    map[string]any{"type": "string"},
						"format":      map[string]any{"type": "string"},
						"input":       map[string]any{"type": "string"},
						"action":      map[string]any{"type": "string"},
						"ok":          map[string]any{"type": "boolean"},
						"confidence":  map[string]any{"type": "number"},
						"cache_hit":   map[string]any{"type": "boolean"},
						"duration_ms": map[string]any{"type": "integer"},
						"code":        map[string]any{"type": "string"},
						"diagnostics": map[string]any{"type": "array", "items": schemaRef("Diagnostic")},
						"fingerprint": map[string]any{"type": "string"},
					},
				},
				"HistoryList": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"entries": map[string]any{"type": "array", "items": schemaRef("HistoryEntry")},
					},
				},
				"SemanticObject": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"action":  map[string]any{"type": "string"},
						"roles":   map[string]any{"type": "object"},
						"trigger": map[string]any{"type": "object"},
					},
				},
				"Diagnostic": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"code":     map[string]any{"type": "string"},
						"severity": map[string]any{"type": "string", "enum": []any{"error", "warning"}},
						"message":  map[string]any{"type": "string"},
					},
				},
			},
		},
		"security": []any{
			map[string]any{"BearerAuth": []any{}},
		},
	}
}
