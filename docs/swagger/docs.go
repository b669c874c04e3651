// Package swagger holds the OpenAPI description served at /swagger.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/listings/sync": {
            "post": {
                "description": "Reconciles the CRM with the site. A pass already running is joined instead of starting a second one.",
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Run Sync Pass",
                "parameters": [
                    {"type": "boolean", "description": "Decide every record without writing", "name": "dry_run", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Finished run", "schema": {"$ref": "#/definitions/models.SyncRun"}},
                    "500": {"description": "Failed run", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/listings/runs": {
            "get": {
                "description": "Returns the most recent sync runs, newest first.",
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "List Sync Runs",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of runs", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Runs", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.SyncRun"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/listings/runs/{id}": {
            "get": {
                "description": "Returns one run. Recent runs include the per-record outcomes.",
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Get Sync Run",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Run", "schema": {"$ref": "#/definitions/models.SyncRun"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/listings/audit": {
            "get": {
                "description": "Reports which CRM records would be linked to which unlinked site records.",
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Audit Matching",
                "responses": {
                    "200": {"description": "Audit Report", "schema": {"$ref": "#/definitions/reconcile.AuditReport"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/listings/schema": {
            "get": {
                "description": "Lists columns missing from the snapshot and run history tables.",
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Check Sync Tables",
                "responses": {
                    "200": {"description": "Schema Report", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "models.SyncRun": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "trigger": {"type": "string"},
                "started_at": {"type": "string"},
                "finished_at": {"type": "string"},
                "dry_run": {"type": "boolean"},
                "aborted": {"type": "boolean"},
                "snapshot_saved": {"type": "boolean"},
                "source_count": {"type": "integer"},
                "attention": {"type": "integer"},
                "created": {"type": "integer"},
                "updated": {"type": "integer"},
                "retired": {"type": "integer"},
                "failed": {"type": "integer"},
                "ambiguous": {"type": "integer"},
                "error": {"type": "string"},
                "report": {"type": "object"}
            }
        },
        "reconcile.AuditMatch": {
            "type": "object",
            "properties": {
                "source_id": {"type": "string"},
                "published_id": {"type": "integer"},
                "candidate_ids": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "reconcile.AuditReport": {
            "type": "object",
            "properties": {
                "source_count": {"type": "integer"},
                "published_count": {"type": "integer"},
                "linked": {"type": "integer"},
                "matched": {"type": "array", "items": {"$ref": "#/definitions/reconcile.AuditMatch"}},
                "ambiguous": {"type": "array", "items": {"$ref": "#/definitions/reconcile.AuditMatch"}},
                "unmatched": {"type": "array", "items": {"type": "string"}},
                "title_only": {"type": "array", "items": {"type": "integer"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Listing Sync API",
	Description:      "Keeps the property listings of a WordPress site in line with the Eagle CRM.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
