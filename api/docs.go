// Package api contains the OpenAPI documentation of the document server.
//
// The paths are generated from the annotations on the handlers with swag.
package api

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
        "/": {
            "get": {
                "description": "Entrypoint for the API, listing all endpoints",
                "tags": ["General"],
                "summary": "API root",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/router.RootResponse"}}
                }
            },
            "options": {
                "description": "Returns an empty response with the HTTP Header \"allow\" set to the allowed HTTP verbs",
                "tags": ["General"],
                "summary": "Allowed HTTP verbs",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/healthz": {
            "get": {
                "description": "Returns the application health and, if not healthy, an error",
                "produces": ["application/json"],
                "tags": ["General"],
                "summary": "Get health",
                "responses": {
                    "204": {"description": "No Content"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            },
            "options": {
                "description": "Returns an empty response with the HTTP Header \"allow\" set to the allowed HTTP verbs",
                "tags": ["General"],
                "summary": "Allowed HTTP verbs",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/version": {
            "get": {
                "description": "Returns the release of the server and the format version of the ledger documents it stores",
                "tags": ["General"],
                "summary": "Versions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/version.Response"}}
                }
            },
            "options": {
                "description": "Returns an empty response with the HTTP Header \"allow\" set to the allowed HTTP verbs",
                "tags": ["General"],
                "summary": "Allowed HTTP verbs",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1": {
            "get": {
                "description": "Returns general information about the v1 API",
                "tags": ["v1"],
                "summary": "v1 API",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/v1.Response"}}
                }
            },
            "options": {
                "description": "Returns an empty response with the HTTP Header \"allow\" set to the allowed HTTP verbs",
                "tags": ["v1"],
                "summary": "Allowed HTTP verbs",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/ledgers/{identity}": {
            "get": {
                "description": "Returns the stored ledger snapshot of the identity",
                "produces": ["application/json"],
                "tags": ["Ledgers"],
                "summary": "Get ledger",
                "parameters": [
                    {"type": "string", "description": "Identity of the ledger owner", "name": "identity", "in": "path", "required": true},
                    {"type": "string", "description": "Identity of the caller", "name": "X-Budget-Identity", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/v1.LedgerResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            },
            "put": {
                "description": "Replaces every top-level key present in the body. Keys missing from the body keep their stored value. The document is created if it does not exist.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ledgers"],
                "summary": "Update ledger",
                "parameters": [
                    {"type": "string", "description": "Identity of the ledger owner", "name": "identity", "in": "path", "required": true},
                    {"type": "string", "description": "Identity of the caller", "name": "X-Budget-Identity", "in": "header", "required": true},
                    {"description": "Snapshot keys to write", "name": "snapshot", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ledger.Snapshot"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/v1.LedgerResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/v1.LedgerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            },
            "delete": {
                "description": "Deletes the stored ledger document of the identity",
                "tags": ["Ledgers"],
                "summary": "Delete ledger",
                "parameters": [
                    {"type": "string", "description": "Identity of the ledger owner", "name": "identity", "in": "path", "required": true},
                    {"type": "string", "description": "Identity of the caller", "name": "X-Budget-Identity", "in": "header", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            },
            "options": {
                "description": "Returns an empty response with the HTTP Header \"allow\" set to the allowed HTTP verbs",
                "tags": ["Ledgers"],
                "summary": "Allowed HTTP verbs",
                "parameters": [
                    {"type": "string", "description": "Identity of the ledger owner", "name": "identity", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/ledgers/{identity}/events": {
            "get": {
                "description": "Opens a Server-Sent Events stream. Every time a key of the collection is written, a \"snapshot\" event carrying the full snapshot is sent. Clients that fall behind only receive the newest snapshot.",
                "produces": ["text/event-stream"],
                "tags": ["Ledgers"],
                "summary": "Stream ledger changes",
                "parameters": [
                    {"type": "string", "description": "Identity of the ledger owner", "name": "identity", "in": "path", "required": true},
                    {"type": "string", "description": "Identity of the caller", "name": "X-Budget-Identity", "in": "header", "required": true},
                    {"enum": ["transactions", "accounts"], "type": "string", "description": "Collection to watch", "name": "collection", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            },
            "options": {
                "description": "Returns an empty response with the HTTP Header \"allow\" set to the allowed HTTP verbs",
                "tags": ["Ledgers"],
                "summary": "Allowed HTTP verbs",
                "parameters": [
                    {"type": "string", "description": "Identity of the ledger owner", "name": "identity", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        }
    },
    "definitions": {
        "httputil.HTTPError": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "there is no document matching your query"}
            }
        },
        "ledger.Account": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "purpose": {"type": "string", "example": "Checking"},
                "balance": {"type": "number"},
                "currency": {"type": "string", "example": "USD"},
                "bank": {"type": "string"},
                "accountNumber": {"type": "string"},
                "notes": {"type": "string"},
                "createdDate": {"type": "string"},
                "lastUpdated": {"type": "string"}
            }
        },
        "ledger.Loan": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string", "example": "given"},
                "amount": {"type": "number"},
                "contactName": {"type": "string"},
                "category": {"type": "string"},
                "reason": {"type": "string"},
                "description": {"type": "string"},
                "notes": {"type": "string"},
                "status": {"type": "string", "example": "active"},
                "date": {"type": "string", "example": "2024-06-05"},
                "account": {"type": "string", "example": "wallet"},
                "createdAt": {"type": "string"},
                "completedDate": {"type": "string"}
            }
        },
        "ledger.Saving": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "goal": {"type": "string"},
                "category": {"type": "string"},
                "amount": {"type": "number"},
                "description": {"type": "string"},
                "account": {"type": "string", "example": "wallet"},
                "date": {"type": "string", "example": "2024-06-05"},
                "notes": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "ledger.Snapshot": {
            "type": "object",
            "properties": {
                "income": {"type": "array", "items": {"$ref": "#/definitions/ledger.Transaction"}},
                "expenses": {"type": "array", "items": {"$ref": "#/definitions/ledger.Transaction"}},
                "bankAccounts": {"type": "array", "items": {"$ref": "#/definitions/ledger.Account"}},
                "wallet": {"$ref": "#/definitions/ledger.Wallet"},
                "loans": {"type": "array", "items": {"$ref": "#/definitions/ledger.Loan"}},
                "savings": {"type": "array", "items": {"$ref": "#/definitions/ledger.Saving"}}
            }
        },
        "ledger.Transaction": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "amount": {"type": "number"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string", "example": "2024-06-05"},
                "account": {"type": "string", "example": "wallet"},
                "createdAt": {"type": "string"},
                "transferTo": {"type": "string"},
                "type": {"type": "string", "example": "transfer"}
            }
        },
        "ledger.Wallet": {
            "type": "object",
            "properties": {
                "balance": {"type": "number"}
            }
        },
        "remote.Document": {
            "type": "object",
            "properties": {
                "snapshot": {"$ref": "#/definitions/ledger.Snapshot"},
                "version": {"type": "string", "example": "1.0"},
                "updatedAt": {"type": "string", "example": "2024-06-05T12:00:00Z"}
            }
        },
        "router.RootLinks": {
            "type": "object",
            "properties": {
                "docs": {"description": "Swagger API documentation", "type": "string", "example": "https://example.com/api/docs/index.html"},
                "healthz": {"description": "Health of the backend", "type": "string", "example": "https://example.com/api/healthz"},
                "metrics": {"description": "Prometheus metrics", "type": "string", "example": "https://example.com/api/metrics"},
                "version": {"description": "Endpoint returning the version of the backend", "type": "string", "example": "https://example.com/api/version"},
                "v1": {"description": "List endpoint for all v1 endpoints", "type": "string", "example": "https://example.com/api/v1"}
            }
        },
        "router.RootResponse": {
            "type": "object",
            "properties": {
                "links": {"$ref": "#/definitions/router.RootLinks"}
            }
        },
        "v1.LedgerResponse": {
            "type": "object",
            "properties": {
                "data": {"description": "Data for the ledger document", "$ref": "#/definitions/remote.Document"}
            }
        },
        "v1.Links": {
            "type": "object",
            "properties": {
                "ledgers": {"type": "string", "example": "https://example.com/api/v1/ledgers/{identity}"},
                "events": {"type": "string", "example": "https://example.com/api/v1/ledgers/{identity}/events?collection={collection}"}
            }
        },
        "v1.Response": {
            "type": "object",
            "properties": {
                "links": {"$ref": "#/definitions/v1.Links"}
            }
        },
        "version.Object": {
            "type": "object",
            "properties": {
                "version": {"description": "Release of the server", "type": "string", "example": "1.1.0"},
                "document": {"description": "Format version of stored ledger documents", "type": "string", "example": "1.0"},
                "go": {"description": "Go release the server was built with", "type": "string", "example": "go1.25.0"}
            }
        },
        "version.Response": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/version.Object"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "BudgetMaster",
	Description:      "The document server for BudgetMaster. It keeps one ledger snapshot per identity and streams changes to connected clients.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
