// Package docs holds the OpenAPI document served at /swagger/.
// Regenerate with `swag init -g cmd/backend/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/links": {
            "get": {
                "description": "Every link, newest first",
                "produces": ["application/json"],
                "tags": ["Links"],
                "summary": "List links",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/domain.Link"}
                        }
                    },
                    "503": {
                        "description": "Store unavailable",
                        "schema": {"$ref": "#/definitions/http.ErrorResponse"}
                    }
                }
            },
            "post": {
                "description": "Create a link for target. When code is omitted a random 6-character code is generated.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Links"],
                "summary": "Create a short link",
                "parameters": [
                    {
                        "description": "Link creation request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.CreateLinkRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Link created successfully",
                        "schema": {"$ref": "#/definitions/http.CreateLinkResponse"}
                    },
                    "400": {
                        "description": "Invalid target or code",
                        "schema": {"$ref": "#/definitions/http.ErrorResponse"}
                    },
                    "409": {
                        "description": "Code already exists",
                        "schema": {"$ref": "#/definitions/http.ErrorResponse"}
                    },
                    "503": {
                        "description": "Store unavailable",
                        "schema": {"$ref": "#/definitions/http.ErrorResponse"}
                    }
                }
            }
        },
        "/api/links/{code}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Links"],
                "summary": "Get a link",
                "parameters": [
                    {"type": "string", "description": "Link code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/domain.Link"}
                    },
                    "404": {
                        "description": "Link not found",
                        "schema": {"$ref": "#/definitions/http.ErrorResponse"}
                    }
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Links"],
                "summary": "Delete a link",
                "parameters": [
                    {"type": "string", "description": "Link code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/http.DeleteLinkResponse"}
                    },
                    "404": {
                        "description": "Link not found",
                        "schema": {"$ref": "#/definitions/http.ErrorResponse"}
                    }
                }
            }
        },
        "/api/links/{code}/click": {
            "post": {
                "description": "Count a click for clients that resolve the target themselves",
                "produces": ["application/json"],
                "tags": ["Links"],
                "summary": "Record a click",
                "parameters": [
                    {"type": "string", "description": "Link code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/domain.Link"}
                    },
                    "404": {
                        "description": "Link not found",
                        "schema": {"$ref": "#/definitions/http.ErrorResponse"}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/http.HealthResponse"}
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/http.ReadyResponse"}
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {"$ref": "#/definitions/http.ReadyResponse"}
                    }
                }
            }
        },
        "/{code}": {
            "get": {
                "tags": ["Redirect"],
                "summary": "Follow a short link",
                "parameters": [
                    {"type": "string", "description": "Link code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "302": {"description": "Redirect to the target URL"},
                    "404": {"description": "Unknown code"}
                }
            }
        }
    },
    "definitions": {
        "domain.Link": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "code": {"type": "string"},
                "target": {"type": "string"},
                "clicks": {"type": "integer"},
                "created_at": {"type": "string"},
                "last_clicked_at": {"type": "string"}
            }
        },
        "http.CreateLinkRequest": {
            "type": "object",
            "properties": {
                "target": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "http.CreateLinkResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "code": {"type": "string"},
                "target": {"type": "string"},
                "clicks": {"type": "integer"},
                "created_at": {"type": "string"},
                "last_clicked_at": {"type": "string"},
                "short_url": {"type": "string"}
            }
        },
        "http.DeleteLinkResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "http.ReadyResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "store_status": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ShortLink API",
	Description:      "Short-link service: maps short codes to target URLs, redirects and counts clicks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
