// Package docs holds the API description served at /swagger.json.
// Regenerate with: swag init -g cmd/documentor/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/callback": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Identity"],
                "summary": "Sync identity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Identity"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/me/plan": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Identity"],
                "summary": "Subscription plan",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SubscriptionPlan"}}
                }
            }
        },
        "/documents": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Documents"],
                "summary": "List documents",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Document"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["Documents"],
                "summary": "Upload a PDF",
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/http.UploadResponse"}},
                    "400": {"description": "Missing file", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "413": {"description": "File too large for plan", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/uploads/complete": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["Documents"],
                "summary": "Storage upload callback",
                "parameters": [{"type": "string", "name": "X-Signature", "in": "header", "required": true}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/http.StatusResponse"}},
                    "401": {"description": "Bad signature", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/uploads/{key}/document": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Documents"],
                "summary": "Get document by storage key",
                "parameters": [{"type": "string", "name": "key", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Document"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/documents/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Documents"],
                "summary": "Get document",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Document"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Documents"],
                "summary": "Delete document",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/documents/{id}/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Documents"],
                "summary": "Ingestion status",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.UploadStatusResponse"}}
                }
            }
        },
        "/documents/{id}/messages": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Chat"],
                "summary": "List messages",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "string", "name": "cursor", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.MessagePageResponse"}},
                    "400": {"description": "Invalid limit or cursor", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/messages": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["Chat"],
                "summary": "Ask a question",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.SendMessageRequest"}}],
                "responses": {
                    "200": {"description": "Answer text, streamed", "schema": {"type": "string"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "Document has not finished ingestion", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "502": {"description": "Retrieval or generation failed", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/health": {"get": {"tags": ["Health"], "summary": "Health check", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}}}}},
        "/ready": {"get": {"tags": ["Health"], "summary": "Readiness check", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}}, "503": {"description": "Dependency unavailable", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}}}},
        "/version": {"get": {"tags": ["Health"], "summary": "Get API version", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VersionResponse"}}}}}
    },
    "definitions": {
        "domain.Document": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "key": {"type": "string"},
                "name": {"type": "string"},
                "url": {"type": "string"},
                "user_id": {"type": "string"},
                "upload_status": {"type": "string", "enum": ["PENDING", "PROCESSING", "SUCCESS", "FAILED"]},
                "failure_reason": {"type": "string"},
                "page_count": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.Message": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "file_id": {"type": "string"},
                "user_id": {"type": "string"},
                "text": {"type": "string"},
                "is_user_message": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.SendMessageRequest": {
            "type": "object",
            "properties": {"fileId": {"type": "string"}, "message": {"type": "string"}}
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "stripe_current_period_end": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.Plan": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "slug": {"type": "string"},
                "pages_per_pdf": {"type": "integer"},
                "max_file_size": {"type": "integer"}
            }
        },
        "domain.SubscriptionPlan": {
            "type": "object",
            "properties": {
                "is_subscribed": {"type": "boolean"},
                "is_canceled": {"type": "boolean"},
                "current_period_end": {"type": "string"},
                "plan": {"$ref": "#/definitions/domain.Plan"}
            }
        },
        "http.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "http.StatusResponse": {"type": "object", "properties": {"status": {"type": "string"}}},
        "http.VersionResponse": {"type": "object", "properties": {"version": {"type": "string"}}},
        "http.UploadResponse": {"type": "object", "properties": {"key": {"type": "string"}, "name": {"type": "string"}, "url": {"type": "string"}}},
        "http.UploadStatusResponse": {"type": "object", "properties": {"status": {"type": "string"}}},
        "http.MessagePageResponse": {
            "type": "object",
            "properties": {
                "messages": {"type": "array", "items": {"$ref": "#/definitions/domain.Message"}},
                "nextCursor": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "documentor API",
	Description:      "Upload PDFs and chat with them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
