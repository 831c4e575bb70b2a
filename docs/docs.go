// Package docs registers the OpenAPI description of the register API with swag.
package docs

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
        "/health": {
            "get": {"tags": ["System"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}],
                "responses": {
                    "200": {"description": "Login successful", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/auth/validate": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Validate a token",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.TokenValidationRequest"}}],
                "responses": {
                    "200": {"description": "Token is valid", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "401": {"description": "Token is invalid", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Log out",
                "responses": {"200": {"description": "Logged out", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/auth/register": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Register a user (admin only)",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "User registered", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "403": {"description": "Admin access required", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/vessels": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Vessels"],
                "summary": "List assigned vessels",
                "responses": {"200": {"description": "Vessels retrieved", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/defects": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Defects"],
                "summary": "List defects",
                "parameters": [
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "in": "query", "name": "vessel"},
                    {"type": "string", "in": "query", "name": "status"},
                    {"type": "string", "in": "query", "name": "criticality"},
                    {"type": "string", "in": "query", "name": "search"},
                    {"type": "string", "in": "query", "name": "from"},
                    {"type": "string", "in": "query", "name": "to"},
                    {"type": "integer", "in": "query", "name": "page"},
                    {"type": "integer", "in": "query", "name": "limit"}
                ],
                "responses": {"200": {"description": "Defects retrieved", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Defects"],
                "summary": "Save a defect",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.SaveDefectRequest"}}],
                "responses": {
                    "200": {"description": "Defect updated", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "201": {"description": "Defect created", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "403": {"description": "Vessel not assigned", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/defects/draft": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Defects"],
                "summary": "New defect draft",
                "responses": {"200": {"description": "Draft created", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/defects/equipment": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Defects"],
                "summary": "Equipment categories",
                "responses": {"200": {"description": "Equipment categories retrieved", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/defects/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Defects"],
                "summary": "Update a defect",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.SaveDefectRequest"}}
                ],
                "responses": {"200": {"description": "Defect updated", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Defects"],
                "summary": "Delete a defect",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {
                    "200": {"description": "Defect deleted", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Defect not found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/defects/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Reports"],
                "summary": "Defect statistics",
                "parameters": [
                    {"type": "integer", "in": "query", "name": "top"},
                    {"type": "string", "in": "query", "name": "now"}
                ],
                "responses": {"200": {"description": "Statistics computed", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/defects/export/csv": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Reports"],
                "summary": "Export defects as CSV",
                "produces": ["text/csv"],
                "responses": {"200": {"description": "CSV document", "schema": {"type": "file"}}}
            }
        },
        "/defects/export/pdf": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Reports"],
                "summary": "Export defects as a PDF report",
                "produces": ["application/pdf"],
                "responses": {"200": {"description": "PDF document", "schema": {"type": "file"}}}
            }
        },
        "/infrastructure/worker/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Infrastructure"],
                "summary": "Get table provisioning status",
                "responses": {"200": {"description": "Worker status", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/infrastructure/worker/health": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Infrastructure"],
                "summary": "Check provisioning health",
                "responses": {"200": {"description": "Health check completed", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/infrastructure/worker/restart": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Infrastructure"],
                "summary": "Rerun table provisioning",
                "parameters": [{"in": "body", "name": "request", "schema": {"$ref": "#/definitions/models.ProvisioningRunRequest"}}],
                "responses": {
                    "200": {"description": "Provisioning rerun completed", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "409": {"description": "Provisioning is running", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/infrastructure/worker/auto-restart": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Infrastructure"],
                "summary": "Rerun provisioning if unhealthy",
                "responses": {"200": {"description": "Auto-restart check completed", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        }
    },
    "definitions": {
        "models.APIError": {
            "type": "object",
            "properties": {"details": {"type": "string"}, "field": {"type": "string"}, "type": {"type": "string"}}
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "error": {"$ref": "#/definitions/models.APIError"},
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "chief.engineer@fleet.example"},
                "password": {"type": "string", "minLength": 8, "example": "securePassword123"}
            }
        },
        "models.RegisterRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "username": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "role": {"type": "string", "enum": ["crew", "superintendent", "admin"]}
            }
        },
        "models.TokenValidationRequest": {
            "type": "object",
            "required": ["token"],
            "properties": {"token": {"type": "string"}}
        },
        "models.SaveDefectRequest": {
            "type": "object",
            "required": ["vesselId", "equipment", "description", "actionPlanned", "criticality", "status", "dateReported"],
            "properties": {
                "id": {"type": "string", "example": "temp-1718000000000"},
                "vesselId": {"type": "string", "example": "V1"},
                "equipment": {"type": "string", "example": "Main Engine"},
                "description": {"type": "string", "maxLength": 2000},
                "actionPlanned": {"type": "string", "maxLength": 2000},
                "comments": {"type": "string", "maxLength": 2000},
                "criticality": {"type": "string", "enum": ["High", "Medium", "Low"]},
                "status": {"type": "string", "enum": ["OPEN", "IN PROGRESS", "CLOSED"]},
                "dateReported": {"type": "string", "example": "2024-06-01"},
                "dateCompleted": {"type": "string"}
            }
        },
        "models.ProvisioningRunRequest": {
            "type": "object",
            "properties": {"force": {"type": "boolean"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Vessel Defects Register API",
	Description:      "Defect tracking, statistics and CSV/PDF reporting for a fleet of vessels.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
