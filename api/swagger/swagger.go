package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Enrollment API",
        "description": "Seat-accounted extracurricular enrollment for school units",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "auth", "description": "Operator login and admin gate"},
        {"name": "modalities", "description": "Per-unit seat accounting"},
        {"name": "enrollments", "description": "Selection sessions and committed rows"},
        {"name": "admin", "description": "Cross-unit rollup and exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Operator login by email and phone",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/admin/unlock": {
            "post": {
                "tags": ["auth"],
                "summary": "Unlock the cross-unit admin surface",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdminUnlockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Locked after repeated failures"}
                }
            }
        },
        "/modalities": {
            "get": {
                "tags": ["modalities"],
                "summary": "Seat snapshot of the operator's unit",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "ra", "in": "query", "type": "string", "description": "narrow to what this student may pick"},
                    {"name": "gender", "in": "query", "type": "string", "description": "narrow by gender tag (M, F)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["enrollments"],
                "summary": "List registered students of the operator's unit",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/preview": {
            "post": {
                "tags": ["enrollments"],
                "summary": "Expand a selection session and run the capacity gate",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectionSession"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["enrollments"],
                "summary": "List committed enrollments of the operator's unit",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["enrollments"],
                "summary": "Commit a selection session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectionSession"}}
                ],
                "responses": {
                    "200": {"description": "Partial results reported per pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{position}": {
            "delete": {
                "tags": ["enrollments"],
                "summary": "Archive and remove a committed enrollment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "position", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Unknown row position"}
                }
            }
        },
        "/admin/rollup": {
            "get": {
                "tags": ["admin"],
                "summary": "Cross-unit enrollment report",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "units", "in": "query", "type": "array", "items": {"type": "string"}},
                    {"name": "modalities", "in": "query", "type": "array", "items": {"type": "string"}},
                    {"name": "cohorts", "in": "query", "type": "array", "items": {"type": "string"}},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Admin role required"}
                }
            }
        },
        "/admin/rollup/exports": {
            "post": {
                "tags": ["admin"],
                "summary": "Request an asynchronous CSV or PDF export",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Job queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/rollup/exports/{id}": {
            "get": {
                "tags": ["admin"],
                "summary": "Get an export job",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown job"}
                }
            }
        },
        "/downloads": {
            "get": {
                "tags": ["admin"],
                "summary": "Download a finished export through its signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "phone"],
            "properties": {
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "AdminUnlockRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "password": {"type": "string"}
            }
        },
        "SelectionSession": {
            "type": "object",
            "required": ["students"],
            "properties": {
                "students": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/StudentSelection"}
                }
            }
        },
        "StudentSelection": {
            "type": "object",
            "required": ["student", "picks"],
            "properties": {
                "student": {"$ref": "#/definitions/Student"},
                "picks": {"type": "array", "items": {"type": "string"}, "maxItems": 3}
            }
        },
        "Student": {
            "type": "object",
            "properties": {
                "ra": {"type": "string"},
                "unit": {"type": "string"},
                "cohort": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "filter": {"type": "object"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
