package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Radio Tracker API",
        "description": "Spreadsheet-backed reading list with flashcard generation",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Operator login"},
        {"name": "Records", "description": "Reading-list table and edits"},
        {"name": "Flashcards", "description": "Draft generation and commit"},
        {"name": "Export", "description": "CSV/PDF downloads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate operator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current operator",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/records": {
            "get": {
                "tags": ["Records"],
                "summary": "List visible records",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["active", "ignored", "all"]},
                    {"name": "category_tags", "in": "query", "type": "array", "items": {"type": "string"}},
                    {"name": "section_tags", "in": "query", "type": "array", "items": {"type": "string"}},
                    {"name": "q", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Records"],
                "summary": "Create a reading-list item",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRecordRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Records"],
                "summary": "Apply a sparse edit batch",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EditBatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate record id"}
                }
            }
        },
        "/records/reload": {
            "post": {
                "tags": ["Records"],
                "summary": "Reload the table from the sheet",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Backing store unreachable"}
                }
            }
        },
        "/records/tags": {
            "get": {
                "tags": ["Records"],
                "summary": "List distinct tags for a column",
                "parameters": [
                    {"name": "column", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/selection": {
            "get": {
                "tags": ["Records"],
                "summary": "Get the record selected for the viewer",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/flashcards/generate": {
            "post": {
                "tags": ["Flashcards"],
                "summary": "Generate a flashcard draft",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Generation failed"}
                }
            }
        },
        "/flashcards/draft": {
            "get": {
                "tags": ["Flashcards"],
                "summary": "Get the current draft batch",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No draft"}
                }
            },
            "put": {
                "tags": ["Flashcards"],
                "summary": "Replace the draft batch",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDraftRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/flashcards/commit": {
            "post": {
                "tags": ["Flashcards"],
                "summary": "Commit the draft batch",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Empty draft"}
                }
            }
        },
        "/export/records": {
            "get": {
                "tags": ["Export"],
                "summary": "Export the reading list",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Document"}
                }
            }
        },
        "/export/flashcards": {
            "get": {
                "tags": ["Export"],
                "summary": "Export the flashcard deck",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Document"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "Record": {
            "type": "object",
            "properties": {
                "rid": {"type": "string"},
                "title": {"type": "string"},
                "category_tags": {"type": "string"},
                "section_tags": {"type": "string"},
                "url": {"type": "string"},
                "read_status": {"type": "boolean"},
                "flashcards_made": {"type": "boolean"},
                "ignored": {"type": "boolean"},
                "notes": {"type": "string"},
                "last_access": {"type": "string"}
            }
        },
        "CreateRecordRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "category_tags": {"type": "string"},
                "section_tags": {"type": "string"},
                "url": {"type": "string"},
                "body_text": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["title"]
        },
        "EditBatchRequest": {
            "type": "object",
            "properties": {
                "filter": {
                    "type": "object",
                    "properties": {
                        "status": {"type": "string"},
                        "category_tags": {"type": "array", "items": {"type": "string"}},
                        "section_tags": {"type": "array", "items": {"type": "string"}},
                        "q": {"type": "string"}
                    }
                },
                "edits": {"type": "object"}
            },
            "required": ["edits"]
        },
        "GenerateRequest": {
            "type": "object",
            "properties": {
                "record_id": {"type": "string"}
            },
            "required": ["record_id"]
        },
        "UpdateDraftRequest": {
            "type": "object",
            "properties": {
                "cards": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/DraftCard"}
                }
            },
            "required": ["cards"]
        },
        "DraftCard": {
            "type": "object",
            "properties": {
                "question": {"type": "string"},
                "answer": {"type": "string"},
                "tags": {"type": "string"}
            },
            "required": ["question", "answer"]
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
                "warnings": {"type": "array", "items": {"type": "string"}},
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
