package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Connect API",
        "description": "Campus event management portal",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Role-scoped login and tokens"},
        {"name": "Events", "description": "Public event directory and publishing"},
        {"name": "Session", "description": "Per-session navigation state"},
        {"name": "Approvals", "description": "OD, proposal and certificate queues"},
        {"name": "Hostel", "description": "Hostel permission routing"},
        {"name": "Certificates", "description": "Issued credentials and credits"},
        {"name": "Attendance", "description": "Event attendance verification"},
        {"name": "Vacancies", "description": "Club recruitment"},
        {"name": "Clubs", "description": "Club directory"},
        {"name": "Notifications", "description": "Student inbox"},
        {"name": "Summary", "description": "HOD activity rollups"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by portal ID or email against a role tab",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Exchange refresh token for new access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "Newest-first event directory",
                "parameters": [
                    {"name": "tab", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "registered", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Publish a new event",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Event detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/events/{id}/register": {
            "post": {
                "tags": ["Events"],
                "summary": "Register for an event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Registered"},
                    "409": {"description": "Already registered or seats exhausted"}
                }
            }
        },
        "/session": {
            "get": {
                "tags": ["Session"],
                "summary": "Current navigation state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/navigate": {
            "post": {
                "tags": ["Session"],
                "summary": "Navigate to a view",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Illegal transition"}
                }
            }
        },
        "/hostel-permissions/{id}/send": {
            "post": {
                "tags": ["Hostel"],
                "summary": "Queue the hostel-head mail carrying the respond link",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Queued"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/hostel-permissions/{id}/respond": {
            "get": {
                "tags": ["Hostel"],
                "summary": "Record the hostel head's decision via emailed link",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "decision", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Recorded"},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/summary/club-activity": {
            "get": {
                "tags": ["Summary"],
                "summary": "Per-club technical and non-technical event counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["role", "login_id", "password"],
            "properties": {
                "role": {"type": "string", "enum": ["student", "admin", "hod"]},
                "login_id": {"type": "string"},
                "password": {"type": "string"}
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
