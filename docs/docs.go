// Package docs registers the portal's OpenAPI document with swag so the
// echo-swagger UI can serve it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "Shipment tracking, shipment listings and PDF receipts for the DM Logistics portal.",
        "title": "DM Logistics Portal API",
        "version": "1.0"
    },
    "basePath": "/",
    "paths": {
        "/v1/tracking/{tracking_number}": {
            "get": {
                "description": "Merges shipment details and status history into one timeline. Identifiers are tried upper-cased first, then as given.",
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Track a shipment",
                "parameters": [
                    {"type": "string", "description": "Tracking number (case-insensitive)", "name": "tracking_number", "in": "path", "required": true},
                    {"type": "string", "description": "Client session for stale-response suppression", "name": "X-Tracking-Session", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/trackingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/shipments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Back-office roles see every shipment; other users see their recent shipments.",
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "List shipments visible to the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/listShipmentsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Register a new shipment",
                "parameters": [
                    {"description": "Shipment details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/createShipmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/mutationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/shipments/{tracking_number}/receipt": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "tags": ["shipments"],
                "summary": "Download a shipment receipt",
                "parameters": [
                    {"type": "string", "description": "Tracking number", "name": "tracking_number", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/shipments/{tracking_number}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "An identical change submitted again within the dedup window is acknowledged without reaching the backend.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Append a status change to a shipment",
                "parameters": [
                    {"type": "string", "description": "Tracking number", "name": "tracking_number", "in": "path", "required": true},
                    {"description": "New status", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/updateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/mutationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/admin/activity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Recent back-office activity",
                "parameters": [
                    {"type": "integer", "description": "Maximum entries (1-500, default 50)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/activityResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "partyRequest": {
            "type": "object",
            "required": ["name", "address"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "createShipmentRequest": {
            "type": "object",
            "required": ["sender", "receiver", "package_type", "weight"],
            "properties": {
                "sender": {"$ref": "#/definitions/partyRequest"},
                "receiver": {"$ref": "#/definitions/partyRequest"},
                "package_type": {"type": "string"},
                "weight": {"type": "number"},
                "weight_unit": {"type": "string", "enum": ["kg", "lb"]},
                "cost": {"type": "number"},
                "origin_country": {"type": "string"},
                "destination_country": {"type": "string"},
                "estimated_delivery": {"type": "string", "example": "2025-01-09"}
            }
        },
        "updateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string"},
                "location": {"type": "string"},
                "coordinates": {"type": "string"},
                "note": {"type": "string"}
            }
        },
        "shipmentLinks": {
            "type": "object",
            "properties": {
                "self": {"type": "string"},
                "tracking": {"type": "string"},
                "receipt": {"type": "string"}
            }
        },
        "shipmentResponse": {
            "type": "object",
            "properties": {
                "tracking_number": {"type": "string"},
                "status": {"type": "string"},
                "sender": {"$ref": "#/definitions/partyRequest"},
                "receiver": {"$ref": "#/definitions/partyRequest"},
                "package_type": {"type": "string"},
                "weight": {"type": "number"},
                "weight_unit": {"type": "string"},
                "cost": {"type": "number"},
                "registered_at": {"type": "string", "format": "date-time"},
                "estimated_delivery": {"type": "string", "format": "date-time"},
                "origin_country": {"type": "string"},
                "destination_country": {"type": "string"},
                "current_location": {"type": "string"},
                "pdf_url": {"type": "string"},
                "qr_code_url": {"type": "string"},
                "_links": {"$ref": "#/definitions/shipmentLinks"}
            }
        },
        "listShipmentsResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/shipmentResponse"}},
                "total": {"type": "integer"},
                "scope": {"type": "string", "enum": ["all", "user"]}
            }
        },
        "mutationResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "tracking_number": {"type": "string"},
                "duplicate": {"type": "boolean"},
                "_links": {"$ref": "#/definitions/shipmentLinks"}
            }
        },
        "statusBanner": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "tone": {"type": "string", "enum": ["success", "danger", "info"]},
                "headline": {"type": "string"}
            }
        },
        "timelineEventResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "location": {"type": "string"},
                "date": {"type": "string"},
                "time": {"type": "string"},
                "completed": {"type": "boolean"},
                "marker": {"type": "string", "enum": ["completed", "current", "pending"]},
                "coordinates": {"type": "string"},
                "note": {"type": "string"}
            }
        },
        "trackingResponse": {
            "type": "object",
            "properties": {
                "tracking_id": {"type": "string"},
                "banner": {"$ref": "#/definitions/statusBanner"},
                "status": {"type": "string"},
                "estimated_delivery": {"type": "string"},
                "current_location": {"type": "string"},
                "recipient_name": {"type": "string"},
                "destination_address": {"type": "string"},
                "service_type": {"type": "string"},
                "timeline": {"type": "array", "items": {"$ref": "#/definitions/timelineEventResponse"}}
            }
        },
        "activityEntry": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "tracking_number": {"type": "string"},
                "actor_email": {"type": "string"},
                "actor_role": {"type": "string"},
                "detail": {"type": "string"},
                "occurred_at": {"type": "string", "format": "date-time"}
            }
        },
        "activityResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/activityEntry"}},
                "count": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &s{})
}
