// Package docs holds the OpenAPI document served under /swagger.
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
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register an operator",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/heater/state": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["heater"],
                "summary": "Get persisted heater state",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HeaterState"}}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/v1/heater/controller": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["heater"],
                "summary": "Get live controller state",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ControllerState"}}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/heater/target": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores a boost target; the next heartbeat acts on it.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["heater"],
                "summary": "Set target temperature",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SetTargetRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/heater/boost": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Requests BOOST mode and sets the target to 70 °C.",
                "produces": ["application/json"],
                "tags": ["heater"],
                "summary": "Boost",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/api/v1/heater/green": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Requests GREEN mode.",
                "produces": ["application/json"],
                "tags": ["heater"],
                "summary": "Green",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/api/v1/heater/heartbeat": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["heater"],
                "summary": "Run a control cycle now",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List logs",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range", "name": "to", "in": "query"},
                    {"enum": ["TELEMETRY", "MODE_CHANGE", "TARGET_SET", "TARGET_CLEARED", "FETCH_FAILED", "COMMAND_FAILED"], "type": "string", "description": "Event type", "name": "type", "in": "query"}
                ],
                "responses": {"200": {"description": "count, events"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}
            }
        }
    },
    "definitions": {
        "handlers.authCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handlers.SetTargetRequest": {
            "type": "object",
            "properties": {"target_temp_c": {"description": "Target temperature in Celsius, 40..70 inclusive", "type": "number", "example": 55}}
        },
        "models.HeaterState": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "gateway_id": {"type": "string"},
                "mode": {"type": "string", "enum": ["GREEN", "BOOST"]},
                "current_temp_c": {"type": "number"},
                "target_temp_c": {"type": "number"},
                "is_on": {"type": "boolean"},
                "updated_at": {"type": "string"}
            }
        },
        "service.ControllerState": {
            "type": "object",
            "properties": {
                "temperature_c": {"type": "number"},
                "mode": {"type": "string", "enum": ["GREEN", "BOOST"]},
                "target_temp_c": {"type": "number"}
            }
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Water Heater Controller API",
	Description:      "Supervisory controller for a cloud-connected water heater: boost schedule, manual overrides, audit log.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
