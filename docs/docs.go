// Package docs holds the Swagger 2.0 description of the API served under
// /docs in development. Keep it in step with the handler annotations.
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
        "/auth/generate": {
            "post": {
                "description": "Issue an access token carrying the given email and name",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Generate a token",
                "parameters": [
                    {
                        "description": "Token subject",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.GenerateRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/auth.TokenResponse"}},
                    "400": {"description": "Email and name are required", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Error generating token", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Return the identity carried by the bearer token",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.MeResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "description": "Create an account from an email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Registration credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.CredentialsRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/auth.RegisterResponse"}},
                    "400": {"description": "Missing fields or invalid email", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "409": {"description": "User already exists", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}}
                }
            }
        },
        "/auth/signin": {
            "post": {
                "description": "Check credentials and receive an access token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [
                    {
                        "description": "Sign-in credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.CredentialsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.SignInResponse"}},
                    "400": {"description": "Password is required", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Report whether the API and its backing services are reachable",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        },
        "/todos": {
            "get": {
                "description": "Return all todos ordered by their order field",
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "List todos",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/todo.Response"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Create a todo",
                "parameters": [
                    {
                        "description": "New todo",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/todo.CreateRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/todo.Response"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Delete all todos",
                "responses": {
                    "200": {"description": "The deleted todos", "schema": {"type": "array", "items": {"$ref": "#/definitions/todo.Response"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}}
                }
            }
        },
        "/todos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Get a todo",
                "parameters": [
                    {"type": "integer", "description": "Todo ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/todo.Response"}},
                    "404": {"description": "Todo not found", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Delete a todo",
                "parameters": [
                    {"type": "integer", "description": "Todo ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "The deleted todo", "schema": {"$ref": "#/definitions/todo.Response"}},
                    "404": {"description": "Todo not found", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Update a todo",
                "parameters": [
                    {"type": "integer", "description": "Todo ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/todo.Patch"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/todo.Response"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "404": {"description": "Todo not found", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "auth.CredentialsRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "auth.GenerateRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "auth.MeResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "expires_at": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "auth.RegisterResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}
            }
        },
        "auth.SignInResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "auth.TokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}
            }
        },
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string"}
            }
        },
        "httputil.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "httputil.MessageResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "todo.CreateRequest": {
            "type": "object",
            "properties": {
                "order": {"type": "integer"},
                "title": {"type": "string"}
            }
        },
        "todo.Patch": {
            "type": "object",
            "properties": {
                "completed": {"type": "boolean"},
                "order": {"type": "integer"},
                "title": {"type": "string"}
            }
        },
        "todo.Response": {
            "type": "object",
            "properties": {
                "completed": {"type": "boolean"},
                "id": {"type": "integer"},
                "order": {"type": "integer"},
                "title": {"type": "string"},
                "url": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Todo API",
	Description:      "Todo list CRUD with user registration, sign-in and bearer tokens.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
