// Package docs регистрирует описание API для Swagger UI.
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
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Регистрация пользователя",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/register.Request"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/register.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Вход пользователя",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/login.Request"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/login.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/users/{login}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Профиль пользователя",
                "parameters": [
                    {"type": "string", "description": "Логин", "name": "login", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/login.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "put": {
                "description": "Если пользователя нет и передан пароль, создается новая запись.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Изменение профиля",
                "parameters": [
                    {"type": "string", "description": "Логин", "name": "login", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/update.ProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/login.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/users/{login}/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["State"],
                "summary": "Состояние пользователя",
                "parameters": [
                    {"type": "string", "description": "Логин", "name": "login", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/read.StateResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["State"],
                "summary": "Изменение состояния",
                "parameters": [
                    {"type": "string", "description": "Логин", "name": "login", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/update.StateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/users/{login}/operations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Operations"],
                "summary": "Список операций",
                "parameters": [
                    {"type": "string", "description": "Логин", "name": "login", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/list.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Operations"],
                "summary": "Новая операция",
                "parameters": [
                    {"type": "string", "description": "Логин", "name": "login", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.Operation"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/create.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/users/{login}/operations/{id}": {
            "put": {
                "description": "id и createdAt сохраняются, updatedAt обновляется.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Operations"],
                "summary": "Изменение операции",
                "parameters": [
                    {"type": "string", "description": "Логин", "name": "login", "in": "path", "required": true},
                    {"type": "string", "description": "Идентификатор операции", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.Operation"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/create.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Operations"],
                "summary": "Удаление операции",
                "parameters": [
                    {"type": "string", "description": "Логин", "name": "login", "in": "path", "required": true},
                    {"type": "string", "description": "Идентификатор операции", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {"ok": {"type": "boolean", "example": true}}
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string", "example": "user not found"}}
        },
        "models.Profile": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "models.UserView": {
            "type": "object",
            "properties": {
                "login": {"type": "string", "example": "john.doe"},
                "profile": {"$ref": "#/definitions/models.Profile"}
            }
        },
        "models.Operation": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string", "enum": ["income", "expense", "transfer"]},
                "amount": {"type": "number", "example": 100},
                "category": {"type": "string", "example": "Uncategorized"},
                "note": {"type": "string"},
                "date": {"type": "string", "example": "2024-03-15T10:30:00.000Z"},
                "account": {"type": "string"},
                "accountFrom": {"type": "string"},
                "accountTo": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "register.Request": {
            "type": "object",
            "required": ["login", "password"],
            "properties": {
                "login": {"type": "string"},
                "password": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "register.Response": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "login": {"type": "string", "example": "john.doe"}
            }
        },
        "login.Request": {
            "type": "object",
            "required": ["login", "password"],
            "properties": {
                "login": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "login.Response": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "user": {"$ref": "#/definitions/models.UserView"}
            }
        },
        "update.ProfileRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "update.StateRequest": {
            "type": "object",
            "properties": {
                "goals": {"type": "array", "items": {"type": "object"}},
                "budgets": {"type": "array", "items": {"type": "object"}},
                "accounts": {"type": "array", "items": {"type": "string"}}
            }
        },
        "read.StateResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "goals": {"type": "array", "items": {"type": "object"}},
                "budgets": {"type": "array", "items": {"type": "object"}},
                "accounts": {"type": "array", "items": {"type": "string"}}
            }
        },
        "list.Response": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "operations": {"type": "array", "items": {"$ref": "#/definitions/models.Operation"}}
            }
        },
        "create.Response": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "operation": {"$ref": "#/definitions/models.Operation"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "MoneyLens API",
	Description:      "Хранение пользователей, финансовых операций, целей, бюджетов и счетов.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
