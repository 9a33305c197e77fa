// Package docs holds the Swagger 2.0 description of the API, in the layout
// produced by swag init.
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
        "/trips": {
            "get": {
                "produces": ["application/json"],
                "tags": ["trips"],
                "summary": "List trips",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.TripResponse"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["trips"],
                "summary": "Create trip",
                "parameters": [
                    {"description": "Trip", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateTripRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.TripResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/trips/{tripId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["trips"],
                "summary": "Get trip",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TripResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["trips"],
                "summary": "Update trip",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true},
                    {"description": "Trip", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateTripRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TripResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            },
            "delete": {
                "tags": ["trips"],
                "summary": "Delete trip",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/trips/{tripId}/members": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["members"],
                "summary": "Add member",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true},
                    {"description": "Member", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.AddMemberRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.MemberResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/trips/{tripId}/members/{memberId}": {
            "delete": {
                "tags": ["members"],
                "summary": "Remove member",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true},
                    {"type": "integer", "description": "Member ID", "name": "memberId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/trips/{tripId}/expenses": {
            "get": {
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "List expenses",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.ExpenseResponse"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Create expense",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true},
                    {"description": "Expense", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateExpenseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.ExpenseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/trips/{tripId}/expenses/{expenseId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Get expense",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true},
                    {"type": "integer", "description": "Expense ID", "name": "expenseId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ExpenseResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            },
            "delete": {
                "tags": ["expenses"],
                "summary": "Delete expense",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true},
                    {"type": "integer", "description": "Expense ID", "name": "expenseId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/trips/{tripId}/expenses/{expenseId}/receipt": {
            "get": {
                "produces": ["application/json"],
                "tags": ["receipts"],
                "summary": "Get receipt links",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true},
                    {"type": "integer", "description": "Expense ID", "name": "expenseId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ReceiptResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["receipts"],
                "summary": "Upload receipt",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true},
                    {"type": "integer", "description": "Expense ID", "name": "expenseId", "in": "path", "required": true},
                    {"type": "file", "description": "Receipt image", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.ReceiptResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            },
            "delete": {
                "tags": ["receipts"],
                "summary": "Remove receipt",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true},
                    {"type": "integer", "description": "Expense ID", "name": "expenseId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/trips/{tripId}/repayments": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Record repayment",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true},
                    {"description": "Repayment", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateRepaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.ExpenseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/trips/{tripId}/settlement": {
            "get": {
                "produces": ["application/json"],
                "tags": ["settlement"],
                "summary": "Get settlement",
                "parameters": [
                    {"type": "integer", "description": "Trip ID", "name": "tripId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SettlementResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        }
    },
    "definitions": {
        "handler.AddMemberRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}}
        },
        "handler.BalanceResponse": {
            "type": "object",
            "properties": {
                "member_id": {"type": "integer"},
                "display_name": {"type": "string"},
                "total_paid": {"type": "string"},
                "total_owed": {"type": "string"},
                "balance": {"type": "string"}
            }
        },
        "handler.CreateExpenseRequest": {
            "type": "object",
            "properties": {
                "payerId": {"type": "integer"},
                "description": {"type": "string"},
                "amount": {"type": "string"},
                "expenseDate": {"type": "string"},
                "splitMode": {"type": "string", "enum": ["equal", "exact", "percent"]},
                "splits": {"type": "array", "items": {"$ref": "#/definitions/handler.SplitRequest"}}
            }
        },
        "handler.CreateRepaymentRequest": {
            "type": "object",
            "properties": {
                "fromMemberId": {"type": "integer"},
                "toMemberId": {"type": "integer"},
                "amount": {"type": "string"},
                "note": {"type": "string"}
            }
        },
        "handler.CreateTripRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "currency": {"type": "string"},
                "members": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.ExpenseResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "tripId": {"type": "integer"},
                "payerId": {"type": "integer"},
                "kind": {"type": "string"},
                "description": {"type": "string"},
                "amount": {"type": "string"},
                "expenseDate": {"type": "string"},
                "hasReceipt": {"type": "boolean"},
                "splits": {"type": "array", "items": {"$ref": "#/definitions/handler.SplitResponse"}},
                "createdAt": {"type": "string"}
            }
        },
        "handler.MemberResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "handler.ProblemDetails": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/handler.ValidationError"}}
            }
        },
        "handler.ReceiptResponse": {
            "type": "object",
            "properties": {
                "displayUrl": {"type": "string"},
                "thumbnailUrl": {"type": "string"},
                "expiresAt": {"type": "string"}
            }
        },
        "handler.SettlementResponse": {
            "type": "object",
            "properties": {
                "balances": {"type": "array", "items": {"$ref": "#/definitions/handler.BalanceResponse"}},
                "transactions": {"type": "array", "items": {"$ref": "#/definitions/handler.TransactionResponse"}},
                "total_expenses": {"type": "string"}
            }
        },
        "handler.SplitRequest": {
            "type": "object",
            "properties": {
                "memberId": {"type": "integer"},
                "value": {"type": "string"}
            }
        },
        "handler.SplitResponse": {
            "type": "object",
            "properties": {
                "memberId": {"type": "integer"},
                "amount": {"type": "string"}
            }
        },
        "handler.TransactionResponse": {
            "type": "object",
            "properties": {
                "from": {"type": "string"},
                "to": {"type": "string"},
                "amount": {"type": "string"}
            }
        },
        "handler.TripResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "currency": {"type": "string"},
                "members": {"type": "array", "items": {"$ref": "#/definitions/handler.MemberResponse"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "handler.UpdateTripRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "currency": {"type": "string"}
            }
        },
        "handler.ValidationError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
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
	Title:            "Tripsplit API",
	Description:      "Shared trip expenses and settlement of who owes whom.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
