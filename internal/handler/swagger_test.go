package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToOpenAPI3(t *testing.T) {
	doc := []byte(`{
		"swagger": "2.0",
		"info": {"title": "API", "version": "1.0"},
		"paths": {
			"/trips/{tripId}/expenses": {
				"post": {
					"consumes": ["application/json"],
					"produces": ["application/json"],
					"parameters": [
						{"type": "integer", "name": "tripId", "in": "path", "required": true},
						{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateExpenseRequest"}}
					],
					"responses": {
						"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.ExpenseResponse"}},
						"204": {"description": "No Content"}
					}
				}
			},
			"/trips/{tripId}/expenses/{expenseId}/receipt": {
				"post": {
					"parameters": [
						{"type": "file", "name": "file", "in": "formData", "required": true}
					],
					"responses": {}
				}
			}
		},
		"definitions": {
			"handler.ExpenseResponse": {
				"type": "object",
				"properties": {"splits": {"type": "array", "items": {"$ref": "#/definitions/handler.SplitResponse"}}}
			}
		}
	}`)

	spec, err := ConvertToOpenAPI3(doc, []Server{{URL: "http://localhost:8080/api/v1", Description: "Local"}})
	require.NoError(t, err)

	assert.Equal(t, "3.0.3", spec.OpenAPI)
	assert.Equal(t, "API", spec.Info["title"])
	require.Len(t, spec.Servers, 1)

	post := spec.Paths["/trips/{tripId}/expenses"].(map[string]interface{})["post"].(map[string]interface{})
	assert.NotContains(t, post, "consumes")

	params := post["parameters"].([]interface{})
	require.Len(t, params, 1)
	param := params[0].(map[string]interface{})
	assert.Equal(t, "tripId", param["name"])
	assert.Equal(t, map[string]interface{}{"type": "integer"}, param["schema"])

	body := post["requestBody"].(map[string]interface{})["content"].(map[string]interface{})["application/json"].(map[string]interface{})
	assert.Equal(t, "#/components/schemas/handler.CreateExpenseRequest", body["schema"].(map[string]interface{})["$ref"])

	responses := post["responses"].(map[string]interface{})
	created := responses["201"].(map[string]interface{})["content"].(map[string]interface{})["application/json"].(map[string]interface{})
	assert.Equal(t, "#/components/schemas/handler.ExpenseResponse", created["schema"].(map[string]interface{})["$ref"])
	assert.NotContains(t, responses["204"], "content")

	upload := spec.Paths["/trips/{tripId}/expenses/{expenseId}/receipt"].(map[string]interface{})["post"].(map[string]interface{})
	form := upload["requestBody"].(map[string]interface{})["content"].(map[string]interface{})["multipart/form-data"].(map[string]interface{})
	schema := form["schema"].(map[string]interface{})
	assert.Equal(t, []interface{}{"file"}, schema["required"])
	assert.Equal(t, map[string]interface{}{"type": "string", "format": "binary"}, schema["properties"].(map[string]interface{})["file"])

	schemas := spec.Components["schemas"].(map[string]interface{})
	items := schemas["handler.ExpenseResponse"].(map[string]interface{})["properties"].(map[string]interface{})["splits"].(map[string]interface{})["items"].(map[string]interface{})
	assert.Equal(t, "#/components/schemas/handler.SplitResponse", items["$ref"])
}

func TestConvertToOpenAPI3_InvalidJSON(t *testing.T) {
	_, err := ConvertToOpenAPI3([]byte("{"), nil)
	assert.Error(t, err)
}

func TestOpenAPI3Handler_ServesRegisteredDoc(t *testing.T) {
	app := newTestApp(false)

	c, rec := app.newContext(http.MethodGet, "/swagger/openapi3.json", nil)
	require.NoError(t, OpenAPI3Handler([]Server{{URL: "http://localhost:8080/api/v1"}})(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var spec OpenAPI3Spec
	decodeBody(t, rec, &spec)
	assert.Contains(t, spec.Paths, "/trips/{tripId}/settlement")
	assert.Contains(t, spec.Components["schemas"], "handler.SettlementResponse")
}
