package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/tripsplit/tripsplit-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec represents an OpenAPI 3.0 spec structure
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// transformRefs recursively rewrites $ref from #/definitions/ to
// #/components/schemas/
func transformRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			result[key] = transformRefs(value)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = transformRefs(item)
		}
		return result
	default:
		return data
	}
}

// transformOperation converts one Swagger 2.0 operation. Body and formData
// parameters become a requestBody; path and query parameters get a schema.
func transformOperation(op map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(op))
	for key, value := range op {
		switch key {
		case "parameters", "consumes", "produces":
		case "responses":
			result[key] = transformResponses(value, op["produces"])
		default:
			result[key] = transformRefs(value)
		}
	}

	params, _ := op["parameters"].([]interface{})
	converted := make([]interface{}, 0, len(params))
	formProps := make(map[string]interface{})
	var required []interface{}

	for _, raw := range params {
		param, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		switch param["in"] {
		case "body":
			result["requestBody"] = map[string]interface{}{
				"required": param["required"],
				"content": map[string]interface{}{
					"application/json": map[string]interface{}{"schema": transformRefs(param["schema"])},
				},
			}
		case "formData":
			name, _ := param["name"].(string)
			prop := map[string]interface{}{"type": param["type"]}
			if param["type"] == "file" {
				prop = map[string]interface{}{"type": "string", "format": "binary"}
			}
			formProps[name] = prop
			if param["required"] == true {
				required = append(required, name)
			}
		default:
			converted = append(converted, transformParameter(param))
		}
	}

	if len(formProps) > 0 {
		schema := map[string]interface{}{"type": "object", "properties": formProps}
		if len(required) > 0 {
			schema["required"] = required
		}
		result["requestBody"] = map[string]interface{}{
			"content": map[string]interface{}{
				"multipart/form-data": map[string]interface{}{"schema": schema},
			},
		}
	}
	if len(converted) > 0 {
		result["parameters"] = converted
	}
	return result
}

// transformResponses moves response schemas under content
func transformResponses(raw interface{}, produces interface{}) interface{} {
	responses, ok := raw.(map[string]interface{})
	if !ok {
		return raw
	}

	mediaType := "application/json"
	if list, ok := produces.([]interface{}); ok && len(list) > 0 {
		if s, ok := list[0].(string); ok {
			mediaType = s
		}
	}

	result := make(map[string]interface{}, len(responses))
	for code, value := range responses {
		resp, ok := value.(map[string]interface{})
		if !ok {
			result[code] = value
			continue
		}
		converted := map[string]interface{}{"description": resp["description"]}
		if schema, ok := resp["schema"]; ok {
			converted["content"] = map[string]interface{}{
				mediaType: map[string]interface{}{"schema": transformRefs(schema)},
			}
		}
		result[code] = converted
	}
	return result
}

// transformParameter converts a Swagger 2.0 path or query parameter
func transformParameter(param map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			schema[field] = transformRefs(val)
		}
	}
	if len(schema) > 0 {
		result["schema"] = schema
	}
	return result
}

// ConvertToOpenAPI3 converts a Swagger 2.0 document to OpenAPI 3.0
func ConvertToOpenAPI3(doc []byte, servers []Server) (*OpenAPI3Spec, error) {
	var swagger2 map[string]interface{}
	if err := json.Unmarshal(doc, &swagger2); err != nil {
		return nil, err
	}

	info, _ := swagger2["info"].(map[string]interface{})

	paths := make(map[string]interface{})
	rawPaths, _ := swagger2["paths"].(map[string]interface{})
	for path, rawItem := range rawPaths {
		item, ok := rawItem.(map[string]interface{})
		if !ok {
			continue
		}
		methods := make(map[string]interface{}, len(item))
		for method, rawOp := range item {
			if op, ok := rawOp.(map[string]interface{}); ok {
				methods[method] = transformOperation(op)
			}
		}
		paths[path] = methods
	}

	components := make(map[string]interface{})
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = transformRefs(definitions)
	}

	return &OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    servers,
		Paths:      paths,
		Components: components,
	}, nil
}

// OpenAPI3Handler serves the API description converted to OpenAPI 3.0
func OpenAPI3Handler(servers []Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return NewInternalError(c, "Failed to read swagger doc")
		}

		spec, err := ConvertToOpenAPI3([]byte(doc), servers)
		if err != nil {
			return NewInternalError(c, "Failed to parse swagger doc")
		}
		return c.JSON(http.StatusOK, spec)
	}
}
