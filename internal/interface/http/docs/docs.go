// Package docs 模拟服务端的swagger文档
// 修改handler注解后执行 `swag init -g internal/interface/http/handler/router.go -o internal/interface/http/docs` 重新生成
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
        "/api/v1/{path}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "/api/v1下的所有操作，详见各资源说明",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["引擎"],
                "summary": "模拟接口",
                "parameters": [
                    {
                        "type": "string",
                        "description": "资源路径，如books、users/3、loans/borrow",
                        "name": "path",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "code=200，data为操作结果", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "参数错误或业务规则冲突", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "401": {"description": "未登录或令牌无效", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "资源不存在或未实现的接口", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["引擎"],
                "summary": "模拟接口",
                "parameters": [{"type": "string", "name": "path", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["引擎"],
                "summary": "模拟接口",
                "parameters": [{"type": "string", "name": "path", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["引擎"],
                "summary": "模拟接口",
                "parameters": [{"type": "string", "name": "path", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}}}
            }
        }
    },
    "definitions": {
        "response.Envelope": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
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

// SwaggerInfo 文档元信息
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "图书馆控制台模拟服务",
	Description:      "内存引擎的HTTP适配，响应统一为{code,message,data}信封",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
