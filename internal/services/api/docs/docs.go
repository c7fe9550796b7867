// Package docs holds the OpenAPI document served by swaggerkit
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
	"openapi": "3.1.0",
	"info": {
		"title": "{{.Title}}",
		"description": "{{escape .Description}}",
		"version": "{{.Version}}"
	},
	"paths": {
		"/reports": {
			"post": {
				"tags": [
					"Reports"
				],
				"summary": "Submit a civic issue report",
				"requestBody": {
					"required": true,
					"content": {
						"application/json": {
							"schema": {
								"$ref": "#/components/schemas/SubmitInput"
							}
						}
					}
				},
				"responses": {
					"201": {
						"description": "Created",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"$ref": "#/components/schemas/Receipt"
										}
									}
								}
							}
						}
					},
					"400": {
						"description": "Validation failed",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					}
				}
			},
			"get": {
				"tags": [
					"Reports"
				],
				"summary": "List reports newest first",
				"security": [
					{
						"bearer": []
					}
				],
				"parameters": [
					{
						"name": "department",
						"in": "query",
						"required": false,
						"description": "Department id",
						"schema": {
							"type": "string"
						}
					},
					{
						"name": "status",
						"in": "query",
						"required": false,
						"description": "Status",
						"schema": {
							"type": "string"
						}
					},
					{
						"name": "limit",
						"in": "query",
						"required": false,
						"description": "Page size (default 50, max 500)",
						"schema": {
							"type": "integer"
						}
					},
					{
						"name": "offset",
						"in": "query",
						"required": false,
						"description": "Offset",
						"schema": {
							"type": "integer"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/components/schemas/Report"
											}
										},
										"page": {
											"$ref": "#/components/schemas/Page"
										}
									}
								}
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					},
					"422": {
						"description": "Invalid paging",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					}
				}
			}
		},
		"/reports/stats": {
			"get": {
				"tags": [
					"Reports"
				],
				"summary": "Report statistics",
				"security": [
					{
						"bearer": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"$ref": "#/components/schemas/Statistics"
										}
									}
								}
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					}
				}
			}
		},
		"/reports/{id}": {
			"get": {
				"tags": [
					"Reports"
				],
				"summary": "Get one report",
				"security": [
					{
						"bearer": []
					}
				],
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"description": "Report id",
						"schema": {
							"type": "string"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"$ref": "#/components/schemas/Report"
										}
									}
								}
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					},
					"404": {
						"description": "Not Found",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					}
				}
			}
		},
		"/reports/{id}/status": {
			"patch": {
				"tags": [
					"Reports"
				],
				"summary": "Change a report's status",
				"security": [
					{
						"bearer": []
					}
				],
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"description": "Report id",
						"schema": {
							"type": "string"
						}
					}
				],
				"requestBody": {
					"required": true,
					"content": {
						"application/json": {
							"schema": {
								"$ref": "#/components/schemas/StatusInput"
							}
						}
					}
				},
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"$ref": "#/components/schemas/Report"
										}
									}
								}
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					},
					"404": {
						"description": "Not Found",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					},
					"422": {
						"description": "Unknown status",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					}
				}
			}
		},
		"/reports/{id}/reassign": {
			"patch": {
				"tags": [
					"Reports"
				],
				"summary": "Reassign a report to another department",
				"security": [
					{
						"bearer": []
					}
				],
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"description": "Report id",
						"schema": {
							"type": "string"
						}
					}
				],
				"requestBody": {
					"required": true,
					"content": {
						"application/json": {
							"schema": {
								"$ref": "#/components/schemas/ReassignInput"
							}
						}
					}
				},
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"$ref": "#/components/schemas/Report"
										}
									}
								}
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					},
					"404": {
						"description": "Not Found",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					},
					"422": {
						"description": "Unknown department",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					}
				}
			}
		},
		"/departments": {
			"get": {
				"tags": [
					"Departments"
				],
				"summary": "List departments in registration order",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/components/schemas/Department"
											}
										}
									}
								}
							}
						}
					}
				}
			}
		},
		"/departments/{id}": {
			"get": {
				"tags": [
					"Departments"
				],
				"summary": "Get one department",
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"description": "Department id",
						"schema": {
							"type": "string"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"$ref": "#/components/schemas/Department"
										}
									}
								}
							}
						}
					},
					"404": {
						"description": "Not Found",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					}
				}
			}
		},
		"/realtime/sessions": {
			"get": {
				"tags": [
					"Realtime"
				],
				"summary": "Observer session counts",
				"security": [
					{
						"bearer": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"$ref": "#/components/schemas/SessionsInfo"
										}
									}
								}
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					}
				}
			}
		},
		"/realtime/ws": {
			"get": {
				"tags": [
					"Realtime"
				],
				"summary": "Open an observer session",
				"description": "Upgrades to a websocket. The first frames are reports:count and reports:recent, then every report:new, report:status-updated and report:reassigned followed by a reports:stats frame.",
				"security": [
					{
						"bearer": []
					}
				],
				"parameters": [
					{
						"name": "encoding",
						"in": "query",
						"required": false,
						"description": "json (text frames, default) or cbor (binary frames)",
						"schema": {
							"type": "string"
						}
					},
					{
						"name": "token",
						"in": "query",
						"required": false,
						"description": "Bearer token for clients that cannot set headers",
						"schema": {
							"type": "string"
						}
					}
				],
				"responses": {
					"101": {
						"description": "Switching Protocols"
					},
					"401": {
						"description": "Unauthorized",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					},
					"422": {
						"description": "Unknown encoding",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/ErrorResponse"
								}
							}
						}
					}
				}
			}
		},
		"/meta/health": {
			"get": {
				"tags": [
					"Meta"
				],
				"summary": "Health check",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"$ref": "#/components/schemas/HealthResponse"
										}
									}
								}
							}
						}
					}
				}
			}
		},
		"/meta/ready": {
			"get": {
				"tags": [
					"Meta"
				],
				"summary": "Readiness probe with dependency checks",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"$ref": "#/components/schemas/ReadyResponse"
										}
									}
								}
							}
						}
					}
				}
			}
		},
		"/meta/version": {
			"get": {
				"tags": [
					"Meta"
				],
				"summary": "Build and version info",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"$ref": "#/components/schemas/BuildInfo"
										}
									}
								}
							}
						}
					}
				}
			}
		},
		"/meta/service": {
			"get": {
				"tags": [
					"Meta"
				],
				"summary": "Service info and uptime",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"$ref": "#/components/schemas/ServiceResponse"
										}
									}
								}
							}
						}
					}
				}
			}
		},
		"/meta/router": {
			"get": {
				"tags": [
					"Meta"
				],
				"summary": "Routing rule table and category fallbacks",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {
										"status_code": {
											"type": "integer"
										},
										"status": {
											"type": "string"
										},
										"request_id": {
											"type": "string"
										},
										"data": {
											"$ref": "#/components/schemas/RoutingTable"
										}
									}
								}
							}
						}
					}
				}
			}
		}
	},
	"components": {
		"schemas": {
			"Department": {
				"type": "object",
				"properties": {
					"id": {
						"type": "string"
					},
					"name": {
						"type": "string"
					},
					"email": {
						"type": "string"
					},
					"phone": {
						"type": "string"
					},
					"categories": {
						"type": "array",
						"items": {
							"type": "string"
						}
					},
					"category": {
						"type": "string"
					}
				}
			},
			"Contact": {
				"type": "object",
				"properties": {
					"id": {
						"type": "string"
					},
					"name": {
						"type": "string"
					},
					"email": {
						"type": "string"
					},
					"phone": {
						"type": "string"
					}
				}
			},
			"RoutingDetails": {
				"type": "object",
				"properties": {
					"confidence": {
						"type": "number"
					},
					"reason": {
						"type": "string"
					}
				}
			},
			"Report": {
				"type": "object",
				"properties": {
					"id": {
						"type": "string",
						"example": "CR-2026-7K2M9Q"
					},
					"title": {
						"type": "string"
					},
					"description": {
						"type": "string"
					},
					"location": {
						"type": "string"
					},
					"category": {
						"type": "string",
						"enum": [
							"sanitation",
							"public-works",
							"road-maintenance",
							"water-supply",
							"other"
						]
					},
					"priority": {
						"type": "string",
						"enum": [
							"low",
							"medium",
							"high",
							"urgent"
						]
					},
					"reporterName": {
						"type": "string"
					},
					"reporterEmail": {
						"type": "string"
					},
					"reporterPhone": {
						"type": "string"
					},
					"latitude": {
						"type": "number"
					},
					"longitude": {
						"type": "number"
					},
					"images": {
						"type": "array",
						"items": {
							"type": "string"
						}
					},
					"status": {
						"type": "string",
						"enum": [
							"open",
							"in-progress",
							"under-review",
							"resolved",
							"closed"
						]
					},
					"assignedDepartment": {
						"type": "string"
					},
					"assignedDepartmentName": {
						"type": "string"
					},
					"routingConfidence": {
						"type": "number"
					},
					"routingReason": {
						"type": "string"
					},
					"submittedAt": {
						"type": "string",
						"format": "date-time"
					},
					"updatedAt": {
						"type": "string",
						"format": "date-time"
					}
				}
			},
			"SubmitInput": {
				"type": "object",
				"required": [
					"title",
					"description",
					"location",
					"category",
					"reporterName",
					"reporterEmail"
				],
				"properties": {
					"title": {
						"type": "string",
						"minLength": 5,
						"maxLength": 200,
						"example": "Pothole on Main Street"
					},
					"description": {
						"type": "string",
						"minLength": 10,
						"maxLength": 1000,
						"example": "large pothole causing damage"
					},
					"location": {
						"type": "string",
						"minLength": 5,
						"maxLength": 200,
						"example": "Main St"
					},
					"category": {
						"type": "string",
						"enum": [
							"sanitation",
							"public-works",
							"road-maintenance",
							"water-supply",
							"other"
						]
					},
					"priority": {
						"type": "string",
						"enum": [
							"low",
							"medium",
							"high",
							"urgent"
						]
					},
					"reporterName": {
						"type": "string",
						"minLength": 2,
						"maxLength": 100
					},
					"reporterEmail": {
						"type": "string",
						"format": "email"
					},
					"reporterPhone": {
						"type": "string"
					},
					"latitude": {
						"type": "number",
						"minimum": -90,
						"maximum": 90
					},
					"longitude": {
						"type": "number",
						"minimum": -180,
						"maximum": 180
					},
					"images": {
						"type": "array",
						"maxItems": 5,
						"items": {
							"type": "string",
							"format": "uri"
						}
					}
				}
			},
			"Receipt": {
				"type": "object",
				"properties": {
					"reportId": {
						"type": "string"
					},
					"assignedDepartment": {
						"$ref": "#/components/schemas/Contact"
					},
					"routingDetails": {
						"$ref": "#/components/schemas/RoutingDetails"
					},
					"status": {
						"type": "string",
						"enum": [
							"open",
							"in-progress",
							"under-review",
							"resolved",
							"closed"
						]
					},
					"submittedAt": {
						"type": "string",
						"format": "date-time"
					}
				}
			},
			"StatusInput": {
				"type": "object",
				"required": [
					"status"
				],
				"properties": {
					"status": {
						"type": "string",
						"enum": [
							"open",
							"in-progress",
							"under-review",
							"resolved",
							"closed"
						]
					}
				}
			},
			"ReassignInput": {
				"type": "object",
				"required": [
					"departmentId"
				],
				"properties": {
					"departmentId": {
						"type": "string",
						"example": "public-works"
					}
				}
			},
			"Statistics": {
				"type": "object",
				"properties": {
					"total": {
						"type": "integer"
					},
					"byStatus": {
						"type": "object",
						"additionalProperties": {
							"type": "integer"
						}
					},
					"byDepartment": {
						"type": "object",
						"additionalProperties": {
							"type": "integer"
						}
					}
				}
			},
			"Page": {
				"type": "object",
				"properties": {
					"total": {
						"type": "integer"
					},
					"limit": {
						"type": "integer"
					},
					"offset": {
						"type": "integer"
					}
				}
			},
			"SessionsInfo": {
				"type": "object",
				"properties": {
					"sessions": {
						"type": "integer"
					},
					"group": {
						"type": "string"
					},
					"members": {
						"type": "integer"
					},
					"lagged": {
						"type": "integer"
					},
					"seq": {
						"type": "integer"
					}
				}
			},
			"HealthResponse": {
				"type": "object",
				"properties": {
					"ok": {
						"type": "boolean"
					},
					"service": {
						"type": "string"
					},
					"started": {
						"type": "string"
					},
					"now": {
						"type": "string"
					}
				}
			},
			"ReadyCheck": {
				"type": "object",
				"properties": {
					"name": {
						"type": "string"
					},
					"status": {
						"type": "string"
					},
					"error": {
						"type": "string"
					}
				}
			},
			"ReadyResponse": {
				"type": "object",
				"properties": {
					"status": {
						"type": "string"
					},
					"checks": {
						"type": "array",
						"items": {
							"$ref": "#/components/schemas/ReadyCheck"
						}
					},
					"now": {
						"type": "string"
					}
				}
			},
			"ServiceResponse": {
				"type": "object",
				"properties": {
					"name": {
						"type": "string"
					},
					"started": {
						"type": "string"
					},
					"uptime": {
						"type": "integer"
					},
					"modules": {
						"type": "array",
						"items": {
							"type": "string"
						}
					}
				}
			},
			"BuildInfo": {
				"type": "object",
				"properties": {
					"service": {
						"type": "string"
					},
					"version": {
						"type": "string"
					},
					"commit": {
						"type": "string"
					},
					"date": {
						"type": "string"
					},
					"go": {
						"type": "string"
					}
				}
			},
			"Rule": {
				"type": "object",
				"properties": {
					"name": {
						"type": "string"
					},
					"keywords": {
						"type": "array",
						"items": {
							"type": "string"
						}
					},
					"department": {
						"type": "string"
					},
					"priority": {
						"type": "string"
					}
				}
			},
			"RoutingTable": {
				"type": "object",
				"properties": {
					"version": {
						"type": "integer"
					},
					"rules": {
						"type": "array",
						"items": {
							"$ref": "#/components/schemas/Rule"
						}
					},
					"categories": {
						"type": "object",
						"additionalProperties": {
							"type": "string"
						}
					},
					"fallback": {
						"type": "string"
					}
				}
			}
		},
		"securitySchemes": {
			"bearer": {
				"type": "http",
				"scheme": "bearer"
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
	Title:            "resolveit API",
	Description:      "Civic issue intake, department routing and live triage feed",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
