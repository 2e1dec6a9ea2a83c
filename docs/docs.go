// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "Quotes, invoices and purchase orders with XLSX, DOCX and PDF export",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "localhost:8080",
    "basePath": "/api/v1",
    "paths": {
        "/documents/validate": {
            "post": {
                "operationId": "validateDocumentForExport",
                "summary": "Run export validation",
                "tags": [
                    "documents"
                ],
                "parameters": [
                    {
                        "description": "Document with its type",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.ExportCheckRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Validation result",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/documents/{type}/validate": {
            "post": {
                "operationId": "validateDocumentForSave",
                "summary": "Run save validation",
                "tags": [
                    "documents"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "quote, invoice or purchase_order",
                        "name": "type",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "ID of the document being edited",
                        "name": "id",
                        "in": "query"
                    },
                    {
                        "description": "Document",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/document.DocumentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Validation result",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "404": {
                        "description": "Unknown document type",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/documents/{type}": {
            "get": {
                "operationId": "listDocuments",
                "summary": "List documents of a type",
                "tags": [
                    "documents"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "quote, invoice or purchase_order",
                        "name": "type",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Documents",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            },
            "post": {
                "operationId": "createDocument",
                "summary": "Create a document",
                "tags": [
                    "documents"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "quote, invoice or purchase_order",
                        "name": "type",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Document",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/document.DocumentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "422": {
                        "description": "Document is not valid",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "503": {
                        "description": "Store unavailable",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/documents/{type}/next-number": {
            "get": {
                "operationId": "nextDocumentNumber",
                "summary": "Suggest the next document number",
                "tags": [
                    "documents"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "quote, invoice or purchase_order",
                        "name": "type",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Next number",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/documents/{type}/{id}": {
            "get": {
                "operationId": "getDocument",
                "summary": "Get a document",
                "tags": [
                    "documents"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "quote, invoice or purchase_order",
                        "name": "type",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Document ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Document",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            },
            "put": {
                "operationId": "updateDocument",
                "summary": "Update a document",
                "tags": [
                    "documents"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "quote, invoice or purchase_order",
                        "name": "type",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Document ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Document",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/document.DocumentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "422": {
                        "description": "Document is not valid",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            },
            "delete": {
                "operationId": "deleteDocument",
                "summary": "Delete a document",
                "tags": [
                    "documents"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "quote, invoice or purchase_order",
                        "name": "type",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Document ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/documents/{type}/{id}/export/{format}": {
            "get": {
                "operationId": "exportDocument",
                "summary": "Export a stored document",
                "tags": [
                    "exports"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "quote, invoice or purchase_order",
                        "name": "type",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Document ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "enum": [
                            "xlsx",
                            "docx",
                            "pdf"
                        ],
                        "description": "Export format",
                        "name": "format",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Rendered file",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "422": {
                        "description": "Document is not valid",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                },
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
                    "application/pdf"
                ]
            }
        },
        "/documents/{type}/export/{format}": {
            "post": {
                "operationId": "exportNewDocument",
                "summary": "Save and export a new document",
                "tags": [
                    "exports"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "quote, invoice or purchase_order",
                        "name": "type",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "enum": [
                            "xlsx",
                            "docx",
                            "pdf"
                        ],
                        "description": "Export format",
                        "name": "format",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Document",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/document.DocumentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Rendered file",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "422": {
                        "description": "Document is not valid",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
                    "application/pdf"
                ]
            }
        },
        "/customers": {
            "get": {
                "operationId": "listCustomers",
                "summary": "List customers",
                "tags": [
                    "customers"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            },
            "post": {
                "operationId": "createCustomer",
                "summary": "Create a customer",
                "tags": [
                    "customers"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/partner.CustomerRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            }
        },
        "/customers/{id}": {
            "get": {
                "operationId": "getCustomer",
                "summary": "Get a customer",
                "tags": [
                    "customers"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            },
            "put": {
                "operationId": "updateCustomer",
                "summary": "Update a customer",
                "tags": [
                    "customers"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/partner.CustomerRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            },
            "delete": {
                "operationId": "deleteCustomer",
                "summary": "Delete a customer",
                "tags": [
                    "customers"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            }
        },
        "/vendors": {
            "get": {
                "operationId": "listVendors",
                "summary": "List vendors",
                "tags": [
                    "vendors"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            },
            "post": {
                "operationId": "createVendor",
                "summary": "Create a vendor",
                "tags": [
                    "vendors"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/partner.VendorRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            }
        },
        "/vendors/{id}": {
            "get": {
                "operationId": "getVendor",
                "summary": "Get a vendor",
                "tags": [
                    "vendors"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            },
            "put": {
                "operationId": "updateVendor",
                "summary": "Update a vendor",
                "tags": [
                    "vendors"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/partner.VendorRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            },
            "delete": {
                "operationId": "deleteVendor",
                "summary": "Delete a vendor",
                "tags": [
                    "vendors"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            }
        },
        "/documents/quote/{id}/convert": {
            "post": {
                "operationId": "convertQuote",
                "summary": "Convert a quote into an invoice",
                "tags": [
                    "documents"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Document ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Invoice created",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "400": {
                        "description": "Only quotes convert",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/documents/invoice/{id}/payments": {
            "post": {
                "operationId": "recordInvoicePayment",
                "summary": "Record a payment on an invoice",
                "tags": [
                    "documents"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Document ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Payment",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/document.PaymentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Invoice",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "422": {
                        "description": "Payment rejected",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        }
    },
    "definitions": {
        "dto.Response": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "data": {},
                "error": {
                    "$ref": "#/definitions/dto.ErrorInfo"
                }
            }
        },
        "dto.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "request_id": {
                    "type": "string"
                },
                "details": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.ValidationDetail"
                    }
                }
            }
        },
        "dto.ValidationDetail": {
            "type": "object",
            "properties": {
                "field": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "document.DocumentRequest": {
            "type": "object",
            "properties": {
                "number": {
                    "type": "string"
                },
                "date": {
                    "type": "string",
                    "format": "date-time"
                },
                "due_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "valid_until": {
                    "type": "string",
                    "format": "date-time"
                },
                "counterparty_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "counterparty": {
                    "$ref": "#/definitions/document.ContactInput"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/document.LineItemInput"
                    }
                },
                "document_tax": {
                    "type": "number"
                },
                "amount_received": {
                    "type": "number"
                },
                "status": {
                    "type": "string"
                },
                "currency": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                },
                "terms": {
                    "type": "string"
                },
                "quote_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "purchase_order_id": {
                    "type": "string",
                    "format": "uuid"
                }
            }
        },
        "document.PaymentRequest": {
            "type": "object",
            "required": [
                "amount"
            ],
            "properties": {
                "amount": {
                    "type": "number"
                }
            }
        },
        "handler.ExportCheckRequest": {
            "allOf": [
                {
                    "$ref": "#/definitions/document.DocumentRequest"
                },
                {
                    "type": "object",
                    "required": [
                        "type"
                    ],
                    "properties": {
                        "type": {
                            "type": "string"
                        }
                    }
                }
            ]
        },
        "partner.CustomerRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "company": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "trn": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                }
            }
        },
        "partner.VendorRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "company": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "trn": {
                    "type": "string"
                },
                "bank_name": {
                    "type": "string"
                },
                "bank_account": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                }
            }
        },
        "document.LineItemInput": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "description": {
                    "type": "string"
                },
                "vehicle_ref": {
                    "type": "string"
                },
                "rental_basis": {
                    "type": "string",
                    "enum": [
                        "unit",
                        "hourly",
                        "daily",
                        "monthly"
                    ]
                },
                "quantity": {
                    "type": "number"
                },
                "unit_price": {
                    "type": "number"
                },
                "tax_percent": {
                    "type": "number"
                },
                "tax": {
                    "type": "number"
                },
                "amount_received": {
                    "type": "number"
                }
            }
        },
        "document.ContactInput": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "company": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "trn": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "Rental Documents API",
	Description:      "Quotes, invoices and purchase orders with XLSX, DOCX and PDF export",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
