// Package docs registers the gateway's Swagger document with swag so
// echo-swagger can serve it at /swagger/*. Keep the path list in step with
// the @Router annotations on the handlers.
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
        "/api/auth/login": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Login",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/auth/signup": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Sign up",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/auth/forgot-password": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Request a password reset",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Logout",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/auth/session": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Current session",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/navigate": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "navigation"
                ],
                "summary": "Resolve a view",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/home": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "navigation"
                ],
                "summary": "Home page decision",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/project": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "project"
                ],
                "summary": "Current project",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "put": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "project"
                ],
                "summary": "Replace current project",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "project"
                ],
                "summary": "Clear current project",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/files/process": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "files"
                ],
                "summary": "Process project documents",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/matches/subcontractors": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "matches"
                ],
                "summary": "Match subcontractors",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/matches/subcontractors/from-file": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "matches"
                ],
                "summary": "Match subcontractors for an uploaded project",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/matches/projects": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "matches"
                ],
                "summary": "Match projects for a subcontractor",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/matches/export": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "matches"
                ],
                "summary": "Export matches as CSV",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/subcontractors/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "calls"
                ],
                "summary": "Subcontractor details",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/projects/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "calls"
                ],
                "summary": "Project details",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/builder/contacted-subcontractors": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "calls"
                ],
                "summary": "Contacted subcontractors",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/builder/directory": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "directory"
                ],
                "summary": "Import a subcontractor directory",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/calls": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "calls"
                ],
                "summary": "Start an RFQ call",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "calls"
                ],
                "summary": "Call history",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/calls/webhook": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "calls"
                ],
                "summary": "Trigger the call webhook",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/subcontractor/register": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "subcontractor"
                ],
                "summary": "Register a subcontractor profile",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Liveness check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo is the registered document.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "QuoteMate Gateway API",
	Description:      "Session, access-control and workflow gateway in front of the QuoteMate backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
