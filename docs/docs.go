// Package docs registers the OpenAPI document served under /swagger.
//
// Regenerate with `swag init -g cmd/daytracker/main.go` after changing handler
// annotations; this file only needs to stay importable in between.
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
        "/records": {
            "get": {"tags": ["Records"], "summary": "List daily records (paginated)", "operationId": "listRecords", "responses": {"200": {"description": "OK"}, "304": {"description": "Not Modified"}}},
            "post": {"tags": ["Records"], "summary": "Create a daily record", "operationId": "createRecord", "responses": {"201": {"description": "Created"}, "200": {"description": "Replayed result"}, "409": {"description": "A record already exists for this date"}}}
        },
        "/records/{id}": {
            "get": {"tags": ["Records"], "summary": "Get a daily record", "operationId": "getRecord", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Record not found"}}},
            "delete": {"tags": ["Records"], "summary": "Delete a daily record", "operationId": "deleteRecord", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Record not found"}}}
        },
        "/records/{id}/meals": {
            "get": {"tags": ["Entries"], "summary": "List a record's meals", "operationId": "listMeals", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Entries"], "summary": "Log a meal", "operationId": "addMeal", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/records/{id}/activities": {
            "get": {"tags": ["Entries"], "summary": "List a record's activities", "operationId": "listActivities", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Entries"], "summary": "Log an activity", "operationId": "addActivity", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/records/{id}/moods": {
            "get": {"tags": ["Entries"], "summary": "List a record's mood events", "operationId": "listMoods", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Entries"], "summary": "Log a mood event", "operationId": "addMood", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/analytics/features": {"get": {"tags": ["Analytics"], "summary": "Per-day features", "operationId": "analyticsFeatures", "responses": {"200": {"description": "OK"}}}},
        "/analytics/correlations": {"get": {"tags": ["Analytics"], "summary": "Correlations with overall mood", "operationId": "analyticsCorrelations", "responses": {"200": {"description": "OK"}, "422": {"description": "Not enough data yet"}}}},
        "/analytics/recommendations": {"get": {"tags": ["Analytics"], "summary": "Personalised recommendations", "operationId": "analyticsRecommendations", "responses": {"200": {"description": "OK"}}}},
        "/analytics/overview": {"get": {"tags": ["Analytics"], "summary": "Totals and averages", "operationId": "analyticsOverview", "responses": {"200": {"description": "OK"}}}},
        "/analytics/daily/{date}": {"get": {"tags": ["Analytics"], "summary": "One day's summary", "operationId": "analyticsDaily", "parameters": [{"type": "string", "name": "date", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/analytics/weekly/{start}": {"get": {"tags": ["Analytics"], "summary": "Seven-day report", "operationId": "analyticsWeekly", "parameters": [{"type": "string", "name": "start", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/analytics/model": {"get": {"tags": ["Analytics"], "summary": "Current mood model", "operationId": "analyticsModel", "responses": {"200": {"description": "OK"}, "409": {"description": "Model not trained"}}}},
        "/analytics/model/train": {"post": {"tags": ["Analytics"], "summary": "Train the mood model", "operationId": "analyticsTrain", "responses": {"200": {"description": "OK"}, "422": {"description": "Not enough data yet"}}}},
        "/analytics/model/predict": {"post": {"tags": ["Analytics"], "summary": "Predict overall mood", "operationId": "analyticsPredict", "responses": {"200": {"description": "OK"}, "409": {"description": "Model not trained"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Day Tracker API",
	Description:      "Daily records, meals, activities, moods and the analytics derived from them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
