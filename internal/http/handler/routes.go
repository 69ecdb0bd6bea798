package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"babytracker/internal/model"
	"babytracker/internal/service"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CreateResponse is returned by every create endpoint.
type CreateResponse struct {
	ID string `json:"id"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// store may be nil when no document store is configured; exports may be nil when object storage is not configured.
func RegisterRoutes(app *fiber.App, store Pinger, records service.RecordGateway, exports service.ExportService) {
	app.Get("/", Root())
	app.Get("/test", TestDatabase(records))

	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	api.Post("/babies", CreateRecord(records, model.CollectionBaby))
	api.Get("/babies", ListRecords(records, model.CollectionBaby, false))

	api.Post("/milestones", CreateRecord(records, model.CollectionMilestone))
	api.Get("/milestones", ListRecords(records, model.CollectionMilestone, true))

	api.Post("/growth", CreateRecord(records, model.CollectionGrowthRecord))
	api.Get("/growth", ListRecords(records, model.CollectionGrowthRecord, true))

	if exports != nil {
		api.Post("/exports/:collection", ExportCollection(exports))
	}
}

// Root godoc
// @Summary API banner
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Baby Development Tracker API"})
	}
}

// TestDatabase godoc
// @Summary Document store diagnostics
// @Tags meta
// @Produce json
// @Success 200 {object} service.Diagnostics
// @Router /test [get]
func TestDatabase(records service.RecordGateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(records.Diagnose(c.UserContext()))
	}
}

// HealthCheck checks document store connectivity only.
func HealthCheck(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple process liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// CreateRecord decodes the request body into the schema registered for collection and stores it.
//
// @Summary Create a record
// @Tags records
// @Accept json
// @Produce json
// @Success 200 {object} CreateResponse
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/babies [post]
// @Router /api/milestones [post]
// @Router /api/growth [post]
func CreateRecord(records service.RecordGateway, collection string) fiber.Handler {
	schema, ok := model.LookupSchema(collection)
	if !ok {
		panic(fmt.Sprintf("handler: no schema registered for collection %q", collection))
	}

	return func(c *fiber.Ctx) error {
		rec := schema.New()
		if err := json.Unmarshal(c.Body(), rec); err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid request body: "+err.Error())
		}

		id, err := records.Create(c.UserContext(), collection, rec)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(CreateResponse{ID: id})
	}
}

// ListRecords returns every document of collection. When filterable, a non-empty baby_id
// query parameter restricts the result to that baby.
//
// @Summary List records
// @Tags records
// @Produce json
// @Param baby_id query string false "Only records of this baby (milestones and growth)"
// @Success 200 {array} map[string]interface{}
// @Failure 500 {object} errorPayload
// @Router /api/babies [get]
// @Router /api/milestones [get]
// @Router /api/growth [get]
func ListRecords(records service.RecordGateway, collection string, filterable bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter model.Filter
		if filterable {
			if babyID := c.Query("baby_id"); babyID != "" {
				filter = model.Filter{"baby_id": babyID}
			}
		}

		docs, err := records.List(c.UserContext(), collection, filter)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(docs)
	}
}

// ExportCollection writes a collection snapshot to object storage.
//
// @Summary Export a collection
// @Tags exports
// @Produce json
// @Param collection path string true "baby, milestone or growthrecord"
// @Success 201 {object} service.ExportResult
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/exports/{collection} [post]
func ExportCollection(exports service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := exports.Export(c.UserContext(), c.Params("collection"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
