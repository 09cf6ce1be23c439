package helper

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/matryer/is"
)

func decode(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return resp.StatusCode, out
}

func TestEnvelopes(t *testing.T) {
	is := is.New(t)
	app := fiber.New()
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return JsonErrorFrom(c, fiber.NewError(fiber.StatusNotFound, "Image not found"))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return JsonErrorFrom(c, errors.New("pq: connection refused"))
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		var req struct {
			Name string `validate:"required"`
		}
		return JsonValidationError(c, validator.New().Struct(req))
	})
	app.Get("/list", func(c *fiber.Ctx) error {
		p := NewPaging(2, 2, DefaultLimit, MaxLimit)
		return JsonList(c, "", []int{1, 2}, BuildPagination(5, p))
	})
	app.Get("/deleted", func(c *fiber.Ctx) error {
		return JsonDeleted(c, "", nil)
	})

	status, body := decode(t, app, "/fiber")
	is.Equal(status, fiber.StatusNotFound)
	is.Equal(body["success"], false)
	is.Equal(body["message"], "Image not found")
	is.Equal(body["error_code"], "NOT_FOUND")

	status, body = decode(t, app, "/plain")
	is.Equal(status, fiber.StatusInternalServerError)
	is.Equal(body["message"], "Internal server error") // detail stays out

	status, body = decode(t, app, "/validation")
	is.Equal(status, fiber.StatusBadRequest)
	is.Equal(body["error_code"], "VALIDATION_ERROR")
	is.Equal(body["errors"].(map[string]any)["Name"], "required")

	status, body = decode(t, app, "/list")
	is.Equal(status, fiber.StatusOK)
	is.Equal(body["count"], float64(2))
	is.Equal(body["total"], float64(5))
	pg := body["pagination"].(map[string]any)
	is.Equal(pg["total_pages"], float64(3))
	is.Equal(pg["has_next"], true)
	is.Equal(pg["has_prev"], true)

	status, body = decode(t, app, "/deleted")
	is.Equal(status, fiber.StatusOK)
	is.Equal(body["message"], "deleted")
	_, hasData := body["data"]
	is.True(!hasData)
}

func TestNewPagingClamps(t *testing.T) {
	is := is.New(t)

	p := NewPaging(0, 0, DefaultLimit, MaxLimit)
	is.Equal(p, Paging{Page: 1, Limit: DefaultLimit, Offset: 0})

	p = NewPaging(3, 500, DefaultLimit, MaxLimit)
	is.Equal(p, Paging{Page: 3, Limit: MaxLimit, Offset: 200})

	pg := BuildPagination(0, NewPaging(1, 10, DefaultLimit, MaxLimit))
	is.Equal(pg.TotalPages, 0)
	is.True(!pg.HasNext)
}
