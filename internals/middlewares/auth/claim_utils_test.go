package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/matryer/is"
)

func TestExtractBearerToken(t *testing.T) {
	is := is.New(t)

	cases := []struct {
		header, cookie string
		want           string
		ok             bool
	}{
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "bearer   \"abc\"", want: "abc", ok: true},
		{cookie: "fromcookie", want: "fromcookie", ok: true},
		{header: "Basic abc"},
		{header: "Bearer"},
		{},
	}

	for _, tc := range cases {
		app := fiber.New()
		var got string
		var gotErr error
		app.Get("/", func(c *fiber.Ctx) error {
			got, gotErr = extractBearerToken(c)
			return nil
		})
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if tc.cookie != "" {
			req.Header.Set("Cookie", "access_token="+tc.cookie)
		}
		_, err := app.Test(req, -1)
		is.NoErr(err)
		is.Equal(gotErr == nil, tc.ok)
		if tc.ok {
			is.Equal(got, tc.want)
		}
	}
}

func TestOnlyRoles(t *testing.T) {
	is := is.New(t)

	run := func(role string) int {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			if role != "" {
				c.Locals(LocalRole, role)
			}
			return c.Next()
		}, OnlyRoles("", "admin", "editor"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusNoContent)
		})
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
		is.NoErr(err)
		return resp.StatusCode
	}

	is.Equal(run("admin"), fiber.StatusNoContent)
	is.Equal(run("editor"), fiber.StatusNoContent)
	is.Equal(run("user"), fiber.StatusForbidden)
	is.Equal(run(""), fiber.StatusUnauthorized)
}
