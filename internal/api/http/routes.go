package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/skycast/internal/store"
	"github.com/i474232898/skycast/internal/weather"
)

var validate = validator.New()

// Resolver is the pipeline as seen by the HTTP layer.
type Resolver interface {
	ResolveByCity(ctx context.Context, query string) (weather.View, error)
	ResolveByCoordinates(ctx context.Context, coords weather.Coordinates, knownName string) (weather.View, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service Resolver, sessions *store.MemoryStore) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := service.ResolveByCity(c.UserContext(), q.City)
		if err != nil {
			return failureResponse(c, err)
		}
		return c.JSON(view)
	})

	v1.Get("/weather/coordinates", func(c *fiber.Ctx) error {
		q, err := parseCoordinatesQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := service.ResolveByCoordinates(c.UserContext(), q.coordinates(), q.Name)
		if err != nil {
			return failureResponse(c, err)
		}
		return c.JSON(view)
	})

	v1.Post("/sessions", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusCreated).JSON(sessions.Create())
	})

	v1.Get("/sessions/:id", func(c *fiber.Ctx) error {
		board, err := sessions.Get(c.Params("id"))
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(board)
	})

	v1.Post("/sessions/:id/search", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return runSequenced(c, sessions, func(ctx context.Context) (weather.View, error) {
			return service.ResolveByCity(ctx, q.City)
		})
	})

	v1.Post("/sessions/:id/locate", func(c *fiber.Ctx) error {
		q, err := parseCoordinatesQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return runSequenced(c, sessions, func(ctx context.Context) (weather.View, error) {
			return service.ResolveByCoordinates(ctx, q.coordinates(), q.Name)
		})
	})
}

// sequencedResponse reports whether this request's outcome reached the board.
type sequencedResponse struct {
	Sequence uint64          `json:"sequence"`
	Applied  bool            `json:"applied"`
	Outcome  weather.Outcome `json:"outcome"`
	Board    store.Board     `json:"board"`
}

// runSequenced resolves on behalf of a session. Only the newest request of a
// session may change what the session displays.
func runSequenced(c *fiber.Ctx, sessions *store.MemoryStore, resolve func(context.Context) (weather.View, error)) error {
	id := c.Params("id")
	token, err := sessions.Begin(id)
	if err != nil {
		return sessionError(err)
	}

	outcome := weather.NewOutcome(resolve(c.UserContext()))

	board, applied, err := sessions.Complete(id, token, outcome)
	if err != nil {
		return sessionError(err)
	}

	return c.JSON(sequencedResponse{
		Sequence: token,
		Applied:  applied,
		Outcome:  outcome,
		Board:    board,
	})
}

func failureResponse(c *fiber.Ctx, err error) error {
	out := weather.NewOutcome(weather.View{}, err)

	code := fiber.StatusBadGateway
	if out.Kind == weather.KindLocationNotFound {
		code = fiber.StatusNotFound
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"kind":    out.Kind,
		"message": out.Message,
	})
}

func sessionError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "unknown session")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "session store failure")
}

// cityQuery holds the free-text city for a lookup.
type cityQuery struct {
	City string `validate:"required,max=200"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	q := cityQuery{City: strings.TrimSpace(c.Query("city"))}
	if err := validate.Struct(q); err != nil {
		return q, queryError(err)
	}
	return q, nil
}

// coordinatesQuery holds query parameters for a coordinate lookup.
type coordinatesQuery struct {
	Lat  float64 `validate:"gte=-90,lte=90"`
	Lon  float64 `validate:"gte=-180,lte=180"`
	Name string  `validate:"max=200"`
}

func (q coordinatesQuery) coordinates() weather.Coordinates {
	return weather.Coordinates{Latitude: q.Lat, Longitude: q.Lon}
}

func parseCoordinatesQuery(c *fiber.Ctx) (coordinatesQuery, error) {
	var q coordinatesQuery

	lat, err := parseFloat(c.Query("lat"), "lat")
	if err != nil {
		return q, err
	}
	lon, err := parseFloat(c.Query("lon"), "lon")
	if err != nil {
		return q, err
	}

	q.Lat = lat
	q.Lon = lon
	q.Name = strings.TrimSpace(c.Query("name"))

	if err := validate.Struct(q); err != nil {
		return q, queryError(err)
	}
	return q, nil
}

// queryError turns a validator failure into a message naming the query
// parameter, e.g. "city query parameter is required".
func queryError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.New("invalid query parameters")
	}

	fe := verrs[0]
	param := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s query parameter is required", param)
	case "max":
		return fmt.Errorf("%s must be at most %s characters", param, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be at least %s", param, fe.Param())
	case "lte":
		return fmt.Errorf("%s must be at most %s", param, fe.Param())
	default:
		return fmt.Errorf("invalid %s", param)
	}
}

func parseFloat(s, name string) (float64, error) {
	if s == "" {
		return 0, errors.New(name + " query parameter is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("invalid " + name + "; use decimal degrees")
	}
	return v, nil
}
