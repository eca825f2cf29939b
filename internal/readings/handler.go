package readings

import (
	"fmt"
	"strconv"

	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/auth"
	"scale-monitor-backend/internal/timerange"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /readings?branchId=...&from=...&to=...&limit=...
func ListReadingsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Query("branchId")
		if branchID == "" {
			return apperr.BadRequest("branchId is required")
		}
		r, err := timerange.Parse(c.Query("from"), c.Query("to"))
		if err != nil {
			return err
		}

		var limit int
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return apperr.BadRequest("limit must be an integer")
			}
			limit = n
		}

		items, err := svc.List(c.UserContext(), auth.ActorFrom(c), ListQuery{
			BranchID: branchID,
			Range:    r,
			Limit:    limit,
		})
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// GET /readings/comparison?from=...&to=...
func ComparisonHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := timerange.Parse(c.Query("from"), c.Query("to"))
		if err != nil {
			return err
		}
		items, err := svc.Comparison(c.UserContext(), auth.ActorFrom(c), r)
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// GET /readings/export?branchId=...&from=...&to=...
func ExportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Query("branchId")
		if branchID == "" {
			return apperr.BadRequest("branchId is required")
		}
		r, err := timerange.Parse(c.Query("from"), c.Query("to"))
		if err != nil {
			return err
		}

		data, err := svc.Export(c.UserContext(), auth.ActorFrom(c), branchID, r)
		if err != nil {
			return err
		}

		filename := fmt.Sprintf("readings-%s-%s.xlsx", r.From.Format("20060102"), r.To.Format("20060102"))
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(data)
	}
}
