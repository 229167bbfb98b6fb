package controllers

import (
	"encoding/json"
	"strings"

	"billing-backend/invoicing"
	"billing-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// CounterController exposes the invoice counters. Handlers built with an
// empty module read it from the request instead.
type CounterController struct {
	Sequencer *invoicing.Sequencer
}

type setCounterRequest struct {
	Module    string          `json:"module"`
	Prefix    string          `json:"prefix"`
	StartFrom json.RawMessage `json:"startFrom"`
}

// GET /<module>/invoice-number, GET /api/invoicesetting/get?module=
//
// Returns the number the next document will receive.
func (cc *CounterController) Get(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m := module
		if m == "" {
			m = strings.TrimSpace(c.Query("module"))
			if m == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Module is required as query parameter")
			}
		}
		counter, err := cc.Sequencer.Current(c.UserContext(), m)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"invoiceNo": counter.NextInvoiceNo()})
	}
}

// POST /<module>/invoice-number, POST /api/invoicesetting/set
func (cc *CounterController) Set(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req setCounterRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		m := module
		if m == "" {
			m = strings.TrimSpace(req.Module)
		}
		if m == "" || strings.TrimSpace(req.Prefix) == "" || len(req.StartFrom) == 0 || string(req.StartFrom) == "null" {
			return fiber.NewError(fiber.StatusBadRequest, "module, prefix and startFrom are required")
		}
		startFrom, ok := parseStartFrom(req.StartFrom)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "startFrom must be a number")
		}

		counter, err := cc.Sequencer.Set(c.UserContext(), m, req.Prefix, startFrom)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Invoice number set successfully", "data": counter})
	}
}

// POST /<module>/invoiceincrement
func (cc *CounterController) Increment(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		issued, err := cc.Sequencer.Increment(c.UserContext(), module)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"message":       "Invoice number incremented",
			"currentNumber": issued + 1,
		})
	}
}

// GET /api/invoicesetting
func (cc *CounterController) List(c *fiber.Ctx) error {
	counters, err := cc.Sequencer.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counters})
}

// parseStartFrom accepts 100 as well as "100".
func parseStartFrom(raw json.RawMessage) (int64, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	return utils.ParseInt64(s)
}
