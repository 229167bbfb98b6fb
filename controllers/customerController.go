package controllers

import (
	"errors"
	"slices"

	"billing-backend/middlewares"
	"billing-backend/models"
	"billing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// partyDTO is the request body shared by customers and suppliers.
type partyDTO struct {
	Name   string   `json:"name" validate:"required"`
	Phone  string   `json:"phone"`
	Names  []string `json:"names"`
	Phones []string `json:"phones"`
	ShipTo string   `json:"shipTo"`
	BillTo string   `json:"billTo"`
	Status string   `json:"status"`
}

type partyUpdateDTO struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	ShipTo *string `json:"shipTo"`
	BillTo *string `json:"billTo"`
	Status *string `json:"status"`
}

func bindParty(c *fiber.Ctx) (partyDTO, error) {
	var dto partyDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return dto, err
	}
	utils.NormalizeDTO(&dto)
	if dto.Status != "" && !slices.Contains(models.LeadStatuses, dto.Status) {
		return dto, fiber.NewError(fiber.StatusBadRequest, "unknown status")
	}
	return dto, nil
}

func bindPartyUpdate(c *fiber.Ctx) (map[string]any, error) {
	var dto partyUpdateDTO
	if err := c.BodyParser(&dto); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	updates := utils.UpdatesFromPtrDTO(&dto)
	if len(updates) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	if s, ok := updates["status"].(string); ok && !slices.Contains(models.LeadStatuses, s) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "unknown status")
	}
	return updates, nil
}

type CustomerController struct {
	DB *gorm.DB
}

// POST /customers/create
func (cc *CustomerController) Create(c *fiber.Ctx) error {
	dto, err := bindParty(c)
	if err != nil {
		return err
	}
	customer := models.Customer{
		Name:   dto.Name,
		Phone:  dto.Phone,
		Names:  dto.Names,
		Phones: dto.Phones,
		ShipTo: dto.ShipTo,
		BillTo: dto.BillTo,
		Status: dto.Status,
	}
	if err := cc.DB.WithContext(c.UserContext()).Create(&customer).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Customer created successfully",
		"customer": customer,
	})
}

// GET /customers/getall
func (cc *CustomerController) List(c *fiber.Ctx) error {
	var customers []models.Customer
	if err := cc.DB.WithContext(c.UserContext()).Order("created_at DESC").Find(&customers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Customers fetched successfully",
		"data":    customers,
	})
}

// GET /customers/:id
func (cc *CustomerController) Get(c *fiber.Ctx) error {
	var customer models.Customer
	err := cc.DB.WithContext(c.UserContext()).First(&customer, "id = ?", c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Customer not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customer})
}

// POST /customers/update/:id
func (cc *CustomerController) Update(c *fiber.Ctx) error {
	updates, err := bindPartyUpdate(c)
	if err != nil {
		return err
	}
	db := cc.DB.WithContext(c.UserContext())
	res := db.Model(&models.Customer{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Customer not found")
	}
	var customer models.Customer
	if err := db.First(&customer, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Customer updated successfully", "data": customer})
}
