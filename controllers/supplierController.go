package controllers

import (
	"errors"

	"billing-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SupplierController struct {
	DB *gorm.DB
}

// POST /supplier/create
func (sc *SupplierController) Create(c *fiber.Ctx) error {
	dto, err := bindParty(c)
	if err != nil {
		return err
	}
	supplier := models.Supplier{
		Name:   dto.Name,
		Phone:  dto.Phone,
		Names:  dto.Names,
		Phones: dto.Phones,
		ShipTo: dto.ShipTo,
		BillTo: dto.BillTo,
		Status: dto.Status,
	}
	if err := sc.DB.WithContext(c.UserContext()).Create(&supplier).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Supplier created successfully",
		"data":    supplier,
	})
}

// GET /supplier/getAll
func (sc *SupplierController) List(c *fiber.Ctx) error {
	var suppliers []models.Supplier
	if err := sc.DB.WithContext(c.UserContext()).Order("created_at DESC").Find(&suppliers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": suppliers})
}

// GET /supplier/:id
func (sc *SupplierController) Get(c *fiber.Ctx) error {
	var supplier models.Supplier
	err := sc.DB.WithContext(c.UserContext()).First(&supplier, "id = ?", c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": supplier})
}

// POST /supplier/update/:id
func (sc *SupplierController) Update(c *fiber.Ctx) error {
	updates, err := bindPartyUpdate(c)
	if err != nil {
		return err
	}
	db := sc.DB.WithContext(c.UserContext())
	res := db.Model(&models.Supplier{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
	}
	var supplier models.Supplier
	if err := db.First(&supplier, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Supplier updated successfully", "data": supplier})
}
