package controllers

import (
	"errors"
	"strings"

	"billing-backend/middlewares"
	"billing-backend/models"
	"billing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const imageField = "image"

type productInput struct {
	Description string `json:"description" form:"description" validate:"required"`
	HsnUom      string `json:"hsn_uom" form:"hsn_uom" validate:"required"`
	Uom         string `json:"uom" form:"uom" validate:"required"`
	Rate        string `json:"rate" form:"rate" validate:"required"`
}

type ProductController struct {
	DB    *gorm.DB
	Files Attachments
	Log   logrus.FieldLogger
}

// POST /products/create (multipart, image required)
func (pc *ProductController) Create(c *fiber.Ctx) error {
	var in productInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	rate, err := decimal.NewFromString(in.Rate)
	if err != nil || rate.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "rate must be a non-negative number")
	}

	fh, err := c.FormFile(imageField)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Image file is required.")
	}
	imagePath, err := pc.Files.SaveUpload("", fh)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(imagePath, "/images/") {
		discardUpload(pc.Files, pc.Log, imagePath)
		return fiber.NewError(fiber.StatusBadRequest, "Image file is required.")
	}

	product := models.Product{
		Description: in.Description,
		HsnUom:      in.HsnUom,
		Uom:         in.Uom,
		Rate:        rate.Round(2),
		ImagePath:   imagePath,
	}
	if err := pc.DB.WithContext(c.UserContext()).Create(&product).Error; err != nil {
		discardUpload(pc.Files, pc.Log, imagePath)
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully.",
		"product": product,
	})
}

// GET /products/getAll
func (pc *ProductController) List(c *fiber.Ctx) error {
	var products []models.Product
	if err := pc.DB.WithContext(c.UserContext()).Order("created_at DESC").Find(&products).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// GET /products/getProductById/:id
func (pc *ProductController) Get(c *fiber.Ctx) error {
	var product models.Product
	err := pc.DB.WithContext(c.UserContext()).First(&product, "id = ?", c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Product not found.")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}
