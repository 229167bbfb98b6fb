package controllers

import (
	"errors"
	"strings"

	"billing-backend/middlewares"
	"billing-backend/models"
	"billing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuthController struct {
	DB   *gorm.DB
	Auth *middlewares.Auth
	Log  logrus.FieldLogger
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type employeeRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /auth/register creates a super admin account and signs it in.
func (a *AuthController) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	utils.NormalizeDTO(&req)

	user := models.User{
		Username: strings.ToLower(req.Email),
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Role:     models.RoleSuperAdmin,
	}
	if err := a.createUser(c, &user, req.Password); err != nil {
		return err
	}

	token, err := a.Auth.GenerateJWT(user.Id, user.Role)
	if err != nil {
		return err
	}
	a.Log.WithField("user", user.Id).Info("super admin registered")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "SuperAdmin registered successfully",
		"token":   token,
		"user":    userView(user),
	})
}

// POST /auth/login
func (a *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var user models.User
	err := a.DB.WithContext(c.UserContext()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return err
	}
	if err := user.ComparePassword(req.Password); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := a.Auth.GenerateJWT(user.Id, user.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    userView(user),
	})
}

// POST /auth/employee/create
func (a *AuthController) CreateEmployee(c *fiber.Ctx) error {
	var req employeeRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	utils.NormalizeDTO(&req)

	user := models.User{
		Username: strings.ToLower(req.Email),
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     models.RoleUser,
	}
	if err := a.createUser(c, &user, req.Password); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Employee created successfully",
		"user":    userView(user),
	})
}

// GET /auth/employee/all
func (a *AuthController) ListEmployees(c *fiber.Ctx) error {
	var users []models.User
	if err := a.DB.WithContext(c.UserContext()).
		Where("role = ?", models.RoleUser).
		Order("name").
		Find(&users).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "All employees fetched successfully",
		"data":    users,
	})
}

func (a *AuthController) createUser(c *fiber.Ctx, user *models.User, password string) error {
	if err := user.SetPassword(password); err != nil {
		return err
	}
	err := a.DB.WithContext(c.UserContext()).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fiber.NewError(fiber.StatusConflict, "Email already exists")
	}
	return err
}

func userView(u models.User) fiber.Map {
	return fiber.Map{"id": u.Id, "email": u.Email, "role": u.Role}
}
