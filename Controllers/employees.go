package Controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Agenda/Models"
)

// EmployeeController manages the focal point pool
type EmployeeController struct {
	DB *gorm.DB
}

// NewEmployeeController creates a new EmployeeController
func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{DB: db}
}

// GetEmployees retrieves all assignable employees
func (c *EmployeeController) GetEmployees(ctx *fiber.Ctx) error {
	var employees []Models.Employee
	result := c.DB.Order("name asc").Find(&employees)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to retrieve employees"})
	}

	return ctx.JSON(employees)
}

// CreateEmployee adds an employee to the pool
func (c *EmployeeController) CreateEmployee(ctx *fiber.Ctx) error {
	var input Models.Employee
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if strings.TrimSpace(input.Name) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Name is required"})
	}

	employee := Models.Employee{
		Name:  input.Name,
		Email: input.Email,
	}
	if result := c.DB.Create(&employee); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create employee"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(employee)
}

// UpdateEmployee updates an employee's contact data
func (c *EmployeeController) UpdateEmployee(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid employee ID"})
	}

	var employee Models.Employee
	if result := c.DB.First(&employee, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Employee not found"})
	}

	var input Models.Employee
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	c.DB.Model(&employee).Updates(Models.Employee{
		Name:  input.Name,
		Email: input.Email,
	})

	return ctx.JSON(employee)
}

// DeleteEmployee removes an employee from the pool
func (c *EmployeeController) DeleteEmployee(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid employee ID"})
	}

	var employee Models.Employee
	if result := c.DB.First(&employee, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Employee not found"})
	}

	c.DB.Delete(&employee)

	return ctx.JSON(fiber.Map{"message": "Employee deleted successfully"})
}
