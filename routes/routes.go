package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"billing-backend/controllers"
	"billing-backend/middlewares"
	"billing-backend/models"
)

// Deps carries everything the route table needs. Idempotency and Metrics
// are optional.
type Deps struct {
	Auth        *middlewares.Auth
	Idempotency fiber.Handler
	Metrics     http.Handler

	Users     *controllers.AuthController
	Counters  *controllers.CounterController
	Documents *controllers.DocumentController
	Customers *controllers.CustomerController
	Suppliers *controllers.SupplierController
	Products  *controllers.ProductController

	ImagesDir string
	PdfsDir   string
}

// Register wires all HTTP routes.
func Register(app *fiber.App, d Deps) {
	if d.ImagesDir != "" {
		app.Static("/images", d.ImagesDir)
	}
	if d.PdfsDir != "" {
		app.Static("/pdfs", d.PdfsDir)
	}
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics))
	}

	authn := d.Auth.IsAuthenticatedHeader()
	admin := middlewares.RequireRole(models.RoleSuperAdmin)

	// Public auth endpoints
	auth := app.Group("/auth")
	auth.Post("/register", d.Users.Register)
	auth.Post("/login", d.Users.Login)
	auth.Post("/employee/create", authn, admin, d.Users.CreateEmployee)
	auth.Get("/employee/all", authn, admin, d.Users.ListEmployees)

	// Everything below requires a bearer token; idempotency guard first
	protected := []fiber.Handler{authn}
	if d.Idempotency != nil {
		protected = append(protected, d.Idempotency)
	}

	settings := app.Group("/api/invoicesetting", protected...)
	settings.Get("/", d.Counters.List)
	settings.Get("/get", d.Counters.Get(""))
	settings.Post("/set", admin, d.Counters.Set(""))

	for _, module := range models.Modules {
		g := app.Group("/"+module, protected...)
		g.Get("/invoice-number", d.Counters.Get(module))
		g.Post("/invoice-number", admin, d.Counters.Set(module))
		g.Post("/invoiceincrement", admin, d.Counters.Increment(module))
		if module == models.ModulePurchase {
			g.Post("/invoice-increment", admin, d.Counters.Increment(module))
		}

		g.Post("/create", d.Documents.Create(module))
		g.Get("/getAll", d.Documents.List(module))
		g.Get("/getID/:id", d.Documents.Get(module))
		g.Post("/delete/:id", d.Documents.Delete(module))
		g.Post("/:id/upload-pdf", d.Documents.UploadPdf(module))
	}

	customers := app.Group("/customers", protected...)
	customers.Post("/create", d.Customers.Create)
	customers.Get("/getall", d.Customers.List)
	customers.Get("/:id", d.Customers.Get)
	customers.Post("/update/:id", d.Customers.Update)

	suppliers := app.Group("/supplier", protected...)
	suppliers.Post("/create", d.Suppliers.Create)
	suppliers.Get("/getAll", d.Suppliers.List)
	suppliers.Get("/:id", d.Suppliers.Get)
	suppliers.Post("/update/:id", d.Suppliers.Update)

	products := app.Group("/products", protected...)
	products.Post("/create", d.Products.Create)
	products.Get("/getAll", d.Products.List)
	products.Get("/getProductById/:id", d.Products.Get)
}
