package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"billing-backend/controllers"
	"billing-backend/invoicing"
	"billing-backend/invoicing/invoicingtest"
	"billing-backend/middlewares"
	"billing-backend/models"
	"billing-backend/routes"
	"billing-backend/storage"

	"github.com/gofiber/fiber/v2"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t     *testing.T
	app   *fiber.App
	store *invoicingtest.Store
	user  string
	admin string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	store := invoicingtest.New()
	files, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	auth := middlewares.NewAuth("test-secret", time.Hour)

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler(log)})
	routes.Register(app, routes.Deps{
		Auth:     auth,
		Users:    &controllers.AuthController{Auth: auth, Log: log},
		Counters: &controllers.CounterController{Sequencer: invoicing.NewSequencer(store, log)},
		Documents: &controllers.DocumentController{
			Creator:   invoicing.NewCreator(store, log),
			Documents: store.Documents(),
			Files:     files,
			Log:       log,
		},
		Customers: &controllers.CustomerController{},
		Suppliers: &controllers.SupplierController{},
		Products:  &controllers.ProductController{Files: files, Log: log},
		ImagesDir: files.ImagesDir(),
		PdfsDir:   files.PdfsDir(),
	})

	user, err := auth.GenerateJWT("u-1", models.RoleUser)
	require.NoError(t, err)
	admin, err := auth.GenerateJWT("a-1", models.RoleSuperAdmin)
	require.NoError(t, err)
	return &harness{t: t, app: app, store: store, user: user, admin: admin}
}

func (h *harness) do(req *http.Request, token string) (int, map[string]any) {
	h.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	body := map[string]any{}
	if len(raw) > 0 {
		require.NoError(h.t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func (h *harness) json(method, path, token string, payload any) (int, map[string]any) {
	h.t.Helper()
	var r io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return h.do(req, token)
}

func (h *harness) setCounter(module, prefix string, startFrom any) {
	h.t.Helper()
	status, body := h.json(fiber.MethodPost, "/"+module+"/invoice-number", h.admin, map[string]any{
		"prefix":    prefix,
		"startFrom": startFrom,
	})
	require.Equal(h.t, fiber.StatusOK, status, body)
}

func performaBody() map[string]any {
	return map[string]any{
		"customerId":              "c-1",
		"productIds":              []string{"p-1", "p-2"},
		"date":                    "2024-05-01",
		"modeOrTermsOfPayment":    "30 days",
		"salesPerson":             "Asha",
		"dispatchedThrough":       "Road",
		"destination":             "Pune",
		"termsOfDelivery":         "FOB",
		"taxType":                 "GST",
		"freightAndCartageAmount": 125.5,
	}
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, body)
	return d
}

func TestRoutes_RequireToken(t *testing.T) {
	h := newHarness(t)
	status, _ := h.json(fiber.MethodGet, "/performa/getAll", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRoutes_CounterLifecycle(t *testing.T) {
	h := newHarness(t)

	status, _ := h.json(fiber.MethodGet, "/performa/invoice-number", h.user, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = h.json(fiber.MethodPost, "/performa/invoice-number", h.user, map[string]any{"prefix": "PI", "startFrom": 1})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = h.json(fiber.MethodPost, "/performa/invoice-number", h.admin, map[string]any{"prefix": "PI", "startFrom": "abc"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.json(fiber.MethodPost, "/performa/invoice-number", h.admin, map[string]any{"prefix": "", "startFrom": 1})
	assert.Equal(t, fiber.StatusBadRequest, status)

	h.setCounter(models.ModulePerforma, "PI", "1")

	status, body := h.json(fiber.MethodGet, "/performa/invoice-number", h.user, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "PI-1", body["invoiceNo"])

	status, body = h.json(fiber.MethodPost, "/performa/invoiceincrement", h.admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 2, body["currentNumber"])

	status, _ = h.json(fiber.MethodPost, "/quotation/invoiceincrement", h.admin, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestRoutes_PurchaseIncrementAlias(t *testing.T) {
	h := newHarness(t)
	h.setCounter(models.ModulePurchase, "PO", 5)

	status, body := h.json(fiber.MethodPost, "/purchase/invoice-increment", h.admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 6, body["currentNumber"])
}

func TestRoutes_InvoiceSettings(t *testing.T) {
	h := newHarness(t)

	status, _ := h.json(fiber.MethodGet, "/api/invoicesetting/get", h.user, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.json(fiber.MethodPost, "/api/invoicesetting/set", h.admin, map[string]any{
		"module": "quotation", "prefix": "QT", "startFrom": 10,
	})
	require.Equal(t, fiber.StatusOK, status)

	status, body := h.json(fiber.MethodGet, "/api/invoicesetting/get?module=quotation", h.user, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "QT-10", body["invoiceNo"])

	status, _ = h.json(fiber.MethodGet, "/api/invoicesetting/get?module=invoice", h.user, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = h.json(fiber.MethodGet, "/api/invoicesetting", h.user, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)
}

func TestRoutes_CreatePerforma(t *testing.T) {
	h := newHarness(t)
	h.setCounter(models.ModulePerforma, "PI", 1)

	status, body := h.json(fiber.MethodPost, "/performa/create", h.user, performaBody())
	require.Equal(t, fiber.StatusCreated, status, body)
	doc := data(t, body)
	assert.Equal(t, "PI-1", doc["invoiceNo"])
	assert.Equal(t, "u-1", doc["createdBy"])
	assert.Equal(t, "Performa created", body["message"])

	status, body = h.json(fiber.MethodGet, "/performa/getID/"+doc["id"].(string), h.user, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "PI-1", data(t, body)["invoiceNo"])

	status, _ = h.json(fiber.MethodGet, "/performa/getID/nope", h.user, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	counter, _ := h.store.Counter(models.ModulePerforma)
	assert.Equal(t, int64(2), counter.CurrentNumber)
}

func TestRoutes_CreateListsMissingFields(t *testing.T) {
	h := newHarness(t)
	h.setCounter(models.ModulePerforma, "PI", 1)

	payload := performaBody()
	delete(payload, "customerId")
	delete(payload, "productIds")
	status, body := h.json(fiber.MethodPost, "/performa/create", h.user, payload)
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.ElementsMatch(t, []any{"customerId", "productIds"}, body["missing"])

	counter, _ := h.store.Counter(models.ModulePerforma)
	assert.Equal(t, int64(1), counter.CurrentNumber)
}

func TestRoutes_CreateUnconfigured(t *testing.T) {
	h := newHarness(t)
	status, _ := h.json(fiber.MethodPost, "/performa/create", h.user, performaBody())
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Zero(t, h.store.Count(models.ModulePerforma))
}

func TestRoutes_CreateMultipartWithPdf(t *testing.T) {
	h := newHarness(t)
	h.setCounter(models.ModulePerforma, "PI", 7)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range performaBody() {
		switch v := v.(type) {
		case []string:
			for _, item := range v {
				require.NoError(t, w.WriteField(k, item))
			}
		case string:
			require.NoError(t, w.WriteField(k, v))
		default:
			require.NoError(t, w.WriteField(k, "125.50"))
		}
	}
	part, err := w.CreateFormFile("pdfFile", "offer.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4\n%%EOF\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/performa/create", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	status, body := h.do(req, h.user)
	require.Equal(t, fiber.StatusCreated, status, body)

	doc := data(t, body)
	assert.Equal(t, "PI-7", doc["invoiceNo"])
	assert.ElementsMatch(t, []any{"p-1", "p-2"}, doc["productIds"])
	assert.True(t, strings.HasPrefix(doc["pdfFile"].(string), "/pdfs/performa/"), doc["pdfFile"])
}

func TestRoutes_DeleteKeepsCounter(t *testing.T) {
	h := newHarness(t)
	h.setCounter(models.ModulePerforma, "PI", 1)

	_, body := h.json(fiber.MethodPost, "/performa/create", h.user, performaBody())
	id := data(t, body)["id"].(string)

	status, _ := h.json(fiber.MethodPost, "/performa/delete/"+id, h.user, nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = h.json(fiber.MethodPost, "/performa/delete/"+id, h.user, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = h.json(fiber.MethodGet, "/performa/invoice-number", h.user, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "PI-2", body["invoiceNo"])

	status, body = h.json(fiber.MethodGet, "/performa/getAll", h.user, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["data"])
}

func TestRoutes_UploadPdf(t *testing.T) {
	h := newHarness(t)
	h.setCounter(models.ModulePerforma, "PI", 1)
	_, body := h.json(fiber.MethodPost, "/performa/create", h.user, performaBody())
	id := data(t, body)["id"].(string)

	status, _ := h.json(fiber.MethodPost, "/performa/"+id+"/upload-pdf", h.user, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("pdfFile", "signed.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4\n%%EOF\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/performa/"+id+"/upload-pdf", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	status, body = h.do(req, h.user)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.True(t, strings.HasPrefix(data(t, body)["pdfFile"].(string), "/pdfs/performa/"))
	assert.Equal(t, "PI-1", data(t, body)["invoiceNo"], "invoice number is immutable")
}
