package controllers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"

	"billing-backend/invoicing"
	"billing-backend/middlewares"
	"billing-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const attachmentField = "pdfFile"

var moduleTitles = map[string]string{
	models.ModulePerforma:  "Performa",
	models.ModuleQuotation: "Quotation",
	models.ModulePurchase:  "Purchase",
}

// Attachments stores uploaded files and returns their public path.
type Attachments interface {
	SaveUpload(module string, fh *multipart.FileHeader) (string, error)
	Remove(path string) error
}

// DocumentController serves the numbered documents of every module.
// Handlers are built per module by the route table.
type DocumentController struct {
	Creator   *invoicing.Creator
	Documents invoicing.DocumentStore
	Files     Attachments
	Log       logrus.FieldLogger
}

// POST /<module>/create
func (d *DocumentController) Create(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields, err := requestFields(c)
		if err != nil {
			return err
		}

		attachment, err := d.saveAttachment(c, module)
		if err != nil {
			return err
		}

		doc, err := d.Creator.Create(c.UserContext(), module, fields, invoicing.CreateOptions{
			Attachment: attachment,
			CreatedBy:  middlewares.UserID(c),
		})
		if err != nil {
			if attachment != "" && !errors.Is(err, invoicing.ErrInconsistency) {
				discardUpload(d.Files, d.Log, attachment)
			}
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": moduleTitles[module] + " created",
			"data":    doc,
		})
	}
}

// GET /<module>/getAll
func (d *DocumentController) List(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := d.Documents.List(c.UserContext(), module)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"message": moduleTitles[module] + "s fetched successfully",
			"data":    docs,
		})
	}
}

// GET /<module>/getID/:id
func (d *DocumentController) Get(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := d.Documents.Get(c.UserContext(), module, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": doc})
	}
}

// POST /<module>/delete/:id
//
// The module counter is not touched: deleted numbers are never reissued.
func (d *DocumentController) Delete(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := d.Documents.Delete(c.UserContext(), module, id); err != nil {
			return err
		}
		d.Log.WithFields(logrus.Fields{"module": module, "id": id}).Info("document deleted")
		return c.JSON(fiber.Map{"message": moduleTitles[module] + " deleted"})
	}
}

// POST /<module>/:id/upload-pdf
func (d *DocumentController) UploadPdf(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		attachment, err := d.saveAttachment(c, module)
		if err != nil {
			return err
		}
		if attachment == "" {
			return fiber.NewError(fiber.StatusBadRequest, "No file uploaded")
		}
		doc, err := d.Documents.SetAttachment(c.UserContext(), module, c.Params("id"), attachment)
		if err != nil {
			discardUpload(d.Files, d.Log, attachment)
			return err
		}
		return c.JSON(fiber.Map{"message": "PDF uploaded successfully", "data": doc})
	}
}

func (d *DocumentController) saveAttachment(c *fiber.Ctx, module string) (string, error) {
	if !isMultipart(c) {
		return "", nil
	}
	fh, err := c.FormFile(attachmentField)
	if err != nil {
		// no file part
		return "", nil
	}
	return d.Files.SaveUpload(module, fh)
}

// discardUpload removes a stored file that no record refers to.
func discardUpload(files Attachments, log logrus.FieldLogger, path string) {
	if err := files.Remove(path); err != nil {
		log.WithError(err).WithField("path", path).Warn("could not remove orphaned attachment")
	}
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// requestFields flattens a JSON, multipart or urlencoded body into
// invoicing.Fields. JSON arrays and numbers keep their JSON text; repeated
// form values become a JSON array.
func requestFields(c *fiber.Ctx) (invoicing.Fields, error) {
	fields := invoicing.Fields{}
	contentType := string(c.Request().Header.ContentType())

	switch {
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid multipart form")
		}
		for name, values := range form.Value {
			fields[name] = formValue(values)
		}
	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		values := map[string][]string{}
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			values[string(k)] = append(values[string(k)], string(v))
		})
		for name, v := range values {
			fields[name] = formValue(v)
		}
	default:
		if len(c.Body()) == 0 {
			return fields, nil
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &raw); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		for name, v := range raw {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				fields[name] = s
				continue
			}
			if text := strings.TrimSpace(string(v)); text != "null" {
				fields[name] = text
			}
		}
	}
	return fields, nil
}

func formValue(values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	}
	b, _ := json.Marshal(values)
	return string(b)
}
