package handlers

import (
	"errors"

	"katalog/internal/editor"
	"katalog/internal/messages"
	"katalog/internal/services"
	"katalog/internal/session"
	"katalog/internal/views"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CatalogHandler serves the editor page and the actions posted from it.
type CatalogHandler struct {
	sessions *session.Manager
	tokens   *session.Tokens
	msgs     messages.Set
	logger   *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(sessions *session.Manager, tokens *session.Tokens, msgs messages.Set, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		sessions: sessions,
		tokens:   tokens,
		msgs:     msgs,
		logger:   logger,
	}
}

type submitForm struct {
	Session string `form:"session"`
	Name    string `form:"name"`
	Price   string `form:"price"`
}

type actionForm struct {
	Session   string `form:"session"`
	Item      string `form:"item"`
	ProductID string `form:"product_id"`
	Action    string `form:"action"`
}

// RegisterRoutes registers the editor routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleIndex)
	router.Post("/products", h.HandleSubmit)
	router.Post("/actions", h.HandleAction)

	apiV1 := router.Group("/api/v1")
	apiV1.Get("/products", h.HandleListProducts)
}

// HandleIndex starts a new page over an empty catalog.
func (h *CatalogHandler) HandleIndex(c *fiber.Ctx) error {
	s, err := h.sessions.Create()
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	token, err := h.tokens.Issue(s.ID)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.String("catalog_id", s.ID), zap.Error(err))
		return fiber.ErrInternalServerError
	}

	return s.Do(func(page *editor.Page, _ *services.CatalogService) error {
		return h.renderPage(c, fiber.StatusOK, token, page)
	})
}

// HandleSubmit adds a product from the form, or reports why it could not.
func (h *CatalogHandler) HandleSubmit(c *fiber.Ctx) error {
	var form submitForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form body")
	}
	s, ok := h.lookup(c, form.Session)
	if !ok {
		return h.renderExpired(c)
	}

	return s.Do(func(page *editor.Page, _ *services.CatalogService) error {
		added, err := page.Submit(editor.SubmitEvent{Name: form.Name, Price: form.Price})
		if err != nil {
			h.logger.Error("failed to add product", zap.String("catalog_id", s.ID), zap.Error(err))
			return fiber.ErrInternalServerError
		}
		status := fiber.StatusOK
		if !added {
			status = fiber.StatusUnprocessableEntity
		}
		return h.renderPage(c, status, form.Session, page)
	})
}

// HandleAction applies a button click from the product list.
func (h *CatalogHandler) HandleAction(c *fiber.Ctx) error {
	var form actionForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form body")
	}
	s, ok := h.lookup(c, form.Session)
	if !ok {
		return h.renderExpired(c)
	}

	return s.Do(func(page *editor.Page, _ *services.CatalogService) error {
		_, err := page.Click(editor.ClickEvent{
			InItem:    form.Item != "",
			ProductID: form.ProductID,
			Action:    form.Action,
		})
		if err != nil {
			h.logger.Error("failed to apply action", zap.String("catalog_id", s.ID), zap.String("action", form.Action), zap.Error(err))
			return fiber.ErrInternalServerError
		}
		return h.renderPage(c, fiber.StatusOK, form.Session, page)
	})
}

// HandleListProducts returns the products of a page's catalog as JSON.
func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	s, ok := h.lookup(c, c.Query("session"))
	if !ok {
		return c.Status(fiber.StatusGone).JSON(fiber.Map{
			"message": "Session expired or unknown",
		})
	}

	return s.Do(func(_ *editor.Page, catalog *services.CatalogService) error {
		products, err := catalog.List()
		if err != nil {
			h.logger.Error("failed to list products", zap.String("catalog_id", s.ID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not retrieve products",
				"error":   err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"catalog_id": catalog.CatalogID(),
			"products":   products,
		})
	})
}

func (h *CatalogHandler) lookup(c *fiber.Ctx, token string) (*session.Session, bool) {
	catalogID, err := h.tokens.Parse(token)
	if err != nil {
		h.logger.Debug("rejected session token", zap.String("path", c.Path()), zap.Error(err))
		return nil, false
	}
	s, err := h.sessions.Get(catalogID)
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) {
			h.logger.Error("failed to look up session", zap.String("catalog_id", catalogID), zap.Error(err))
		}
		return nil, false
	}
	return s, true
}

func (h *CatalogHandler) renderPage(c *fiber.Ctx, status int, token string, page *editor.Page) error {
	view, err := page.Render()
	if err != nil {
		h.logger.Error("failed to render page", zap.Error(err))
		return fiber.ErrInternalServerError
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(status).Render(views.Index, views.Page{
		Token:    token,
		Messages: page.Messages(),
		View:     view,
	}, views.Layout)
}

func (h *CatalogHandler) renderExpired(c *fiber.Ctx) error {
	return c.Status(fiber.StatusGone).Render(views.Expired, views.ExpiredPage{Messages: h.msgs}, views.Layout)
}
