package fiberswaggerui

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

func (a *App) liveViewer() *Viewer {
	if v := a.handle.Load(); v != nil {
		return v
	}
	return a.bootstrapper.OnLoad(a.handle)
}

func (a *App) serveIndex(c *fiber.Ctx) error {
	page, err := a.liveViewer().IndexHTML(a.config.Title, a.config.AssetsURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to render viewer",
			"details": err.Error(),
		})
	}
	a.config.Metrics.viewerLoaded()
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(page)
}

func (a *App) serveInitializer(c *fiber.Ctx) error {
	script, err := a.liveViewer().InitializerScript()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to render viewer",
			"details": err.Error(),
		})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJavaScriptCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.SendString(script)
}

func (a *App) serveDiscovery(c *fiber.Ctx) error {
	cfg := a.liveViewer().Config()
	groups := a.documents.Groups(a.config.APIDocsPath)
	a.config.Metrics.discoveryServed()
	return c.JSON(BuildSwaggerConfig(cfg, groups, a.config.OAuth2RedirectURL))
}

func (a *App) serveDocument(format string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			doc *Document
			err error
		)

		group := c.Params("group")
		if group == "" {
			doc, err = a.documents.Get(DefaultGroup)
			if errors.Is(err, ErrDocumentNotFound) {
				doc, err = a.documents.First()
			}
		} else {
			if unescaped, uerr := url.PathUnescape(group); uerr == nil {
				group = unescaped
			}
			doc, err = a.documents.Get(group)
		}
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "API document not found",
				"details": err.Error(),
			})
		}

		a.config.Metrics.documentServed(doc.Name, format)
		if format == "yaml" {
			c.Set(fiber.HeaderContentType, "application/yaml; charset=utf-8")
			return c.Send(doc.YAML)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(doc.JSON)
	}
}
