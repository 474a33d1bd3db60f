package main

import (
	"fmt"
	"io"

	"github.com/bobmcallan/newsletter-portal/internal/config"
	"github.com/bobmcallan/newsletter-portal/internal/data"
	"github.com/bobmcallan/newsletter-portal/internal/render"
	"github.com/bobmcallan/newsletter-portal/internal/theme"
)

// printNewsletter writes the newsletter to w without starting the server.
func printNewsletter(w io.Writer, cfg *config.Config, mode string, width int, raw bool) error {
	m := theme.Mode(mode)
	if m != theme.Dark && m != theme.Light {
		return fmt.Errorf("invalid -theme %q: want dark or light", mode)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	src, err := data.Load(cfg.Data, loc)
	if err != nil {
		return err
	}
	dates, err := src.GetDates()
	if err != nil {
		return err
	}
	page, err := render.NewNewsletter(src.GetTables(), dates, render.Branding{
		Title:      cfg.Display.Title,
		BrandURL:   cfg.Display.BrandURL,
		BrandLabel: cfg.Display.BrandLabel,
	})
	if err != nil {
		return err
	}

	md := page.Markdown()
	if raw {
		_, err = io.WriteString(w, md)
		return err
	}

	out, err := render.Terminal(md, m, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
