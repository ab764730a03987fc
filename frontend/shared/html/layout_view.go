package html

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

type LayoutProps struct {
	Title string
	Nav   templ.Component
	Body  templ.Component
	// RedirectTo, when set, sends the browser there after RedirectAfter.
	RedirectTo    string
	RedirectAfter time.Duration
}

func Layout(p LayoutProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		if p.RedirectTo != "" {
			secs := int(p.RedirectAfter.Round(time.Second) / time.Second)
			w.raw(`<meta http-equiv="refresh"`)
			w.attr("content", strconv.Itoa(secs)+";url="+p.RedirectTo)
			w.raw(">")
		}
		w.raw("<title>")
		w.text(p.Title)
		w.raw(` | User Hub</title><link rel="stylesheet" href="/assets/app.css"></head><body>`)
		w.render(p.Nav, ctx)
		w.raw(`<main class="container">`)
		w.render(p.Body, ctx)
		w.raw("</main>")
		w.raw(pageScript)
		w.raw("</body></html>")
		return w.err
	})
}
