// Command render turns a saved resumeData JSON file into preview HTML,
// export HTML or a PDF without running the server.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clearvide/internal/model"
	"clearvide/internal/render"
	"clearvide/internal/usecase"
	infra "clearvide/pkg/infrastructure"
)

type options struct {
	template string
	premium  bool
	surface  string
	out      string
	engine   string
	chrome   string
	timeout  time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "render <resume.json>",
		Short: "Render a saved resume to HTML or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], opts)
		},
		SilenceUsage: true,
	}
	f := cmd.Flags()
	f.StringVarP(&opts.template, "template", "t", string(model.TemplateClassic), "skin: classic, modern, minimal or bold")
	f.BoolVar(&opts.premium, "premium", false, "render without the watermark")
	f.StringVarP(&opts.surface, "surface", "s", "pdf", "preview, export or pdf")
	f.StringVarP(&opts.out, "out", "o", "", "output file (default derived from the full name)")
	f.StringVar(&opts.engine, "engine", "chromedp", "pdf engine: chromedp or playwright")
	f.StringVar(&opts.chrome, "chrome-path", os.Getenv("CHROME_PATH"), "chrome executable for chromedp")
	f.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall time limit")
	return cmd
}

func run(ctx context.Context, path string, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}
	doc, err := model.DecodeDocument(raw)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	tpl, err := model.ParseTemplate(opts.template)
	if err != nil {
		return err
	}

	var out []byte
	ext := ".html"
	switch opts.surface {
	case "preview":
		out, err = render.Preview(tpl, doc, opts.premium)
	case "export":
		out, err = render.Export(tpl, doc, opts.premium)
	case "pdf":
		out, err = renderPDF(ctx, tpl, doc, opts)
		ext = ".pdf"
	default:
		return fmt.Errorf("unknown surface %q", opts.surface)
	}
	if err != nil {
		return err
	}

	dest := opts.out
	if dest == "" {
		dest = strings.TrimSuffix(usecase.FileName(doc.PersonalDetails.FullName), ".pdf") + ext
	}
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(dest, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", dest, len(out))
	return nil
}

func renderPDF(ctx context.Context, tpl model.Template, doc model.ResumeDocument, opts *options) ([]byte, error) {
	html, err := render.Export(tpl, doc, opts.premium)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	var engine usecase.PDFEngine
	switch opts.engine {
	case "playwright":
		pw := infra.NewPlaywrightRenderer(nil)
		defer pw.Close()
		engine = pw
	case "chromedp":
		engine = infra.NewChromedpRenderer(opts.chrome)
	default:
		return nil, fmt.Errorf("unknown engine %q", opts.engine)
	}
	return engine.RenderHTMLToPDF(ctx, string(html))
}
