package comic

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// PathResolver maps a media-relative path to a file on disk.
type PathResolver interface {
	Abs(rel string) (string, error)
}

// Renderer draws a Document with fpdf using the core Helvetica fonts.
type Renderer struct {
	resolver PathResolver
	logger   *zap.Logger
}

// NewRenderer creates a PDF renderer.
func NewRenderer(resolver PathResolver, logger *zap.Logger) *Renderer {
	return &Renderer{resolver: resolver, logger: logger.Named("ComicRenderer")}
}

// Render writes the document as PDF to w. Images that cannot be embedded are skipped.
func (r *Renderer) Render(doc Document, w io.Writer) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("story-wall", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pages := doc.Pages
	if len(pages) == 0 {
		pages = []Page{{}}
	}
	for _, page := range pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			r.draw(pdf, tr, op)
		}
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func (r *Renderer) draw(pdf *fpdf.Fpdf, tr func(string) string, op Op) {
	switch op.Kind {
	case OpText:
		setFont(pdf, op)
		pdf.Text(op.X, PageHeight-op.Y, tr(op.Text))
	case OpCenteredText:
		setFont(pdf, op)
		s := tr(op.Text)
		pdf.Text(op.X-pdf.GetStringWidth(s)/2, PageHeight-op.Y, s)
	case OpTextBlock:
		setFont(pdf, op)
		for i, line := range op.Lines {
			pdf.Text(op.X, PageHeight-(op.Y-float64(i)*op.Leading), tr(line))
		}
	case OpImage:
		r.drawImage(pdf, op)
	}
}

func setFont(pdf *fpdf.Fpdf, op Op) {
	style := ""
	if op.Font == FontBold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, op.Size)
}

func (r *Renderer) drawImage(pdf *fpdf.Fpdf, op Op) {
	log := r.logger.With(zap.String("image", op.Image))
	path, err := r.resolver.Abs(op.Image)
	if err != nil {
		log.Warn("Image path rejected, skipping", zap.Error(err))
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Image unreadable, skipping", zap.Error(err))
		return
	}
	imageType := ImageType(data)
	if imageType == "" {
		log.Warn("Image format not embeddable, skipping", zap.String("contentType", http.DetectContentType(data)))
		return
	}

	opts := fpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
	info := pdf.RegisterImageOptionsReader(op.Image, opts, bytes.NewReader(data))
	if !pdf.Ok() || info == nil {
		log.Warn("Image could not be decoded, skipping", zap.Error(pdf.Error()))
		pdf.ClearError()
		return
	}
	pdf.ImageOptions(op.Image, op.X, PageHeight-(op.Y+op.H), op.W, op.H, false, opts, 0, "")
}

// ImageType returns the fpdf image type for data, or "" if fpdf cannot embed it.
func ImageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "JPG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	}
	return ""
}
