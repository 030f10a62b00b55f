package comic

// Page geometry in PDF points (A4), origin bottom-left.
const (
	PageWidth  = 595.28
	PageHeight = 841.89
)

// OpKind identifies a draw operation.
type OpKind int

const (
	OpText OpKind = iota + 1
	OpCenteredText
	OpTextBlock
	OpImage
)

// Font names understood by the renderer.
const (
	FontRegular = "Helvetica"
	FontBold    = "Helvetica-Bold"
)

// Op is one drawing instruction. Y is the baseline for text and the bottom
// edge for images.
type Op struct {
	Kind    OpKind
	X, Y    float64
	W, H    float64
	Font    string
	Size    float64
	Leading float64
	Text    string
	Lines   []string
	Image   string // media-relative path
}

// Page is the ordered list of operations of one page.
type Page struct {
	Ops []Op
}

// Document is the laid-out comic, independent of the output format.
type Document struct {
	Title string
	Pages []Page
}

// Images returns every image path referenced by the document, in draw order.
func (d Document) Images() []string {
	var out []string
	for _, p := range d.Pages {
		for _, op := range p.Ops {
			if op.Kind == OpImage {
				out = append(out, op.Image)
			}
		}
	}
	return out
}
