package comic

import (
	"fmt"
	"time"
)

// Layout constants in points.
const (
	titleSize       = 24.0
	dateSize        = 12.0
	plotTextSize    = 12.0
	bodyTextSize    = 10.0
	labelSize       = 12.0
	leadingFactor   = 1.2
	lineHeight      = 12.0 // per wrapped body line when placing images
	topMargin       = 100.0
	bottomMargin    = 100.0
	leftColumnX     = 50.0
	rightColumnX    = 300.0
	textOffset      = 20.0
	imageGap        = 160.0
	pairGap         = 50.0
	leftImageWidth  = 200.0
	rightImageWidth = 250.0
	bodyImageHeight = 150.0
)

// TurnContent is one turn as the compiler sees it.
type TurnContent struct {
	UserInput  string
	AIResponse string
	UserImage  string
	AIImage    string
}

// Input is everything the layout needs about a story.
type Input struct {
	CharacterName string
	ThemeName     string
	CreatedAt     time.Time
	PlotText      string
	PlotImage     string
	Turns         []TurnContent
}

// Title is the comic title, also used as the email subject suffix.
func Title(character, theme string) string {
	return fmt.Sprintf("%s's %s Adventure", character, theme)
}

type builder struct {
	pages   []Page
	current *Page
}

func (b *builder) add(op Op) {
	if b.current == nil {
		b.pages = append(b.pages, Page{})
		b.current = &b.pages[len(b.pages)-1]
	}
	b.current.Ops = append(b.current.Ops, op)
}

// pageBreak ends the current page. Consecutive breaks collapse, so no blank pages appear.
func (b *builder) pageBreak() {
	b.current = nil
}

// Layout places the title section and the turn pairs onto pages. Images are
// included only when exists reports the file present. The result is a pure
// function of its input.
func Layout(in Input, exists func(string) bool) Document {
	b := &builder{}
	title := Title(in.CharacterName, in.ThemeName)
	hasImage := func(p string) bool { return p != "" && exists != nil && exists(p) }

	b.add(Op{Kind: OpCenteredText, X: PageWidth / 2, Y: PageHeight - 100, Font: FontBold, Size: titleSize, Text: title})
	b.add(Op{Kind: OpCenteredText, X: PageWidth / 2, Y: PageHeight - 150, Font: FontRegular, Size: dateSize,
		Text: "Created on " + in.CreatedAt.Format("January 02, 2006")})
	if hasImage(in.PlotImage) {
		b.add(Op{Kind: OpImage, X: 100, Y: PageHeight - 400, W: PageWidth - 200, H: 200, Image: in.PlotImage})
	}
	if lines := Wrap(in.PlotText, WrapColumns); len(lines) > 0 {
		b.add(Op{Kind: OpTextBlock, X: 100, Y: PageHeight - 450, Font: FontRegular, Size: plotTextSize,
			Leading: plotTextSize * leadingFactor, Lines: lines})
	}
	b.pageBreak()

	for start := 0; start < len(in.Turns); start += 2 {
		end := min(start+2, len(in.Turns))
		y := PageHeight - topMargin
		for _, turn := range in.Turns[start:end] {
			userLines := Wrap(turn.UserInput, WrapColumns)
			aiLines := Wrap(turn.AIResponse, WrapColumns)
			imageY := y - float64(len(userLines))*lineHeight - imageGap

			b.add(Op{Kind: OpText, X: leftColumnX, Y: y, Font: FontBold, Size: labelSize, Text: in.CharacterName + ":"})
			b.add(textBlock(leftColumnX, y-textOffset, userLines))
			if hasImage(turn.UserImage) {
				b.add(Op{Kind: OpImage, X: leftColumnX, Y: imageY, W: leftImageWidth, H: bodyImageHeight, Image: turn.UserImage})
			}
			b.add(Op{Kind: OpText, X: rightColumnX, Y: y, Font: FontBold, Size: labelSize, Text: "AI:"})
			b.add(textBlock(rightColumnX, y-textOffset, aiLines))
			if hasImage(turn.AIImage) {
				b.add(Op{Kind: OpImage, X: rightColumnX, Y: imageY, W: rightImageWidth, H: bodyImageHeight, Image: turn.AIImage})
			}

			y = imageY - pairGap
			if y < bottomMargin {
				b.pageBreak()
				y = PageHeight - topMargin
			}
		}
		b.pageBreak()
	}

	return Document{Title: title, Pages: b.pages}
}

func textBlock(x, y float64, lines []string) Op {
	return Op{Kind: OpTextBlock, X: x, Y: y, Font: FontRegular, Size: bodyTextSize, Leading: bodyTextSize * leadingFactor, Lines: lines}
}
