package pptx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const emptySlideXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr></p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`

// Slide is one slide part
type Slide struct {
	Part  string
	relID string
	doc   *etree.Document
}

// Placeholders returns the placeholder shapes of the slide in document order
func (s *Slide) Placeholders() []*Placeholder {
	return collectPlaceholders(s.doc.Root())
}

// TitlePlaceholder returns the title or centred title placeholder
func (s *Slide) TitlePlaceholder() *Placeholder {
	for _, ph := range s.Placeholders() {
		if ph.IsTitle() {
			return ph
		}
	}
	return nil
}

// BodyPlaceholder returns the placeholder with idx 1, else the first body or
// object placeholder that is not a title, date, footer or slide number
func (s *Slide) BodyPlaceholder() *Placeholder {
	phs := s.Placeholders()
	for _, ph := range phs {
		if ph.Idx == 1 && !ph.IsTitle() && !ph.isFurniture() {
			return ph
		}
	}
	for _, ph := range phs {
		if ph.isBodyCandidate() {
			return ph
		}
	}
	return nil
}

// SetBackground replaces the slide background with a solid fill
func (s *Slide) SetBackground(rgb string) {
	cSld := s.doc.Root().SelectElement("p:cSld")
	if cSld == nil {
		return
	}
	if old := cSld.SelectElement("p:bg"); old != nil {
		cSld.RemoveChild(old)
	}

	bg := etree.NewElement("p:bg")
	bgPr := bg.CreateElement("p:bgPr")
	solidFill(bgPr, rgb)
	bgPr.CreateElement("a:effectLst")
	cSld.InsertChildAt(0, bg)
}

// Background returns the solid background colour, or "" if none is set
func (s *Slide) Background() string {
	clr := s.doc.Root().FindElement("./p:cSld/p:bg/p:bgPr/a:solidFill/a:srgbClr")
	if clr == nil {
		return ""
	}
	return clr.SelectAttrValue("val", "")
}

// Placeholder is a shape inheriting position and style from the layout
type Placeholder struct {
	Type string
	Idx  int
	Name string
	el   *etree.Element
}

func collectPlaceholders(root *etree.Element) []*Placeholder {
	var out []*Placeholder
	for _, sp := range root.FindElements(".//p:sp") {
		ph := sp.FindElement("./p:nvSpPr/p:nvPr/p:ph")
		if ph == nil {
			continue
		}
		idx, err := strconv.Atoi(ph.SelectAttrValue("idx", "0"))
		if err != nil {
			idx = 0
		}
		name := ""
		if cNvPr := sp.FindElement("./p:nvSpPr/p:cNvPr"); cNvPr != nil {
			name = cNvPr.SelectAttrValue("name", "")
		}
		out = append(out, &Placeholder{
			Type: ph.SelectAttrValue("type", ""),
			Idx:  idx,
			Name: name,
			el:   sp,
		})
	}
	return out
}

// IsTitle reports whether this is a title placeholder
func (ph *Placeholder) IsTitle() bool {
	return ph.Type == "title" || ph.Type == "ctrTitle"
}

// isFurniture reports date, footer and slide number placeholders
func (ph *Placeholder) isFurniture() bool {
	switch ph.Type {
	case "dt", "ftr", "sldNum":
		return true
	}
	return false
}

func (ph *Placeholder) isBodyCandidate() bool {
	switch ph.Type {
	case "body", "obj":
		return true
	case "":
		return ph.Idx > 0
	}
	return false
}

// cloneEmpty returns a new slide shape bound to the same placeholder
func (ph *Placeholder) cloneEmpty(shapeID int) *etree.Element {
	sp := etree.NewElement("p:sp")
	nvSpPr := sp.CreateElement("p:nvSpPr")
	cNvPr := nvSpPr.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(shapeID))
	cNvPr.CreateAttr("name", ph.Name)
	nvSpPr.CreateElement("p:cNvSpPr").CreateElement("a:spLocks").CreateAttr("noGrp", "1")
	nvPr := nvSpPr.CreateElement("p:nvPr")
	if src := ph.el.FindElement("./p:nvSpPr/p:nvPr/p:ph"); src != nil {
		phEl := nvPr.CreateElement("p:ph")
		for _, key := range []string{"type", "orient", "sz", "idx"} {
			if v := src.SelectAttrValue(key, ""); v != "" {
				phEl.CreateAttr(key, v)
			}
		}
	}
	sp.CreateElement("p:spPr")
	txBody := sp.CreateElement("p:txBody")
	txBody.CreateElement("a:bodyPr")
	txBody.CreateElement("a:lstStyle")
	txBody.CreateElement("a:p")
	return sp
}

// TextStyle is the run formatting applied by SetText
type TextStyle struct {
	Size  int // hundredths of a point
	Bold  bool
	Color string
}

// SetText replaces the paragraphs of the placeholder, one per line.
// Body properties and list style are kept.
func (ph *Placeholder) SetText(text string, style TextStyle) {
	txBody := ph.el.SelectElement("p:txBody")
	if txBody == nil {
		txBody = ph.el.CreateElement("p:txBody")
		txBody.CreateElement("a:bodyPr")
		txBody.CreateElement("a:lstStyle")
	}
	for _, p := range txBody.SelectElements("a:p") {
		txBody.RemoveChild(p)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		p := txBody.CreateElement("a:p")
		if line == "" {
			end := p.CreateElement("a:endParaRPr")
			runProps(end, style)
			continue
		}
		r := p.CreateElement("a:r")
		rPr := r.CreateElement("a:rPr")
		runProps(rPr, style)
		solidFill(rPr, style.Color)
		r.CreateElement("a:t").SetText(line)
	}
}

// Text returns the visible text, paragraphs joined by newlines
func (ph *Placeholder) Text() string {
	txBody := ph.el.SelectElement("p:txBody")
	if txBody == nil {
		return ""
	}
	var lines []string
	for _, p := range txBody.SelectElements("a:p") {
		var sb strings.Builder
		for _, t := range p.FindElements(".//a:t") {
			sb.WriteString(t.Text())
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// Colors returns the run colours used in the placeholder
func (ph *Placeholder) Colors() []string {
	var out []string
	for _, clr := range ph.el.FindElements(".//a:rPr/a:solidFill/a:srgbClr") {
		out = append(out, clr.SelectAttrValue("val", ""))
	}
	return out
}

// Sizes returns the font sizes of the runs in the placeholder
func (ph *Placeholder) Sizes() []int {
	var out []int
	for _, rPr := range ph.el.FindElements(".//a:rPr") {
		n, _ := strconv.Atoi(rPr.SelectAttrValue("sz", "0"))
		out = append(out, n)
	}
	return out
}

func runProps(el *etree.Element, style TextStyle) {
	el.CreateAttr("lang", "en-US")
	if style.Size > 0 {
		el.CreateAttr("sz", strconv.Itoa(style.Size))
	}
	if style.Bold {
		el.CreateAttr("b", "1")
	}
	el.CreateAttr("dirty", "0")
}

func solidFill(parent *etree.Element, rgb string) {
	parent.CreateElement("a:solidFill").CreateElement("a:srgbClr").CreateAttr("val", rgb)
}
