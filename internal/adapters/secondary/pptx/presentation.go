package pptx

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Widescreen 16:9 canvas in EMU
const (
	WidescreenWidth  int64 = 12192000
	WidescreenHeight int64 = 6858000
)

const (
	slidePartPrefix  = "ppt/slides/slide"
	layoutPartPrefix = "ppt/slideLayouts/slideLayout"
	minSlideID       = 256
)

// presentation.xml children that precede sldIdLst and sldSz, in schema order
var (
	beforeSldIDLst = []string{"sldMasterIdLst", "notesMasterIdLst", "handoutMasterIdLst"}
	beforeSldSz    = append(append([]string{}, beforeSldIDLst...), "sldIdLst")
)

// Presentation is an editable PresentationML document
type Presentation struct {
	pkg  *Package
	part string
}

// Open parses a .pptx package
func Open(data []byte) (*Presentation, error) {
	pkg, err := OpenPackage(data)
	if err != nil {
		return nil, err
	}
	return fromPackage(pkg)
}

func fromPackage(pkg *Package) (*Presentation, error) {
	rels, err := pkg.Relationships("")
	if err != nil {
		return nil, fmt.Errorf("reading package relationships: %w", err)
	}

	part := ""
	for _, rel := range rels {
		if rel.Type == relTypeOfficeDoc {
			part = resolveTarget("", rel.Target)
			break
		}
	}
	if part == "" {
		return nil, errors.New("package has no presentation part")
	}

	doc, err := pkg.XML(part)
	if err != nil {
		return nil, err
	}
	if doc.Root().Tag != "presentation" {
		return nil, fmt.Errorf("%s is not a presentation", part)
	}
	return &Presentation{pkg: pkg, part: part}, nil
}

func (p *Presentation) root() *etree.Element {
	doc, _ := p.pkg.XML(p.part)
	return doc.Root()
}

// Bytes serializes the presentation package
func (p *Presentation) Bytes() ([]byte, error) {
	return p.pkg.Bytes()
}

// SlideSize returns the canvas size in EMU
func (p *Presentation) SlideSize() (cx, cy int64) {
	sz := p.root().SelectElement("p:sldSz")
	if sz == nil {
		return 0, 0
	}
	cx, _ = strconv.ParseInt(sz.SelectAttrValue("cx", "0"), 10, 64)
	cy, _ = strconv.ParseInt(sz.SelectAttrValue("cy", "0"), 10, 64)
	return cx, cy
}

// SetSlideSize sets the canvas size and drops any preset size type
func (p *Presentation) SetSlideSize(cx, cy int64) {
	root := p.root()
	sz := root.SelectElement("p:sldSz")
	if sz == nil {
		sz = etree.NewElement("p:sldSz")
		insertAfter(root, sz, beforeSldSz)
	}
	sz.CreateAttr("cx", strconv.FormatInt(cx, 10))
	sz.CreateAttr("cy", strconv.FormatInt(cy, 10))
	sz.RemoveAttr("type")
}

// insertAfter places child after the last existing sibling named in preceding,
// or first when none exist
func insertAfter(parent, child *etree.Element, preceding []string) {
	idx := 0
	for _, name := range preceding {
		if el := parent.SelectElement("p:" + name); el != nil && el.Index()+1 > idx {
			idx = el.Index() + 1
		}
	}
	parent.InsertChildAt(idx, child)
}

// Slides returns the slides in presentation order
func (p *Presentation) Slides() ([]*Slide, error) {
	lst := p.root().SelectElement("p:sldIdLst")
	if lst == nil {
		return nil, nil
	}

	var slides []*Slide
	for _, el := range lst.SelectElements("p:sldId") {
		relID := el.SelectAttrValue("r:id", "")
		rel, ok, err := p.pkg.RelationshipByID(p.part, relID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("slide relationship %s not found", relID)
		}
		part := resolveTarget(p.part, rel.Target)
		doc, err := p.pkg.XML(part)
		if err != nil {
			return nil, err
		}
		slides = append(slides, &Slide{Part: part, relID: relID, doc: doc})
	}
	return slides, nil
}

// Layout is a slide layout part
type Layout struct {
	Part string
	Name string
	Type string
	doc  *etree.Document
}

// Layouts returns the layout parts ordered by their number
func (p *Presentation) Layouts() ([]*Layout, error) {
	var names []string
	for _, name := range p.pkg.Names() {
		if strings.HasPrefix(name, layoutPartPrefix) && strings.HasSuffix(name, ".xml") {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return partNumber(names[i], layoutPartPrefix) < partNumber(names[j], layoutPartPrefix)
	})

	layouts := make([]*Layout, 0, len(names))
	for _, name := range names {
		doc, err := p.pkg.XML(name)
		if err != nil {
			return nil, err
		}
		root := doc.Root()
		layout := &Layout{Part: name, Type: root.SelectAttrValue("type", ""), doc: doc}
		if cSld := root.SelectElement("p:cSld"); cSld != nil {
			layout.Name = cSld.SelectAttrValue("name", "")
		}
		layouts = append(layouts, layout)
	}
	return layouts, nil
}

func partNumber(name, prefix string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".xml"))
	if err != nil {
		return -1
	}
	return n
}

func (l *Layout) placeholders() []*Placeholder {
	return collectPlaceholders(l.doc.Root())
}

func (l *Layout) hasTitleAndBody() bool {
	var title, body bool
	for _, ph := range l.placeholders() {
		switch {
		case ph.IsTitle():
			title = true
		case ph.isBodyCandidate():
			body = true
		}
	}
	return title && body
}

// ContentLayout picks the layout used for new slides: the "obj" layout, then
// one named "Title and Content", then the first with title and body
// placeholders, then the first layout.
func (p *Presentation) ContentLayout() (*Layout, error) {
	layouts, err := p.Layouts()
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, errors.New("presentation has no slide layouts")
	}
	for _, l := range layouts {
		if l.Type == "obj" {
			return l, nil
		}
	}
	for _, l := range layouts {
		if strings.EqualFold(l.Name, "Title and Content") {
			return l, nil
		}
	}
	for _, l := range layouts {
		if l.hasTitleAndBody() {
			return l, nil
		}
	}
	return layouts[0], nil
}

// AddSlide appends a slide based on layout with empty copies of its placeholders
func (p *Presentation) AddSlide(layout *Layout) (*Slide, error) {
	part := p.nextSlidePart()

	doc, err := newXMLDocument(emptySlideXML)
	if err != nil {
		return nil, fmt.Errorf("building slide: %w", err)
	}
	spTree := doc.Root().SelectElement("p:cSld").SelectElement("p:spTree")
	shapeID := 2
	for _, ph := range layout.placeholders() {
		if ph.isFurniture() {
			continue
		}
		spTree.AddChild(ph.cloneEmpty(shapeID))
		shapeID++
	}
	p.pkg.SetXML(part, doc)

	if _, err := p.pkg.AddRelationship(part, relTypeSlideLayout, layout.Part); err != nil {
		return nil, fmt.Errorf("linking layout: %w", err)
	}
	if err := p.pkg.AddOverride(part, ctSlide); err != nil {
		return nil, fmt.Errorf("registering content type: %w", err)
	}
	relID, err := p.pkg.AddRelationship(p.part, relTypeSlide, part)
	if err != nil {
		return nil, fmt.Errorf("linking slide: %w", err)
	}

	root := p.root()
	lst := root.SelectElement("p:sldIdLst")
	if lst == nil {
		lst = etree.NewElement("p:sldIdLst")
		insertAfter(root, lst, beforeSldIDLst)
	}
	next := minSlideID
	for _, el := range lst.SelectElements("p:sldId") {
		if id, err := strconv.Atoi(el.SelectAttrValue("id", "")); err == nil && id >= next {
			next = id + 1
		}
	}
	entry := lst.CreateElement("p:sldId")
	entry.CreateAttr("id", strconv.Itoa(next))
	entry.CreateAttr("r:id", relID)

	return &Slide{Part: part, relID: relID, doc: doc}, nil
}

func (p *Presentation) nextSlidePart() string {
	highest := 0
	for _, name := range p.pkg.Names() {
		if n := partNumber(name, slidePartPrefix); n > highest {
			highest = n
		}
	}
	return slidePartPrefix + strconv.Itoa(highest+1) + ".xml"
}

// RemoveSlide deletes a slide with its list entry, custom show references,
// relationship, content type override and notes slide
func (p *Presentation) RemoveSlide(s *Slide) error {
	if lst := p.root().SelectElement("p:sldIdLst"); lst != nil {
		removeByRelID(lst, "p:sldId", s.relID)
	}
	for _, lst := range p.root().FindElements("./p:custShowLst/p:custShow/p:sldLst") {
		removeByRelID(lst, "p:sld", s.relID)
	}
	if err := p.pkg.RemoveRelationship(p.part, s.relID); err != nil {
		return err
	}

	rels, err := p.pkg.Relationships(s.Part)
	if err != nil {
		return err
	}
	for _, rel := range rels {
		if rel.Type != relTypeNotesSlide {
			continue
		}
		if err := p.pkg.removePartWithRels(resolveTarget(s.Part, rel.Target)); err != nil {
			return err
		}
	}

	return p.pkg.removePartWithRels(s.Part)
}

func removeByRelID(parent *etree.Element, tag, relID string) {
	for _, el := range parent.SelectElements(tag) {
		if el.SelectAttrValue("r:id", "") == relID {
			parent.RemoveChild(el)
		}
	}
}

// slideFileName is used in log output
func slideFileName(part string) string {
	return path.Base(part)
}
