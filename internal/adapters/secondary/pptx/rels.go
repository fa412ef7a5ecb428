package pptx

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"

	relBase            = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	relTypeOfficeDoc   = relBase + "officeDocument"
	relTypeSlide       = relBase + "slide"
	relTypeSlideLayout = relBase + "slideLayout"
	relTypeSlideMaster = relBase + "slideMaster"
	relTypeNotesSlide  = relBase + "notesSlide"

	ctSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
)

// Relationship is one entry of a .rels part
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// relsPath returns the relationships part for part; "" is the package root
func relsPath(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// resolveTarget turns a relationship target into a part name
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(source), target))
}

// relativeTarget is the inverse of resolveTarget
func relativeTarget(source, part string) string {
	from := strings.Split(path.Dir(source), "/")
	if path.Dir(source) == "." {
		from = nil
	}
	to := strings.Split(part, "/")

	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	parts := make([]string, 0, len(from)-i+len(to)-i)
	for j := i; j < len(from); j++ {
		parts = append(parts, "..")
	}
	parts = append(parts, to[i:]...)
	return strings.Join(parts, "/")
}

func (p *Package) relsDoc(part string, create bool) (*etree.Document, error) {
	name := relsPath(part)
	if p.Has(name) {
		return p.XML(name)
	}
	if !create {
		return nil, nil
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelationships)
	p.SetXML(name, doc)
	return doc, nil
}

// Relationships lists the relationships of part; a part without rels has none
func (p *Package) Relationships(part string) ([]Relationship, error) {
	doc, err := p.relsDoc(part, false)
	if err != nil || doc == nil {
		return nil, err
	}
	var out []Relationship
	for _, el := range doc.Root().SelectElements("Relationship") {
		out = append(out, Relationship{
			ID:       el.SelectAttrValue("Id", ""),
			Type:     el.SelectAttrValue("Type", ""),
			Target:   el.SelectAttrValue("Target", ""),
			External: el.SelectAttrValue("TargetMode", "") == "External",
		})
	}
	return out, nil
}

// RelationshipByID finds one relationship of part
func (p *Package) RelationshipByID(part, id string) (Relationship, bool, error) {
	rels, err := p.Relationships(part)
	if err != nil {
		return Relationship{}, false, err
	}
	for _, rel := range rels {
		if rel.ID == id {
			return rel, true, nil
		}
	}
	return Relationship{}, false, nil
}

// AddRelationship links part to target and returns the new relationship id
func (p *Package) AddRelationship(part, relType, targetPart string) (string, error) {
	doc, err := p.relsDoc(part, true)
	if err != nil {
		return "", err
	}

	next := 1
	for _, el := range doc.Root().SelectElements("Relationship") {
		id := el.SelectAttrValue("Id", "")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n >= next {
			next = n + 1
		}
	}

	id := "rId" + strconv.Itoa(next)
	el := doc.Root().CreateElement("Relationship")
	el.CreateAttr("Id", id)
	el.CreateAttr("Type", relType)
	el.CreateAttr("Target", relativeTarget(part, targetPart))
	return id, nil
}

// RemoveRelationship drops relationship id from part
func (p *Package) RemoveRelationship(part, id string) error {
	doc, err := p.relsDoc(part, false)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%s has no relationships", part)
	}
	for _, el := range doc.Root().SelectElements("Relationship") {
		if el.SelectAttrValue("Id", "") == id {
			doc.Root().RemoveChild(el)
			return nil
		}
	}
	return fmt.Errorf("relationship %s not found in %s", id, part)
}

// AddOverride registers the content type of part
func (p *Package) AddOverride(part, contentType string) error {
	doc, err := p.XML(contentTypesPart)
	if err != nil {
		return err
	}
	partName := "/" + part
	for _, el := range doc.Root().SelectElements("Override") {
		if el.SelectAttrValue("PartName", "") == partName {
			el.CreateAttr("ContentType", contentType)
			return nil
		}
	}
	el := doc.Root().CreateElement("Override")
	el.CreateAttr("PartName", partName)
	el.CreateAttr("ContentType", contentType)
	return nil
}

// RemoveOverride drops the content type entry of part
func (p *Package) RemoveOverride(part string) error {
	doc, err := p.XML(contentTypesPart)
	if err != nil {
		return err
	}
	partName := "/" + part
	for _, el := range doc.Root().SelectElements("Override") {
		if strings.EqualFold(el.SelectAttrValue("PartName", ""), partName) {
			doc.Root().RemoveChild(el)
		}
	}
	return nil
}

// removePartWithRels deletes part, its relationships part and its override
func (p *Package) removePartWithRels(part string) error {
	p.Remove(part)
	p.Remove(relsPath(part))
	return p.RemoveOverride(part)
}
