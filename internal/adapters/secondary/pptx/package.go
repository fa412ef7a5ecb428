// Package pptx reads, edits and writes PresentationML (.pptx) packages.
package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/beevik/etree"
)

const contentTypesPart = "[Content_Types].xml"

// Package is an in-memory OPC package. XML parts are parsed on first access
// and serialized again by Bytes; everything else is carried through untouched.
type Package struct {
	order []string
	raw   map[string][]byte
	docs  map[string]*etree.Document
}

// OpenPackage reads a zip archive into memory
func OpenPackage(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading zip: %w", err)
	}

	p := newPackage()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		p.SetRaw(f.Name, content)
	}

	if !p.Has(contentTypesPart) {
		return nil, fmt.Errorf("missing %s", contentTypesPart)
	}
	return p, nil
}

func newPackage() *Package {
	return &Package{
		raw:  make(map[string][]byte),
		docs: make(map[string]*etree.Document),
	}
}

// Has reports whether the part exists
func (p *Package) Has(name string) bool {
	if _, ok := p.docs[name]; ok {
		return true
	}
	_, ok := p.raw[name]
	return ok
}

// Names returns part names in archive order
func (p *Package) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

func (p *Package) track(name string) {
	if !p.Has(name) {
		p.order = append(p.order, name)
	}
}

// SetRaw stores a part verbatim
func (p *Package) SetRaw(name string, data []byte) {
	p.track(name)
	delete(p.docs, name)
	p.raw[name] = data
}

// SetXML stores a parsed part
func (p *Package) SetXML(name string, doc *etree.Document) {
	p.track(name)
	delete(p.raw, name)
	p.docs[name] = doc
}

// XML returns the parsed document for name. Repeated calls return the same
// document, so edits made through it are kept.
func (p *Package) XML(name string) (*etree.Document, error) {
	if doc, ok := p.docs[name]; ok {
		return doc, nil
	}
	data, ok := p.raw[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parsing %s: no root element", name)
	}
	delete(p.raw, name)
	p.docs[name] = doc
	return doc, nil
}

// Remove deletes a part if present
func (p *Package) Remove(name string) {
	if !p.Has(name) {
		return
	}
	delete(p.raw, name)
	delete(p.docs, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Bytes serializes the package. The content types part is written first.
func (p *Package) Bytes() ([]byte, error) {
	names := p.Names()
	sort.SliceStable(names, func(i, j int) bool {
		return names[i] == contentTypesPart && names[j] != contentTypesPart
	})

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		data, err := p.partBytes(name)
		if err != nil {
			return nil, err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing zip: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *Package) partBytes(name string) ([]byte, error) {
	if doc, ok := p.docs[name]; ok {
		data, err := doc.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}
		return data, nil
	}
	return p.raw[name], nil
}

// newXMLDocument parses a part body written in Go source
func newXMLDocument(src string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(src); err != nil {
		return nil, err
	}
	return doc, nil
}
