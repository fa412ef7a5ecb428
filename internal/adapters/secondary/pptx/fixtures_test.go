package pptx

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

const ctNotesSlide = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"

// buildTemplate returns a 4:3 template with n slides, each holding
// "Template title i" text, and a notes slide attached to the last one
func buildTemplate(t *testing.T, n int) []byte {
	t.Helper()
	pres, err := NewBlank()
	require.NoError(t, err)
	pres.SetSlideSize(9144000, 6858000)
	sz := pres.root().SelectElement("p:sldSz")
	sz.CreateAttr("type", "screen4x3")

	layout, err := pres.ContentLayout()
	require.NoError(t, err)

	var last *Slide
	for i := 1; i <= n; i++ {
		slide, err := pres.AddSlide(layout)
		require.NoError(t, err)
		slide.TitlePlaceholder().SetText("Template title "+itoa(i), TextStyle{Size: 4000, Color: "FF0000"})
		slide.BodyPlaceholder().SetText("Template body", TextStyle{Size: 2000, Color: "FF0000"})
		last = slide
	}
	if last != nil {
		attachNotes(t, pres, last)
	}

	data, err := pres.Bytes()
	require.NoError(t, err)
	return data
}

func attachNotes(t *testing.T, pres *Presentation, slide *Slide) {
	t.Helper()
	part := "ppt/notesSlides/notesSlide1.xml"
	doc, err := newXMLDocument(xmlHeader + `<p:notes ` + pmlNamespaces + `><p:cSld><p:spTree>` + groupProps + `</p:spTree></p:cSld></p:notes>`)
	require.NoError(t, err)
	pres.pkg.SetXML(part, doc)
	_, err = pres.pkg.AddRelationship(part, relTypeSlide, slide.Part)
	require.NoError(t, err)
	require.NoError(t, pres.pkg.AddOverride(part, ctNotesSlide))
	_, err = pres.pkg.AddRelationship(slide.Part, relTypeNotesSlide, part)
	require.NoError(t, err)
}

// buildTitleOnlyTemplate has one slide whose layout has no body placeholder
func buildTitleOnlyTemplate(t *testing.T) []byte {
	t.Helper()
	pres, err := NewBlank()
	require.NoError(t, err)

	layouts, err := pres.Layouts()
	require.NoError(t, err)
	titleLayout := layouts[0]
	for _, ph := range titleLayout.placeholders() {
		if ph.Type == "subTitle" {
			ph.el.Parent().RemoveChild(ph.el)
		}
	}
	_, err = pres.AddSlide(titleLayout)
	require.NoError(t, err)

	data, err := pres.Bytes()
	require.NoError(t, err)
	return data
}

func writeTemplate(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.pptx")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func mustOpen(t *testing.T, data []byte) *Presentation {
	t.Helper()
	pres, err := Open(data)
	require.NoError(t, err)
	return pres
}
