package pptx

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelsPath(t *testing.T) {
	assert.Equal(t, "ppt/slides/_rels/slide1.xml.rels", relsPath("ppt/slides/slide1.xml"))
	assert.Equal(t, "ppt/_rels/presentation.xml.rels", relsPath("ppt/presentation.xml"))
	assert.Equal(t, "_rels/.rels", relsPath(""))
}

func TestTargets(t *testing.T) {
	tests := []struct {
		source string
		target string
		part   string
	}{
		{"ppt/slides/slide1.xml", "../slideLayouts/slideLayout2.xml", "ppt/slideLayouts/slideLayout2.xml"},
		{"ppt/presentation.xml", "slides/slide3.xml", "ppt/slides/slide3.xml"},
		{"", "ppt/presentation.xml", "ppt/presentation.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.part, func(t *testing.T) {
			assert.Equal(t, tt.part, resolveTarget(tt.source, tt.target))
			assert.Equal(t, tt.target, relativeTarget(tt.source, tt.part))
		})
	}

	t.Run("absolute target", func(t *testing.T) {
		assert.Equal(t, "ppt/slides/slide1.xml", resolveTarget("ppt/presentation.xml", "/ppt/slides/slide1.xml"))
	})
}

func TestPackage(t *testing.T) {
	t.Run("rejects non zip data", func(t *testing.T) {
		_, err := OpenPackage([]byte("not a zip"))
		assert.Error(t, err)
	})

	t.Run("rejects zip without content types", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("hello.txt")
		require.NoError(t, err)
		_, _ = w.Write([]byte("hi"))
		require.NoError(t, zw.Close())

		_, err = OpenPackage(buf.Bytes())
		assert.Error(t, err)
	})

	t.Run("round trips parts and writes content types first", func(t *testing.T) {
		pres, err := NewBlank()
		require.NoError(t, err)
		pres.pkg.SetRaw("ppt/media/image1.png", []byte{0x89, 'P', 'N', 'G'})

		data, err := pres.Bytes()
		require.NoError(t, err)

		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		assert.Equal(t, contentTypesPart, zr.File[0].Name)

		pkg, err := OpenPackage(data)
		require.NoError(t, err)
		assert.True(t, pkg.Has("ppt/media/image1.png"))
		assert.True(t, pkg.Has("ppt/slideMasters/slideMaster1.xml"))
	})

	t.Run("relationships get sequential ids", func(t *testing.T) {
		pkg := newPackage()
		id1, err := pkg.AddRelationship("ppt/slides/slide1.xml", relTypeSlideLayout, "ppt/slideLayouts/slideLayout1.xml")
		require.NoError(t, err)
		id2, err := pkg.AddRelationship("ppt/slides/slide1.xml", relTypeNotesSlide, "ppt/notesSlides/notesSlide1.xml")
		require.NoError(t, err)
		assert.Equal(t, "rId1", id1)
		assert.Equal(t, "rId2", id2)

		require.NoError(t, pkg.RemoveRelationship("ppt/slides/slide1.xml", id1))
		rels, err := pkg.Relationships("ppt/slides/slide1.xml")
		require.NoError(t, err)
		require.Len(t, rels, 1)
		assert.Equal(t, "../notesSlides/notesSlide1.xml", rels[0].Target)

		assert.Error(t, pkg.RemoveRelationship("ppt/slides/slide1.xml", "rId9"))
	})

	t.Run("overrides are added once and removed", func(t *testing.T) {
		pres, err := NewBlank()
		require.NoError(t, err)

		require.NoError(t, pres.pkg.AddOverride("ppt/slides/slide7.xml", ctSlide))
		require.NoError(t, pres.pkg.AddOverride("ppt/slides/slide7.xml", ctSlide))
		doc, err := pres.pkg.XML(contentTypesPart)
		require.NoError(t, err)
		assert.Len(t, doc.FindElements("//Override[@PartName='/ppt/slides/slide7.xml']"), 1)

		require.NoError(t, pres.pkg.RemoveOverride("ppt/slides/slide7.xml"))
		assert.Empty(t, doc.FindElements("//Override[@PartName='/ppt/slides/slide7.xml']"))
	})
}
