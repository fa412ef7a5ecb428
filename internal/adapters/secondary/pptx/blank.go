package pptx

import "fmt"

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
`

const pmlNamespaces = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

// blankParts is a minimal widescreen presentation with a title layout and a
// title and content layout, in archive order
var blankParts = []struct {
	name string
	body string
}{
	{contentTypesPart, `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
		`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>` +
		`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
		`<Override PartName="/ppt/slideLayouts/slideLayout2.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
		`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>` +
		`<Override PartName="/ppt/presProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"/>` +
		`<Override PartName="/ppt/viewProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"/>` +
		`<Override PartName="/ppt/tableStyles.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"/>` +
		`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
		`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
		`</Types>`},

	{"_rels/.rels", `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
		`</Relationships>`},

	{"docProps/app.xml", `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">` +
		`<Application>deckgen</Application><PresentationFormat>Widescreen</PresentationFormat></Properties>`},

	{"docProps/core.xml", `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>Presentation</dc:title><dc:creator>deckgen</dc:creator></cp:coreProperties>`},

	{"ppt/presentation.xml", `<p:presentation ` + pmlNamespaces + ` saveSubsetFonts="1">` +
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
		`<p:sldSz cx="12192000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/>` +
		`</p:presentation>`},

	{"ppt/_rels/presentation.xml.rels", `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps" Target="presProps.xml"/>` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps" Target="viewProps.xml"/>` +
		`<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>` +
		`<Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles" Target="tableStyles.xml"/>` +
		`</Relationships>`},

	{"ppt/presProps.xml", `<p:presentationPr ` + pmlNamespaces + `/>`},

	{"ppt/viewProps.xml", `<p:viewPr ` + pmlNamespaces + `><p:normalViewPr><p:restoredLeft sz="15620"/><p:restoredTop sz="94660"/></p:normalViewPr>` +
		`<p:gridSpacing cx="76200" cy="76200"/></p:viewPr>`},

	{"ppt/tableStyles.xml", `<a:tblStyleLst xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`},

	{"ppt/theme/theme1.xml", blankTheme},

	{"ppt/slideMasters/slideMaster1.xml", blankMaster},

	{"ppt/slideMasters/_rels/slideMaster1.xml.rels", `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout2.xml"/>` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
		`</Relationships>`},

	{"ppt/slideLayouts/slideLayout1.xml", `<p:sldLayout ` + pmlNamespaces + ` type="title" preserve="1"><p:cSld name="Title Slide"><p:spTree>` +
		groupProps +
		layoutShape(2, "Title 1", `type="ctrTitle"`) +
		layoutShape(3, "Subtitle 2", `type="subTitle" idx="1"`) +
		`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`},

	{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", layoutRels},

	{"ppt/slideLayouts/slideLayout2.xml", `<p:sldLayout ` + pmlNamespaces + ` type="obj" preserve="1"><p:cSld name="Title and Content"><p:spTree>` +
		groupProps +
		layoutShape(2, "Title 1", `type="title"`) +
		layoutShape(3, "Content Placeholder 2", `idx="1"`) +
		layoutShape(4, "Date Placeholder 3", `type="dt" sz="half" idx="10"`) +
		layoutShape(5, "Footer Placeholder 4", `type="ftr" sz="quarter" idx="11"`) +
		layoutShape(6, "Slide Number Placeholder 5", `type="sldNum" sz="quarter" idx="12"`) +
		`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`},

	{"ppt/slideLayouts/_rels/slideLayout2.xml.rels", layoutRels},
}

const groupProps = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

const layoutRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

func layoutShape(id int, name, phAttrs string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`+
		`<p:nvPr><p:ph %s/></p:nvPr></p:nvSpPr><p:spPr/>`+
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>`, id, name, phAttrs)
}

func masterShape(id int, name, phAttrs string, x, y, cx, cy int64, anchor string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`+
		`<p:nvPr><p:ph %s/></p:nvPr></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`+
		`<p:txBody><a:bodyPr vert="horz" lIns="91440" tIns="45720" rIns="91440" bIns="45720" rtlCol="0" anchor="%s"><a:normAutofit/></a:bodyPr>`+
		`<a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>`, id, name, phAttrs, x, y, cx, cy, anchor)
}

func textLevel(tag, size, font string) string {
	return `<a:` + tag + `><a:defRPr sz="` + size + `" kern="1200"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill>` +
		`<a:latin typeface="+` + font + `-lt"/><a:ea typeface="+` + font + `-ea"/><a:cs typeface="+` + font + `-cs"/></a:defRPr></a:` + tag + `>`
}

var blankMaster = `<p:sldMaster ` + pmlNamespaces + `><p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` +
	groupProps +
	masterShape(2, "Title Placeholder 1", `type="title"`, 838200, 365125, 10515600, 1325563, "ctr") +
	masterShape(3, "Text Placeholder 2", `type="body" idx="1"`, 838200, 1825625, 10515600, 4351338, "t") +
	masterShape(4, "Date Placeholder 3", `type="dt" sz="half" idx="2"`, 838200, 6356350, 2743200, 365125, "ctr") +
	masterShape(5, "Footer Placeholder 4", `type="ftr" sz="quarter" idx="3"`, 4038600, 6356350, 4114800, 365125, "ctr") +
	masterShape(6, "Slide Number Placeholder 5", `type="sldNum" sz="quarter" idx="4"`, 8610600, 6356350, 2743200, 365125, "ctr") +
	`</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/><p:sldLayoutId id="2147483650" r:id="rId2"/></p:sldLayoutIdLst>` +
	`<p:txStyles>` +
	`<p:titleStyle>` + textLevel("lvl1pPr", "4400", "mj") + `</p:titleStyle>` +
	`<p:bodyStyle>` + textLevel("lvl1pPr", "2800", "mn") + textLevel("lvl2pPr", "2400", "mn") + `</p:bodyStyle>` +
	`<p:otherStyle>` + textLevel("lvl1pPr", "1800", "mn") + `</p:otherStyle>` +
	`</p:txStyles></p:sldMaster>`

func schemeColor(name, rgb string) string {
	return `<a:` + name + `><a:srgbClr val="` + rgb + `"/></a:` + name + `>`
}

func fontSet(tag, latin string) string {
	return `<a:` + tag + `><a:latin typeface="` + latin + `"/><a:ea typeface=""/><a:cs typeface=""/></a:` + tag + `>`
}

const phFill = `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`

func lineStyle(w string) string {
	return `<a:ln w="` + w + `" cap="flat" cmpd="sng" algn="ctr">` + phFill + `<a:prstDash val="solid"/><a:miter lim="800000"/></a:ln>`
}

var blankTheme = `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office Theme"><a:themeElements>` +
	`<a:clrScheme name="Office">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1><a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	schemeColor("dk2", "44546A") + schemeColor("lt2", "E7E6E6") +
	schemeColor("accent1", "4472C4") + schemeColor("accent2", "ED7D31") + schemeColor("accent3", "A5A5A5") +
	schemeColor("accent4", "FFC000") + schemeColor("accent5", "5B9BD5") + schemeColor("accent6", "70AD47") +
	schemeColor("hlink", "0563C1") + schemeColor("folHlink", "954F72") +
	`</a:clrScheme>` +
	`<a:fontScheme name="Office">` + fontSet("majorFont", "Calibri Light") + fontSet("minorFont", "Calibri") + `</a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst>` + phFill + phFill + phFill + `</a:fillStyleLst>` +
	`<a:lnStyleLst>` + lineStyle("6350") + lineStyle("12700") + lineStyle("19050") + `</a:lnStyleLst>` +
	`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
	`<a:bgFillStyleLst>` + phFill + phFill + phFill + `</a:bgFillStyleLst>` +
	`</a:fmtScheme></a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>`

// NewBlank returns an empty widescreen presentation
func NewBlank() (*Presentation, error) {
	pkg := newPackage()
	for _, part := range blankParts {
		doc, err := newXMLDocument(xmlHeader + part.body)
		if err != nil {
			return nil, fmt.Errorf("building blank %s: %w", part.name, err)
		}
		pkg.SetXML(part.name, doc)
	}
	return fromPackage(pkg)
}
