package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
	"github.com/Ferpoks/telegram-cv-bot/internal/shared/telemetry"
)

const (
	sidebarFill = "1F3A5F"
	navyColor   = "1F3A5F"
	whiteColor  = "FFFFFF"
)

// RenderDocument produces the DOCX artifact for a record. With a resolved
// template asset the merge-field path is used; otherwise the built-in
// two-column layout is constructed programmatically. Missing optional fields
// are omitted rather than rendered as empty lines.
func RenderDocument(rec resume.Record, resolved Resolved) ([]byte, error) {
	if !resolved.BuiltIn {
		out, err := mergeDocumentTemplate(resolved.Path, rec)
		if err == nil {
			return out, nil
		}
		telemetry.Warn("docx template merge failed, using built-in layout", map[string]any{
			"path": resolved.Path, "err": err.Error(),
		})
	}
	return buildDefaultDocument(rec)
}

// mergeDocumentTemplate rewrites word/document.xml inside the template
// package, substituting merge tokens with record fields.
func mergeDocumentTemplate(path string, rec resume.Record) ([]byte, error) {
	templateBytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	reader, err := zip.NewReader(bytes.NewReader(templateBytes), int64(len(templateBytes)))
	if err != nil {
		return nil, err
	}

	var output bytes.Buffer
	writer := zip.NewWriter(&output)

	for _, file := range reader.File {
		content, err := readZipFile(file)
		if err != nil {
			return nil, err
		}
		if normalizeZipName(file.Name) == "word/document.xml" {
			content = []byte(replaceMergeTokens(string(content), rec))
		}
		if err := writeZipFile(writer, file, content); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func replaceMergeTokens(xmlText string, rec resume.Record) string {
	labels := LabelsFor(rec.Lang)
	skills := strings.Join(resume.SplitSkills(rec.Skills), " • ")

	var exps []string
	for _, exp := range rec.Experiences {
		line := fmt.Sprintf("%s — %s (%s - %s)", exp.Role, exp.Company, exp.Start, exp.End)
		bullets := exp.Bullets
		if len(bullets) > resume.MaxRenderedBullets {
			bullets = bullets[:resume.MaxRenderedBullets]
		}
		if len(bullets) > 0 {
			line += ": " + strings.Join(bullets, "; ")
		}
		exps = append(exps, line)
	}
	var edus []string
	for _, edu := range rec.Educations {
		edus = append(edus, fmt.Sprintf("%s — %s، %s (%s)", edu.Degree, edu.Major, edu.School, edu.Year))
	}

	replacements := map[string]string{
		"{{FULL_NAME}}":   rec.Header.FullName,
		"{{TITLE}}":       rec.Header.Title,
		"{{PHONE}}":       rec.Header.Phone,
		"{{EMAIL}}":       rec.Header.Email,
		"{{CITY}}":        rec.Header.City,
		"{{LINKS}}":       rec.Header.Links,
		"{{SUMMARY}}":     rec.Header.Summary,
		"{{SKILLS}}":      skills,
		"{{EXPERIENCES}}": strings.Join(exps, " | "),
		"{{EDUCATION}}":   strings.Join(edus, " | "),
		"{{L_CONTACT}}":   labels.Contact,
		"{{L_SUMMARY}}":   labels.Summary,
		"{{L_SKILLS}}":    labels.Skills,
		"{{L_EXP}}":       labels.Experience,
		"{{L_EDU}}":       labels.Education,
	}
	for token, value := range replacements {
		xmlText = strings.ReplaceAll(xmlText, token, xmlEscape(value))
	}
	return xmlText
}

// buildDefaultDocument writes a minimal OOXML package: a one-row table with a
// shaded sidebar (contact, education, skills) and a main column (name, title,
// summary, experience).
func buildDefaultDocument(rec resume.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", documentXML(rec)},
	}
	for _, part := range parts {
		f, err := w.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

func documentXML(rec resume.Record) string {
	labels := LabelsFor(rec.Lang)
	rtl := rec.Lang == resume.LangArabic

	var left strings.Builder
	leftHeading := func(text string) {
		left.WriteString(para(rtl, run(text, runBold, runColor(whiteColor), runSize(20))))
	}
	leftLine := func(text string) {
		if text != "" {
			left.WriteString(para(rtl, run(text, runColor(whiteColor), runSize(18))))
		}
	}

	leftHeading(labels.Contact)
	for _, item := range []string{rec.Header.Phone, rec.Header.Email, rec.Header.City, rec.Header.Links} {
		leftLine(item)
	}
	if len(rec.Educations) > 0 {
		leftHeading(labels.Education)
		for _, edu := range rec.Educations {
			leftLine(edu.Degree + " — " + edu.School)
			leftLine(edu.Year)
		}
	}
	skills := resume.SplitSkills(rec.Skills)
	if len(skills) > 0 {
		leftHeading(labels.Skills)
		for _, skill := range skills {
			leftLine("• " + skill)
		}
	}

	var right strings.Builder
	right.WriteString(para(rtl, run(rec.Header.FullName, runBold, runColor(navyColor), runSize(40))))
	if rec.Header.Title != "" {
		right.WriteString(para(rtl, run(rec.Header.Title, runSize(24))))
	}
	if rec.Header.Summary != "" {
		right.WriteString(para(rtl, run(labels.Summary, runBold, runSize(24))))
		right.WriteString(para(rtl, run(rec.Header.Summary, runSize(20))))
	}
	if len(rec.Experiences) > 0 {
		right.WriteString(para(rtl, run(labels.Experience, runBold, runSize(24))))
		for _, exp := range rec.Experiences {
			heading := exp.Role + " — " + exp.Company
			if exp.Start != "" || exp.End != "" {
				heading += fmt.Sprintf(" (%s - %s)", exp.Start, exp.End)
			}
			right.WriteString(para(rtl, run(heading, runBold, runSize(20))))
			bullets := exp.Bullets
			if len(bullets) > resume.MaxRenderedBullets {
				bullets = bullets[:resume.MaxRenderedBullets]
			}
			for _, bullet := range bullets {
				right.WriteString(para(rtl, run("• "+bullet, runSize(20))))
			}
		}
	}

	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	doc.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="10460" w:type="dxa"/><w:tblLayout w:type="fixed"/></w:tblPr>`)
	doc.WriteString(`<w:tblGrid><w:gridCol w:w="3300"/><w:gridCol w:w="7160"/></w:tblGrid><w:tr>`)
	doc.WriteString(`<w:tc><w:tcPr><w:tcW w:w="3300" w:type="dxa"/><w:shd w:val="clear" w:color="auto" w:fill="` + sidebarFill + `"/></w:tcPr>`)
	doc.WriteString(ensureCellContent(left.String(), rtl))
	doc.WriteString(`</w:tc><w:tc><w:tcPr><w:tcW w:w="7160" w:type="dxa"/></w:tcPr>`)
	doc.WriteString(ensureCellContent(right.String(), rtl))
	doc.WriteString(`</w:tc></w:tr></w:tbl>`)
	doc.WriteString(`<w:p/><w:sectPr><w:pgMar w:top="576" w:right="576" w:bottom="576" w:left="576"/></w:sectPr>`)
	doc.WriteString(`</w:body></w:document>`)
	return doc.String()
}

// ensureCellContent guarantees a table cell ends with at least one paragraph,
// which WordprocessingML requires.
func ensureCellContent(paras string, rtl bool) string {
	if paras == "" {
		return para(rtl)
	}
	return paras
}

type runOption func(*runProps)

type runProps struct {
	bold  bool
	color string
	size  int
}

var runBold runOption = func(p *runProps) { p.bold = true }

func runColor(hex string) runOption { return func(p *runProps) { p.color = hex } }

// runSize takes half-points, as WordprocessingML does.
func runSize(halfPoints int) runOption { return func(p *runProps) { p.size = halfPoints } }

func run(text string, opts ...runOption) string {
	var props runProps
	for _, opt := range opts {
		opt(&props)
	}
	var b strings.Builder
	b.WriteString("<w:r><w:rPr>")
	if props.bold {
		b.WriteString("<w:b/>")
	}
	if props.color != "" {
		b.WriteString(`<w:color w:val="` + props.color + `"/>`)
	}
	if props.size > 0 {
		fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, props.size)
	}
	b.WriteString("</w:rPr>")
	fmt.Fprintf(&b, `<w:t xml:space="preserve">%s</w:t>`, xmlEscape(text))
	b.WriteString("</w:r>")
	return b.String()
}

func para(rtl bool, runs ...string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	if rtl {
		b.WriteString("<w:pPr><w:bidi/></w:pPr>")
	}
	for _, r := range runs {
		b.WriteString(r)
	}
	b.WriteString("</w:p>")
	return b.String()
}

func xmlEscape(s string) string {
	var b bytes.Buffer
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func writeZipFile(writer *zip.Writer, source *zip.File, content []byte) error {
	header := source.FileHeader
	header.Name = normalizeZipName(source.Name)

	dst, err := writer.CreateHeader(&header)
	if err != nil {
		return err
	}
	_, err = dst.Write(content)
	return err
}

func normalizeZipName(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}
