// Package document synthesizes single-page PDF reports without an external
// renderer. Text is drawn with a CJK font that is referenced, not embedded,
// so glyph fidelity depends on the viewer.
package document

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

const (
	ContentType = "application/pdf"

	header = "%PDF-1.4\n"

	pageWidth  = 595
	pageHeight = 842
	fontName   = "F1"
	fontSize   = 12
	leading    = 18
	originX    = 50
	originY    = 800

	baseFont   = "STSong-Light"
	cmap       = "UniGB-UCS2-H"
	registry   = "Adobe"
	ordering   = "GB1"
	supplement = 4
)

// byteOrderMark prefixes every encoded line.
var byteOrderMark = []byte{0xFE, 0xFF}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// object is one indirect object; its index is its position in the graph
// plus one.
type object struct {
	dict   string
	stream []byte
}

func (o object) write(buf *bytes.Buffer, index int) {
	fmt.Fprintf(buf, "%d 0 obj\n", index)
	buf.WriteString(o.dict)
	if o.stream != nil {
		buf.WriteString("\nstream\n")
		buf.Write(o.stream)
		buf.WriteString("\nendstream")
	}
	buf.WriteString("\nendobj\n")
}

// Render returns a complete PDF showing lines top to bottom, one per line.
// An empty slice still yields a valid, blank page.
func Render(lines []string) []byte {
	return assemble(graph(contentStream(lines)))
}

func contentStream(lines []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("BT\n")
	fmt.Fprintf(&buf, "/%s %d Tf\n", fontName, fontSize)
	fmt.Fprintf(&buf, "%d %d Td\n", originX, originY)
	fmt.Fprintf(&buf, "%d TL\n", leading)
	for _, line := range lines {
		fmt.Fprintf(&buf, "<%s> Tj T*\n", encodeLine(line))
	}
	buf.WriteString("ET")
	return buf.Bytes()
}

// encodeLine returns the BOM-prefixed UTF-16BE form of line as uppercase
// hex. Each run of invalid UTF-8 becomes one U+FFFD.
func encodeLine(line string) string {
	encoded, err := utf16BE.NewEncoder().String(strings.ToValidUTF8(line, "\uFFFD"))
	if err != nil {
		encoded = ""
	}

	out := make([]byte, 0, len(byteOrderMark)+len(encoded))
	out = append(out, byteOrderMark...)
	out = append(out, encoded...)
	return strings.ToUpper(hex.EncodeToString(out))
}

func graph(content []byte) []object {
	return []object{
		{dict: "<< /Type /Catalog /Pages 2 0 R >>"},
		{dict: "<< /Type /Pages /Kids [3 0 R] /Count 1 >>"},
		{dict: fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /%s 5 0 R >> >> /Contents 4 0 R >>",
			pageWidth, pageHeight, fontName)},
		{dict: "<< /Length " + strconv.Itoa(len(content)) + " >>", stream: content},
		{dict: fmt.Sprintf(
			"<< /Type /Font /Subtype /Type0 /BaseFont /%s /Encoding /%s /DescendantFonts [6 0 R] >>",
			baseFont, cmap)},
		{dict: fmt.Sprintf(
			"<< /Type /Font /Subtype /CIDFontType0 /BaseFont /%s /CIDSystemInfo << /Registry (%s) /Ordering (%s) /Supplement %d >> /FontDescriptor 7 0 R /DW 1000 >>",
			baseFont, registry, ordering, supplement)},
		{dict: fmt.Sprintf(
			"<< /Type /FontDescriptor /FontName /%s /Flags 6 /FontBBox [-25 -254 1000 880] /ItalicAngle 0 /Ascent 880 /Descent -120 /CapHeight 880 /StemV 93 >>",
			baseFont)},
	}
}

// assemble writes objects in index order, recording each object's starting
// byte offset for the cross-reference table.
func assemble(objects []object) []byte {
	var buf bytes.Buffer
	buf.WriteString(header)

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		obj.write(&buf, i+1)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\n", len(objects)+1)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)

	return buf.Bytes()
}
