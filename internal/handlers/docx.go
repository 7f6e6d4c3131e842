package handlers

import (
	"archive/zip"
	"bytes"
	"io"
)

// A freshly created document starts life as a minimal empty DOCX so the
// stored file and the inline HTML agree.

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const docxDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p/></w:body>
</w:document>`

// emptyDocx is assembled once at startup; a build failure is a programming
// error, not a runtime condition.
var emptyDocx = buildEmptyDocx()

func buildEmptyDocx() []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range []struct{ name, body string }{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", docxDocument},
	} {
		f, err := zw.Create(part.name)
		if err != nil {
			panic("building empty docx: " + err.Error())
		}
		if _, err := f.Write([]byte(part.body)); err != nil {
			panic("building empty docx: " + err.Error())
		}
	}
	if err := zw.Close(); err != nil {
		panic("building empty docx: " + err.Error())
	}
	return buf.Bytes()
}

func emptyDocxReader() io.Reader {
	return bytes.NewReader(emptyDocx)
}
