package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// ODT is a zip container. The mimetype entry must come first and be
// stored uncompressed, per the OpenDocument packaging rules.
const odtMimetype = "application/vnd.oasis.opendocument.text"

const odtManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
 <manifest:file-entry manifest:full-path="/" manifest:media-type="application/vnd.oasis.opendocument.text"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
 <manifest:file-entry manifest:full-path="meta.xml" manifest:media-type="text/xml"/>
 <manifest:file-entry manifest:full-path="styles.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`

const odtStyles = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-styles xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" office:version="1.2">
 <office:styles/>
</office:document-styles>
`

const odtContentHeader = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" office:version="1.2">
 <office:body>
  <office:text>
`

const odtContentFooter = `  </office:text>
 </office:body>
</office:document-content>
`

func renderODT(text string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	// mimetype first, uncompressed
	mt, err := w.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return nil, err
	}
	if _, err := mt.Write([]byte(odtMimetype)); err != nil {
		return nil, err
	}

	entries := map[string]string{
		"META-INF/manifest.xml": odtManifest,
		"content.xml":           odtContent(text),
		"meta.xml":              odtMeta(),
		"styles.xml":            odtStyles,
	}
	for _, name := range []string{"META-INF/manifest.xml", "content.xml", "meta.xml", "styles.xml"} {
		f, err := w.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write([]byte(entries[name])); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close odt container: %w", err)
	}
	return buf.Bytes(), nil
}

func odtContent(text string) string {
	var b strings.Builder
	b.WriteString(odtContentHeader)
	for _, para := range splitParagraphs(text) {
		b.WriteString("   <text:p>")
		b.WriteString(escapeXML(para))
		b.WriteString("</text:p>\n")
	}
	b.WriteString(odtContentFooter)
	return b.String()
}

func odtMeta() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<office:document-meta xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:meta="urn:oasis:names:tc:opendocument:xmlns:meta:1.0" office:version="1.2">
 <office:meta>
  <meta:creation-date>%s</meta:creation-date>
 </office:meta>
</office:document-meta>
`, time.Now().UTC().Format(time.RFC3339))
}

func escapeXML(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
