// Package stylesheet generates the CSS that styles the literal block markup
// the renderer emits for constructs without a Markdown equivalent. Every
// selector is produced through render.WrapperClass, so the stylesheet always
// matches the renderer's deterministic class-naming contract.
package stylesheet

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/g5becks/doxmd/internal/render"
	"github.com/samber/oops"
)

// rule pairs a Doxygen tag with the declarations for its wrapper class.
type rule struct {
	tag  string
	body string
}

// knownTags lists the Doxygen tag vocabulary the stylesheet covers, in
// output order.
func knownTags() []rule {
	return []rule{
		{"para", "margin: 1rem 0;\n    line-height: 1.6;"},
		{"bold", "font-weight: bold;"},
		{"emphasis", "font-style: italic;"},
		{"computeroutput", "font-family: 'Courier New', monospace;\n    background-color: #f5f5f5;\n    padding: 2px 4px;\n    border-radius: 3px;"},
		{"ulink", "color: #007bff;\n    text-decoration: none;"},
		{"ref", "color: #007bff;\n    text-decoration: none;"},
		{"programlisting", "background-color: #f8f8f8;\n    border: 1px solid #ddd;\n    border-radius: 4px;\n    padding: 1rem;\n    margin: 1rem 0;\n    overflow-x: auto;"},
		{"codeline", "font-family: 'Courier New', monospace;\n    white-space: pre;"},
		{"highlight", "font-family: 'Courier New', monospace;"},
		{"sectiondef", "margin: 2rem 0;"},
		{"memberdef", "margin: 1.5rem 0;\n    padding: 1rem;\n    border-left: 4px solid #007bff;\n    background-color: #f8f9fa;"},
		{"param", "margin: 0.5rem 0;"},
		{"declname", "font-weight: bold;\n    font-family: 'Courier New', monospace;"},
		{"defval", "color: #6c757d;\n    font-style: italic;"},
		{"type", "font-family: 'Courier New', monospace;\n    color: #007bff;"},
		{"name", "font-weight: bold;"},
		{"argsstring", "font-family: 'Courier New', monospace;\n    color: #6c757d;"},
		{"briefdescription", "color: #6c757d;\n    font-style: italic;\n    margin-bottom: 0.5rem;"},
		{"detaileddescription", "margin-top: 1rem;"},
		{"includes", "font-family: 'Courier New', monospace;\n    background-color: #f5f5f5;\n    padding: 0.5rem;\n    border-radius: 3px;\n    margin: 0.5rem 0;"},
		{"innergroup", "margin: 0.5rem 0;"},
	}
}

// Generate returns the full stylesheet text.
func Generate() string {
	var out strings.Builder
	out.WriteString("/* doxmd stylesheet */\n")
	out.WriteString(tableRules())

	for _, r := range knownTags() {
		out.WriteString("\n." + render.WrapperClass(r.tag) + " {\n    " + r.body + "\n}\n")
	}

	out.WriteString(responsiveRules())
	return out.String()
}

// Write persists the stylesheet at path, creating parent directories.
func Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "creating stylesheet directory")
	}

	if err := os.WriteFile(path, []byte(Generate()), 0o644); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "writing stylesheet")
	}

	return nil
}

func tableRules() string {
	tableClass := "." + render.TableClass
	return tableClass + ` {
    border-collapse: collapse;
    width: 100%;
    margin: 1rem 0;
}

` + tableClass + ` th,
` + tableClass + ` td {
    border: 1px solid #ddd;
    padding: 8px 12px;
    text-align: left;
}

` + tableClass + ` th {
    background-color: #f5f5f5;
    font-weight: bold;
}

` + tableClass + ` tr:nth-child(even) {
    background-color: #f9f9f9;
}

` + tableClass + ` tr:hover {
    background-color: #f0f0f0;
}
`
}

func responsiveRules() string {
	tableClass := "." + render.TableClass
	memberClass := "." + render.WrapperClass("memberdef")
	return `
@media (max-width: 768px) {
    ` + tableClass + ` {
        font-size: 0.9rem;
    }

    ` + tableClass + ` th,
    ` + tableClass + ` td {
        padding: 6px 8px;
    }

    ` + memberClass + ` {
        padding: 0.75rem;
    }
}
`
}
