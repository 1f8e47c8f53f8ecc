package render

import (
	_ "embed"
	htmltemplate "html/template"
)

//go:embed assets/template.html
var templateHTML string

//go:embed assets/sidedoc.css
var baseCSS []byte

var pageTemplate = htmltemplate.Must(htmltemplate.New("page").Parse(templateHTML))

type renderedSection struct {
	Num      int
	DocsHTML htmltemplate.HTML
	CodeHTML htmltemplate.HTML
}

type pageData struct {
	Title      string
	Stylesheet string
	Date       string
	Sections   []renderedSection
}
