package steleto

import (
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// writeXML emits every header column of every record:
//
//	<data>
//	  <row id="1">
//	    <col name="name">Alice</col>
//	  </row>
//	</data>
func writeXML(w io.Writer, header Header, records []Record) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	data := doc.CreateElement("data")
	for i, rec := range records {
		row := data.CreateElement("row")
		row.CreateAttr("id", strconv.Itoa(i+1))
		for _, name := range header {
			col := row.CreateElement("col")
			col.CreateAttr("name", name)
			col.SetText(strings.TrimSpace(rec[name]))
		}
	}
	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
