package record

import (
	"testing"

	"github.com/beevik/etree"
)

const sampleRecord = `<Symbol version="2">
  <ID>ISO7000-0001</ID>
  <Date_Released>2004-01-15</Date_Released>
  <CR>false</CR>
  <Category>general</Category>
  <Modified>2019-05-01</Modified>
  <Title_EN>Ear   protection</Title_EN>
  <Title_DE>Gehörschutz</Title_DE>
  <Description_EN>
    <text>[</text>
    <text>A legacy
      symbol.</text>
    <text>]</text>
  </Description_EN>
  <Description_FR><text>Symbole</text><text>ancien.</text></Description_FR>
  <Remarks_EN><text>First</text><text>second.</text></Remarks_EN>
  <Remarks_DE/>
  <Keywords_EN>hearing</Keywords_EN>
  <Keywords_DE><text>Gehör</text><text>Schutz</text></Keywords_DE>
  <FormSize_EN>10 mm</FormSize_EN>
  <FormSize_DE>10 mm</FormSize_DE>
  <FormShape>circle</FormShape>
  <Function>warning</Function>
  <Authors><text>A. Author</text><text>B. Author</text></Authors>
  <RelevantTCs/>
  <Note_QX>unknown language</Note_QX>
  <Attachments><text>icon.png</text><text>icon.png</text></Attachments>
</Symbol>`

func parseRoot(t *testing.T, s string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		t.Fatalf("parse xml: %v", err)
	}
	if doc.Root() == nil {
		t.Fatal("no root element")
	}
	return doc.Root()
}
