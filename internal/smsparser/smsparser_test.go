package smsparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/etlerror"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *Parser {
	return New(logging.NewMockLogger())
}

func TestParseRecordRoot(t *testing.T) {
	p := newTestParser()

	records, err := p.Parse([]byte(`<sms Id="TXN_000001" Amount="500"/>`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "TXN_000001", records[0].Get("Id"))
	assert.Equal(t, "500", records[0].Get("Amount"))
}

func TestParseContainerRoot(t *testing.T) {
	p := newTestParser()

	xml := `<smses count="2">
  <sms Id="A"/>
  <sms Id="B"/>
</smses>`
	records, err := p.Parse([]byte(xml))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0].Get("Id"))
	assert.Equal(t, "B", records[1].Get("Id"))
}

func TestParseContainerWithTransactionChildren(t *testing.T) {
	p := newTestParser()

	xml := `<data>
  <transaction><Id>T1</Id></transaction>
  <transaction><Id>T2</Id></transaction>
</data>`
	records, err := p.Parse([]byte(xml))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "T1", records[0].Get("Id"))
}

func TestParseDeeplyNested(t *testing.T) {
	p := newTestParser()

	xml := `<backup>
  <export>
    <messages>
      <sms Id="deep1"/>
      <sms Id="deep2"/>
    </messages>
  </export>
</backup>`
	records, err := p.Parse([]byte(xml))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "deep1", records[0].Get("Id"))
}

func TestParseRecordTagPrecedence(t *testing.T) {
	p := newTestParser()

	// sms elements shadow transaction elements during the recursive search.
	xml := `<backup>
  <sms Id="S1"/>
  <transaction Id="T1"/>
</backup>`
	records, err := p.Parse([]byte(xml))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "S1", records[0].Get("Id"))
}

func TestParseZeroRecords(t *testing.T) {
	p := newTestParser()

	records, err := p.Parse([]byte(`<notes><note>hello</note></notes>`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseMalformedXML(t *testing.T) {
	p := newTestParser()

	_, err := p.Parse([]byte(`<smses><sms`))
	require.Error(t, err)

	var parseErr *etlerror.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestFlattenAttributesAndChildren(t *testing.T) {
	p := newTestParser()

	xml := `<sms Id="attr-id" Amount="100">
  <Id>child-id</Id>
  <Sender>0788123456</Sender>
  <Status/>
</sms>`
	records, err := p.Parse([]byte(xml))
	require.NoError(t, err)
	require.Len(t, records, 1)

	raw := records[0]
	// A child tag wins over an attribute of the same name.
	assert.Equal(t, "child-id", raw.Get("Id"))
	assert.Equal(t, "100", raw.Get("Amount"))
	assert.Equal(t, "0788123456", raw.Get("Sender"))

	// An empty child is present with a nil value.
	value, present := raw["Status"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestParseFileMissing(t *testing.T) {
	p := newTestParser()

	_, err := p.ParseFile(filepath.Join(t.TempDir(), "missing.xml"))
	require.Error(t, err)

	var parseErr *etlerror.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestValidateFormat(t *testing.T) {
	p := newTestParser()
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.xml")
	require.NoError(t, os.WriteFile(valid, []byte(`<smses><sms Id="1"/></smses>`), 0600))

	ok, err := p.ValidateFormat(valid)
	require.NoError(t, err)
	assert.True(t, ok)

	noRecords := filepath.Join(dir, "norecords.xml")
	require.NoError(t, os.WriteFile(noRecords, []byte(`<notes><note/></notes>`), 0600))

	ok, err = p.ValidateFormat(noRecords)
	require.NoError(t, err)
	assert.False(t, ok)

	notXML := filepath.Join(dir, "notxml.txt")
	require.NoError(t, os.WriteFile(notXML, []byte("<broken><xml"), 0600))

	ok, err = p.ValidateFormat(notXML)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.ValidateFormat(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}

func TestWriteSampleXML(t *testing.T) {
	p := newTestParser()
	path := filepath.Join(t.TempDir(), "sample.xml")

	require.NoError(t, WriteSampleXML(path, 5, 42))

	records, err := p.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "TXN_000001", records[0].Get("Id"))
	assert.NotEmpty(t, records[0].Get("Amount"))
}
