// Package smsparser locates transaction records inside mobile-money SMS XML
// exports of unknown shape and flattens them into raw field maps.
package smsparser

import (
	"fmt"
	"os"
	"strings"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/etlerror"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/logging"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"

	"github.com/beevik/etree"
	"gopkg.in/xmlpath.v2"
)

// Tags recognized during record discovery. A record-shaped element holds one
// transaction; a container holds record-shaped children.
var (
	recordTags    = []string{"sms", "transaction"}
	containerTags = []string{"smses", "transactions", "data"}
)

// Parser discovers and flattens transaction records from XML documents.
type Parser struct {
	logger logging.Logger
}

// New creates a Parser with the given logger.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Parser{logger: logger}
}

// ParseFile reads an XML file and returns one RawRecord per discovered
// transaction element. A structurally invalid document is a fatal error;
// a valid document with zero records yields an empty slice.
func (p *Parser) ParseFile(xmlFile string) ([]models.RawRecord, error) {
	p.logger.WithField("file", xmlFile).Info("Parsing SMS XML file")

	data, err := os.ReadFile(xmlFile)
	if err != nil {
		return nil, &etlerror.ParseError{File: xmlFile, Err: err}
	}

	records, err := p.Parse(data)
	if err != nil {
		if pe, ok := err.(*etlerror.ParseError); ok {
			pe.File = xmlFile
		}
		return nil, err
	}

	p.logger.WithFields(
		logging.F("file", xmlFile),
		logging.F("count", len(records)),
	).Info("Discovered transaction records")
	return records, nil
}

// Parse discovers records in an in-memory XML document.
func (p *Parser) Parse(data []byte) ([]models.RawRecord, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &etlerror.ParseError{Err: err}
	}

	root := doc.Root()
	if root == nil {
		return nil, &etlerror.ParseError{Err: fmt.Errorf("document has no root element")}
	}

	elements := discoverRecords(root)
	records := make([]models.RawRecord, 0, len(elements))
	for _, el := range elements {
		records = append(records, flattenElement(el))
	}
	return records, nil
}

// discoverRecords applies the discovery precedence: a record-shaped root is
// the sole record; a known container root contributes its direct
// record-shaped children; anything else triggers a recursive search.
func discoverRecords(root *etree.Element) []*etree.Element {
	if hasTag(recordTags, root.Tag) {
		return []*etree.Element{root}
	}

	if hasTag(containerTags, root.Tag) {
		for _, tag := range recordTags {
			if children := directChildren(root, tag); len(children) > 0 {
				return children
			}
		}
		return nil
	}

	for _, tag := range recordTags {
		if found := descendants(root, tag); len(found) > 0 {
			return found
		}
	}
	return nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func directChildren(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
	}
	return out
}

func descendants(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
		out = append(out, descendants(child, tag)...)
	}
	return out
}

// flattenElement merges an element's attributes and direct children into a
// RawRecord. Children are merged after attributes, so a child tag wins over
// an attribute of the same name. Names are taken verbatim; alias resolution
// belongs to the normalizer.
func flattenElement(el *etree.Element) models.RawRecord {
	raw := make(models.RawRecord)

	for _, attr := range el.Attr {
		value := attr.Value
		raw[attr.Key] = &value
	}

	for _, child := range el.ChildElements() {
		text := strings.TrimSpace(child.Text())
		if text == "" {
			raw[child.Tag] = nil
			continue
		}
		raw[child.Tag] = &text
	}

	return raw
}

// ValidateFormat checks that a file is well-formed XML containing at least
// one record-shaped element. An unreadable file is an error; a readable file
// that simply is not an SMS export returns false without error.
func (p *Parser) ValidateFormat(xmlFile string) (bool, error) {
	p.logger.WithField("file", xmlFile).Debug("Validating SMS XML format")

	f, err := os.Open(xmlFile)
	if err != nil {
		return false, fmt.Errorf("error opening XML file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	root, err := xmlpath.Parse(f)
	if err != nil {
		p.logger.WithError(err).Debug("File is not valid XML")
		return false, nil
	}

	for _, tag := range recordTags {
		path := xmlpath.MustCompile("//" + tag)
		if path.Iter(root).Next() {
			return true, nil
		}
	}

	p.logger.WithField("file", xmlFile).Debug("No transaction records found in XML")
	return false, nil
}
