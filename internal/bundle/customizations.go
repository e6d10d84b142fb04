package bundle

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/mrz1836/dsf/internal/constants"
	"github.com/mrz1836/dsf/internal/domain"
	dsferrors "github.com/mrz1836/dsf/internal/errors"
)

var errNoRootElement = errors.New("no root element")

// parseConnectionReferences reads connection reference slots from a
// customizations document. It returns found=false when no container element
// exists. The whole document is read so a malformed tail still fails.
func parseConnectionReferences(r io.Reader) (refs []domain.ConnectionReference, found bool, err error) {
	dec := xml.NewDecoder(r)
	refs = []domain.ConnectionReference{}
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if !sawRoot {
				return nil, false, malformed(errNoRootElement)
			}
			return refs, found, nil
		}
		if err != nil {
			return nil, false, malformed(err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if found || start.Name.Local != constants.XMLConnectionReferences {
			continue
		}

		found = true
		if refs, err = readContainer(dec); err != nil {
			return nil, false, err
		}
	}
}

// readContainer reads the direct children of the container element and
// consumes its end element.
func readContainer(dec *xml.Decoder) ([]domain.ConnectionReference, error) {
	refs := []domain.ConnectionReference{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			ref, err := readReference(dec, t)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		case xml.EndElement:
			return refs, nil
		}
	}
}

// readReference builds one slot from a container child. The logical name
// comes from an attribute, the connector id from the first direct child
// element named connectorid.
func readReference(dec *xml.Decoder, start xml.StartElement) (domain.ConnectionReference, error) {
	var ref domain.ConnectionReference
	for _, attr := range start.Attr {
		if attr.Name.Local == constants.XMLLogicalNameAttr {
			ref.LogicalName = domain.StringPtr(attr.Value)
			break
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return ref, malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == constants.XMLConnectorID && ref.ConnectorID == nil {
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return ref, malformed(err)
				}
				ref.ConnectorID = domain.StringPtr(text)
				continue
			}
			if err := dec.Skip(); err != nil {
				return ref, malformed(err)
			}
		case xml.EndElement:
			return ref, nil
		}
	}
}

func malformed(err error) error {
	return fmt.Errorf("%w: %s: %w", dsferrors.ErrMalformedArtifact, constants.CustomizationsFileName, err)
}
