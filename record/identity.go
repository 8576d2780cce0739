package record

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// Identity returns version 5 UUID (OID namespace) of the element serialized
// back to XML text. Attribute order and white space are kept as parsed so
// identity follows the text of the record, not its XML meaning.
func Identity(el *etree.Element) (string, error) {
	text, err := etree.NewDocumentWithRoot(el.Copy()).WriteToString()
	if err != nil {
		return "", fmt.Errorf("unable to serialize element: %w", err)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(text)).String(), nil
}
