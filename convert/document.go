package convert

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"symconv/attach"
	"symconv/record"
)

// StatusValid is the only status converted records get.
const StatusValid = "valid"

const dateLayout = "2006-01-02"

// Date is calendar date, serialized as plain YYYY-MM-DD timestamp.
type Date time.Time

func (d Date) String() string {
	return time.Time(d).Format(dateLayout)
}

func (d Date) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: d.String()}, nil
}

func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	t, err := time.Parse(dateLayout, node.Value)
	if err != nil {
		return fmt.Errorf("unable to parse date %q: %w", node.Value, err)
	}
	*d = Date(t)
	return nil
}

// Document is the converted record as consumers see it.
type Document struct {
	ID           string        `yaml:"id"`
	DateAccepted Date          `yaml:"dateAccepted"`
	Status       string        `yaml:"status"`
	Data         record.Fields `yaml:"data"`
}

// Assemble puts converted record together. Fields are not modified.
func Assemble(id string, hdr record.Header, fields record.Fields, atts attach.Attachments) *Document {
	data := make(record.Fields, len(fields)+1)
	for k, v := range fields {
		data[k] = v
	}
	data[record.AttachmentsField] = atts

	return &Document{
		ID:           id,
		DateAccepted: Date(hdr.Released),
		Status:       StatusValid,
		Data:         data,
	}
}

// Convert runs parsed record through normalization stages and assembles
// output document.
func Convert(src *record.Source, emb *attach.Embedder, log *zap.Logger) (*Document, error) {
	hdr, fields, err := record.Extract(record.Normalize(src.Root))
	if err != nil {
		return nil, err
	}
	for _, name := range record.ListFields {
		if _, ok := fields[name].(record.Localized); ok {
			log.Debug("Localized list field flattened, languages dropped", zap.String("field", name))
		}
	}
	fields = record.JoinText(record.CoerceLists(fields))

	names, fields := record.TakeAttachments(fields)
	atts, err := emb.Embed(hdr.Identifier, names, log)
	if err != nil {
		return nil, err
	}
	return Assemble(src.ID, hdr, fields, atts), nil
}
