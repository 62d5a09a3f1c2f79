package menu

import (
	"encoding/xml"

	"github.com/spf13/cast"
)

// xmlMenu collects every child element in document order; the element name
// carries the entry kind, so <file> and <directory> siblings stay interleaved.
type xmlMenu struct {
	Items []xmlItem `xml:",any"`
}

type xmlItem struct {
	XMLName xml.Name
	Path    []string   `xml:"path"`
	Name    []string   `xml:"name"`
	Attrs   []xml.Attr `xml:",any,attr"`
}

func (it xmlItem) attr(name string) (string, bool) {
	for _, a := range it.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// hidden reports display="false" (exact, case-sensitive) or hidden="true".
func (it xmlItem) hidden() bool {
	if v, ok := it.attr("display"); ok {
		if v == "false" {
			return true
		}
	}
	if v, ok := it.attr("hidden"); ok {
		return cast.ToBool(v)
	}
	return false
}

func (it xmlItem) index() bool {
	v, ok := it.attr("index")
	return ok && cast.ToBool(v)
}

// parseXML reads a root element whose children are navigation entries:
//
//	<menu>
//	  <file><path>/index</path><name>Home</name></file>
//	  <directory display="false"><path>/guide/</path><name>Guide</name></directory>
//	</menu>
func parseXML(data []byte) ([]Node, int, error) {
	var m xmlMenu
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, 0, err
	}

	nodes := make([]Node, 0, len(m.Items))
	skipped := 0
	for _, it := range m.Items {
		if len(it.Path) == 0 || len(it.Name) == 0 {
			skipped++
			continue
		}
		nodes = append(nodes, Node{
			Path:         it.Path[0],
			Name:         it.Name[0],
			IsDirectory:  it.XMLName.Local == "directory",
			Hidden:       it.hidden(),
			IsIndexEntry: it.index(),
		})
	}
	return nodes, skipped, nil
}
