package chartex

import "gopkg.in/yaml.v3"

// MarshalStatechartYAML renders the document as YAML. Mapping keys come out
// sorted, so the output is deterministic.
func MarshalStatechartYAML(c *Statechart) ([]byte, error) {
	return yaml.Marshal(c)
}
