package ast

// ContractDescriptor is the serializable digest of one indexed
// contract, suitable for embedding in artifact bundles.
type ContractDescriptor struct {
	File           string   `json:"file"`
	Name           string   `json:"name"`
	Kind           string   `json:"kind"`
	Abstract       bool     `json:"abstract,omitempty"`
	Bases          []string `json:"bases,omitempty"`
	StateVariables []string `json:"state_variables,omitempty"`
	Functions      []string `json:"functions,omitempty"`
	Modifiers      []string `json:"modifiers,omitempty"`
}

// Describe flattens the index into contract descriptors, preserving
// the index's deterministic order.
func (x *Index) Describe() []ContractDescriptor {
	descriptors := make([]ContractDescriptor, 0, len(x.Contracts))
	for _, c := range x.Contracts {
		d := ContractDescriptor{
			File:     c.Path,
			Name:     c.Name,
			Kind:     c.Kind,
			Abstract: c.Abstract,
			Bases:    c.Bases,
		}
		for _, v := range c.StateVariables {
			d.StateVariables = append(d.StateVariables, v.Name)
		}
		for _, f := range c.Functions {
			name := f.Name
			if name == "" {
				name = f.String("kind")
			}
			d.Functions = append(d.Functions, name)
		}
		for _, m := range c.Modifiers {
			d.Modifiers = append(d.Modifiers, m.Name)
		}
		descriptors = append(descriptors, d)
	}
	return descriptors
}
