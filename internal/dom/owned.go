package dom

import (
	"encoding/json"

	"golang.org/x/net/html"
)

// Owned is a node that has been detached from its source tree. Whoever holds
// the Owned value is the node's only owner.
type Owned struct {
	node *html.Node
}

// Take detaches n from its parent and hands ownership to the caller.
func Take(n *html.Node) Owned {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	return Owned{node: n}
}

// TakeAll detaches every node in order.
func TakeAll(nodes []*html.Node) []Owned {
	out := make([]Owned, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Take(n))
	}
	return out
}

// Node returns the owned node.
func (o Owned) Node() *html.Node {
	return o.node
}

// Text returns the text content of the owned node.
func (o Owned) Text() string {
	return Text(o.node)
}

// HTML serializes the owned node.
func (o Owned) HTML() string {
	if o.node == nil {
		return ""
	}
	return Render(o.node)
}

// MarshalJSON encodes the node as its HTML serialization.
func (o Owned) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.HTML())
}
