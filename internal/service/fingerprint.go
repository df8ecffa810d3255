package service

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"

	"bioroute/internal/domain"
)

type fingerprintNode struct {
	ID     string             `json:"id"`
	TechID string             `json:"tech"`
	Params map[string]float64 `json:"params,omitempty"`
}

type fingerprintInput struct {
	Catalog string            `json:"catalog"`
	Nodes   []fingerprintNode `json:"nodes"`
	Edges   [][2]string       `json:"edges"`
}

// Fingerprint identifies the calculation inputs of route: node ids, tech ids,
// parameters, edges and the catalog content digest. Canvas positions and edge
// handles do not contribute. Node and edge order does, since it decides the
// evaluation order.
func Fingerprint(catalogDigest string, route domain.Route) string {
	in := fingerprintInput{
		Catalog: catalogDigest,
		Nodes:   make([]fingerprintNode, len(route.Nodes)),
		Edges:   make([][2]string, len(route.Edges)),
	}
	for i, n := range route.Nodes {
		in.Nodes[i] = fingerprintNode{ID: n.NodeID, TechID: n.TechID, Params: n.Parameters}
	}
	for i, e := range route.Edges {
		in.Edges[i] = [2]string{e.Source, e.Target}
	}

	// map keys are marshalled sorted, so the encoding is canonical
	data, _ := json.Marshal(in)
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
