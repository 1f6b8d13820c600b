package testparser

import "strings"

// ProtocolTAP is the identifier of the Test Anything Protocol.
const ProtocolTAP = "tap"

// Registry maps launcher protocol identifiers to their parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates a new parser registry with all built-in parsers.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	tapParser := &TAPParser{}
	r.parsers[ProtocolTAP] = tapParser
	r.parsers["tap13"] = tapParser
	r.parsers["tap14"] = tapParser

	return r
}

// GetParser returns a parser for the given protocol identifier.
// Returns nil if no parser is found.
func (r *Registry) GetParser(protocol string) Parser {
	return r.parsers[strings.ToLower(protocol)]
}

// RegisterParser adds a custom parser for a protocol.
func (r *Registry) RegisterParser(protocol string, parser Parser) {
	r.parsers[strings.ToLower(protocol)] = parser
}

// Protocols returns the registered protocol identifiers.
func (r *Registry) Protocols() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	return names
}
