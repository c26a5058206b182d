package types

// ErrorEnvelope is the wire shape for every failed request.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// MessageEnvelope is the wire shape for cart mutations: a short human-readable
// message plus the updated cart.
type MessageEnvelope struct {
	Message string `json:"message"`
	Cart    any    `json:"cart"`
}
