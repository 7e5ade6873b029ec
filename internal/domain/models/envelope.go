package models

import "time"

// Action names accepted by the remote store endpoint.
const (
	ActionGetProducts   = "getProducts"
	ActionAddProduct    = "addProduct"
	ActionUpdateProduct = "updateProduct"
	ActionDeleteProduct = "deleteProduct"
	ActionGetSales      = "getSales"
	ActionAddSale       = "addSale"
)

// ActionRequest is the wire shape of a remote store request: an action name
// plus the action-specific payload fields.
type ActionRequest struct {
	Action  string   `json:"action"`
	Product *Product `json:"product,omitempty"`
	Sale    *Sale    `json:"sale,omitempty"`
	ID      string   `json:"id,omitempty"`
}

// Envelope is the uniform response wrapper every remote store call returns.
type Envelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// OK builds a success envelope.
func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data, Timestamp: time.Now().UTC()}
}

// Fail builds a failure envelope. Data is always null on failure.
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message, Timestamp: time.Now().UTC()}
}
