package model

import "encoding/json"

// Envelope is the wrapper every API response follows:
// { success, message, data }. A success=false body is an application
// error regardless of the HTTP status.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}
