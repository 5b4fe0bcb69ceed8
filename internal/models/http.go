// Package models defines the request and response bodies exchanged with
// clients. The boundary convention is camelCase JSON.
package models

import "time"

// CreateDiscRequest is the body of POST /discs. DateFound may be supplied
// to seed historical data; it defaults to the time of the request.
type CreateDiscRequest struct {
	OwnerName   string     `json:"ownerName"`
	PhoneNumber string     `json:"phoneNumber"`
	DiscType    string     `json:"discType"`
	DiscColor   string     `json:"discColor"`
	BinNumber   *int64     `json:"binNumber"`
	DateFound   *time.Time `json:"dateFound"`
}

// UpdateDiscRequest is the body of PATCH /admin/discs/{id}. Nil fields
// keep their stored value.
type UpdateDiscRequest struct {
	OwnerName   *string `json:"ownerName"`
	PhoneNumber *string `json:"phoneNumber"`
	DiscType    *string `json:"discType"`
	DiscColor   *string `json:"discColor"`
	BinNumber   *int64  `json:"binNumber"`
}

// LoginRequest is the body of POST /admin/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued on a successful login.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// StatusResponse reports whether the request carries a valid admin marker.
type StatusResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// CleanupResponse reports how many records a retention run affected.
type CleanupResponse struct {
	Success   bool   `json:"success"`
	Processed int64  `json:"discsProcessed"`
	Message   string `json:"message"`
}

// MessageResponse is the generic success body for mutations.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DiscTypeEntry is one element of the GET /discs/types response.
type DiscTypeEntry struct {
	Type string `json:"type"`
}

// DiscColorEntry is one element of the GET /discs/colors response.
type DiscColorEntry struct {
	Color string `json:"color"`
}

// ResendSMSResponse is the stubbed body of the resend-sms endpoint.
type ResendSMSResponse struct {
	Success      bool   `json:"success"`
	SMSDelivered bool   `json:"smsDelivered"`
	Message      string `json:"message"`
}
