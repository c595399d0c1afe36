package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// SealedRequest is the request body carrying an encrypted JSON payload.
type SealedRequest struct {
	EncryptedData string `json:"encryptedData" validate:"required"`
}

type MessageEnvelope struct {
	Updated bool   `json:"updated"`
	Message string `json:"message,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
