package rest_err

const (
	ErrBadRequest          = "bad_request"
	ErrInternalServerError = "internal_server_error"
	ErrNotFound            = "not_found"
	ErrForbidden           = "forbidden"
	ErrUnauthorized        = "unauthorized"
	ErrTooManyRequests     = "too_many_requests"
	ErrExternalProvider    = "external_provider_error"
	ErrConflict            = "conflict"
)
