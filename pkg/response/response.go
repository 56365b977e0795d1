package response

import "errors"

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

//Error Codes
type ErrCode string

var (
	FAILED_REQUEST    ErrCode = "REQUEST_FAILED"
	BAD_REQUEST       ErrCode = "FAILED_TO_DECODE"
	VALIDATION_FAILED ErrCode = "VALIDATION_FAILED"
	NOT_FOUND         ErrCode = "NOT_FOUND"
	SLOT_TAKEN        ErrCode = "SLOT_TAKEN"
	DUPLICATE_BOOKING ErrCode = "DUPLICATE_BOOKING"
	UNAUTHORIZED      ErrCode = "UNAUTHORIZED"
	TOKEN_EXPIRED     ErrCode = "TOKEN_EXPIRED"
	FORBIDDEN         ErrCode = "FORBIDDEN"
)

var (
	ErrBadRequest         = errors.New("bad request")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("resource not found")
	ErrSlotTaken          = errors.New("slot is already taken")
	ErrDuplicateBooking   = errors.New("participant already booked on this date")
	ErrNoFields           = errors.New("no fields to update")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("admin access required")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}
