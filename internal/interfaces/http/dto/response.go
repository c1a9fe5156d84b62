package dto

import "time"

// Response is the envelope every endpoint returns: success plus data,
// or an ErrorInfo, never both.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo carries the machine-readable code and human-readable message
// for a failed request.
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes a single field validation failure.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta is the pagination block on list responses.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta computes the pagination block, rounding total pages up. A
// missing page size falls back to the list default.
func NewMeta(total int64, page, pageSize int) *Meta {
	if pageSize <= 0 {
		pageSize = DefaultListRequest().PageSize
	}
	totalPages := (int(total) + pageSize - 1) / pageSize
	return &Meta{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// NewSuccessResponse wraps data in a success envelope.
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewSuccessResponseWithMeta wraps a page of results with its pagination
// block.
func NewSuccessResponseWithMeta(data interface{}, total int64, page, pageSize int) Response {
	return Response{
		Success: true,
		Data:    data,
		Meta:    NewMeta(total, page, pageSize),
	}
}

// NewErrorResponse builds an error envelope.
func NewErrorResponse(code, message string) Response {
	return newErrorResponse(&ErrorInfo{Code: code, Message: message})
}

// NewErrorResponseWithRequestID builds an error envelope carrying the
// request ID so a client report can be matched to server logs.
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return newErrorResponse(&ErrorInfo{Code: code, Message: message, RequestID: requestID})
}

// NewValidationErrorResponse builds a VALIDATION_ERROR envelope with
// per-field details.
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	return newErrorResponse(&ErrorInfo{
		Code:      ErrCodeValidation,
		Message:   message,
		RequestID: requestID,
		Details:   details,
	})
}

func newErrorResponse(info *ErrorInfo) Response {
	return Response{
		Success: false,
		Error:   info,
	}
}

// ListRequest binds the common list query parameters.
type ListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// DefaultListRequest returns the list defaults: newest first, 20 per page.
func DefaultListRequest() ListRequest {
	return ListRequest{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// IDRequest binds a UUID path parameter.
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// TimestampResponse embeds the audit timestamps shared by most DTOs.
type TimestampResponse struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
