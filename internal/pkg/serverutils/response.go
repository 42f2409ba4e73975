package serverutils

type ApiResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) ApiResponse {
	return ApiResponse{Message: message, Data: data}
}

func ErrorResponse(message string) ApiResponse {
	return ApiResponse{Message: message}
}
