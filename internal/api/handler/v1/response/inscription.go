package response

type CodexCheckResponse struct {
	IsDuplicate bool `json:"isDuplicate"`
}

type ImportResponse struct {
	RowsAffected int64 `json:"rows_affected"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
