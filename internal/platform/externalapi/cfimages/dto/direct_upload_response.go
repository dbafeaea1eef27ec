package dto

// DirectUploadResponse is the body of POST /{account}/images/v2/direct_upload.
type DirectUploadResponse struct {
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Result *struct {
		ID        string `json:"id"`
		UploadURL string `json:"uploadURL"`
	} `json:"result"`
}
