package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/quotemate/gateway/internal/core/domain"
)

const endpointProcessFiles = "/file/process"

// ProcessFiles uploads files as the multipart "files" field. userID is sent
// as the user_id query parameter when present.
func (c *Client) ProcessFiles(ctx context.Context, userID string, files []domain.UploadFile) (*domain.ProcessResult, error) {
	req := c.http.R()
	if userID != "" {
		req.SetQueryParam("user_id", userID)
	}
	for _, f := range files {
		req.SetMultipartField("files", f.Name, f.ContentType, bytes.NewReader(f.Data))
	}

	body, _, err := c.do(ctx, req, http.MethodPost, endpointProcessFiles)
	if err != nil {
		return nil, err
	}

	var res domain.ProcessResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrBackendContract, endpointProcessFiles, err)
	}
	return &res, nil
}
