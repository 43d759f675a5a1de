package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Maximus-Ay/GoLocal/internal/models"
	apperrors "github.com/Maximus-Ay/GoLocal/pkg/errors"
	"github.com/Maximus-Ay/GoLocal/pkg/logger"
)

// Client implements Service against the GoLocal JSON/HTTP backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a backend client for the given base URL. The timeout
// applies per request so a dead backend surfaces a timeout error instead of
// stalling the caller's state machine.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.NewWithComponent("api"),
	}
}

// Wire types mirror the backend's JSON field names exactly.

type quotaResponse struct {
	Used  float64 `json:"used"`
	Total float64 `json:"total"`
	Error string  `json:"error"`
}

type wireFile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Timestamp string `json:"timestamp"`
	Extension string `json:"extension"`
}

type filesRequest struct {
	Username string `json:"username"`
}

type filesResponse struct {
	Files []wireFile `json:"files"`
	Error string     `json:"error"`
}

type renameRequest struct {
	Username    string `json:"username"`
	FileID      string `json:"file_id"`
	NewFileName string `json:"new_file_name"`
}

type deleteRequest struct {
	Username   string  `json:"username"`
	FileID     string  `json:"file_id"`
	FileSizeMB float64 `json:"file_size_mb"`
}

type mutationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type storageRequest struct {
	Username            string              `json:"username"`
	AdditionalStorageGB int                 `json:"additional_storage_gb"`
	Price               int                 `json:"price"`
	PaymentDetails      models.PaymentDraft `json:"payment_details"`
}

type storageResponse struct {
	Result string `json:"result"`
}

type commandRequest struct {
	Command string        `json:"command"`
	Params  commandParams `json:"params"`
}

type commandParams struct {
	Username   string  `json:"username"`
	FileName   string  `json:"file_name"`
	FileSizeMB float64 `json:"file_size_mb"`
}

type commandResponse struct {
	Result string `json:"result"`
	Type   string `json:"type"`
}

// GetUserQuota fetches the authoritative quota for a user
func (c *Client) GetUserQuota(ctx context.Context, username string) (models.QuotaState, error) {
	endpoint := fmt.Sprintf("%s/api/get-user-quota/%s", c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.QuotaState{}, apperrors.ClassifyError(err)
	}

	var body quotaResponse
	status, err := c.do(req, &body)
	if err != nil {
		return models.QuotaState{}, err
	}
	if body.Error != "" || status != http.StatusOK {
		return models.QuotaState{}, apperrors.NewRemoteRejected(body.Error)
	}
	if body.Total <= 0 {
		return models.QuotaState{}, apperrors.NewAppError(apperrors.ErrMalformedResponse,
			"quota response carried a non-positive total", nil)
	}

	return models.QuotaState{UsedMB: body.Used, TotalMB: body.Total}, nil
}

// GetUserFiles fetches the user's file list
func (c *Client) GetUserFiles(ctx context.Context, username string) ([]models.FileRecord, error) {
	var body filesResponse
	status, err := c.postJSON(ctx, "/api/get-user-files", filesRequest{Username: username}, &body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apperrors.NewRemoteRejected(body.Error)
	}

	files := make([]models.FileRecord, 0, len(body.Files))
	for _, wf := range body.Files {
		ts, err := parseTimestamp(wf.Timestamp)
		if err != nil {
			c.logger.WarnWithFields("Skipping file with unparseable timestamp", map[string]interface{}{
				"file_id":   wf.ID,
				"timestamp": wf.Timestamp,
			})
			continue
		}
		files = append(files, models.FileRecord{
			ID:        wf.ID,
			Name:      wf.Name,
			SizeMB:    wf.Size,
			Timestamp: ts,
			Extension: wf.Extension,
		})
	}
	return files, nil
}

// RenameFile renames a file on the backend
func (c *Client) RenameFile(ctx context.Context, username, fileID, newFileName string) error {
	var body mutationResponse
	status, err := c.postJSON(ctx, "/api/rename-file", renameRequest{
		Username:    username,
		FileID:      fileID,
		NewFileName: newFileName,
	}, &body)
	if err != nil {
		return err
	}
	if status != http.StatusOK || !body.Success {
		return apperrors.NewRemoteRejected(body.Error)
	}
	return nil
}

// DeleteFile deletes a file on the backend
func (c *Client) DeleteFile(ctx context.Context, username, fileID string, fileSizeMB float64) error {
	var body mutationResponse
	status, err := c.postJSON(ctx, "/api/delete-file", deleteRequest{
		Username:   username,
		FileID:     fileID,
		FileSizeMB: fileSizeMB,
	}, &body)
	if err != nil {
		return err
	}
	if status != http.StatusOK || !body.Success {
		return apperrors.NewRemoteRejected(body.Error)
	}
	return nil
}

// RequestStorage submits a purchase request for admin approval. A 2xx status
// accepts the request; any other status carries the rejection in "result".
func (c *Client) RequestStorage(ctx context.Context, username string, plan models.PlanOffer, payment models.PaymentDraft) error {
	var body storageResponse
	status, err := c.postJSON(ctx, "/api/request-storage", storageRequest{
		Username:            username,
		AdditionalStorageGB: plan.StorageGB,
		Price:               plan.PriceXAF,
		PaymentDetails:      payment,
	}, &body)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apperrors.NewRemoteRejected(body.Result)
	}
	return nil
}

// UploadFile registers an upload through the backend's command endpoint.
// A response of type "ERROR" signals failure; anything else is success.
func (c *Client) UploadFile(ctx context.Context, username, fileName string, fileSizeMB float64) error {
	var body commandResponse
	_, err := c.postJSON(ctx, "/api/grpc-call", commandRequest{
		Command: "upload_file",
		Params: commandParams{
			Username:   username,
			FileName:   fileName,
			FileSizeMB: fileSizeMB,
		},
	}, &body)
	if err != nil {
		return err
	}
	if body.Type == "ERROR" {
		return apperrors.NewRemoteRejected(body.Result)
	}
	return nil
}

// postJSON sends a JSON body and decodes the JSON response, returning the
// HTTP status. Transport failures and undecodable bodies come back classified.
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) (int, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, apperrors.WrapError(err, apperrors.ErrUnknownError, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, apperrors.ClassifyError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnWithFields("Request failed", map[string]interface{}{
			"method": req.Method,
			"path":   req.URL.Path,
		})
		return 0, apperrors.ClassifyError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, apperrors.ClassifyError(err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, apperrors.NewAppError(apperrors.ErrMalformedResponse,
			"failed to decode response body", err)
	}

	return resp.StatusCode, nil
}

// parseTimestamp accepts both RFC 3339 and the backend's timezone-less
// isoformat strings
func parseTimestamp(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
