package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maximus-Ay/GoLocal/internal/models"
	apperrors "github.com/Maximus-Ay/GoLocal/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second)
}

func TestClient_GetUserQuota(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/get-user-quota/alice", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{"used": 512.5, "total": 2048.0})
	})

	state, err := client.GetUserQuota(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 512.5, state.UsedMB)
	assert.Equal(t, 2048.0, state.TotalMB)
}

func TestClient_GetUserQuota_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": "User not found"})
	})

	_, err := client.GetUserQuota(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperrors.IsRemoteRejected(err))
}

func TestClient_GetUserQuota_NonPositiveTotalIsMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"used": 0.0, "total": 0.0})
	})

	_, err := client.GetUserQuota(context.Background(), "alice")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrMalformedResponse, apperrors.CodeOf(err))
}

func TestClient_GetUserQuota_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>proxy error</html>"))
	})

	_, err := client.GetUserQuota(context.Background(), "alice")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrMalformedResponse, apperrors.CodeOf(err))
}

func TestClient_GetUserQuota_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := NewClient(server.URL, time.Second)

	_, err := client.GetUserQuota(context.Background(), "alice")
	require.Error(t, err)
	assert.True(t, apperrors.IsNetwork(err))
}

func TestClient_GetUserFiles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get-user-files", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req["username"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"files": []map[string]string{
				{
					"id":        "f1",
					"name":      "report.pdf",
					"size":      "4.20",
					"timestamp": "2026-08-30T14:22:05.123456",
					"extension": "PDF",
				},
			},
		})
	})

	files, err := client.GetUserFiles(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.Equal(t, "f1", files[0].ID)
	assert.Equal(t, "report.pdf", files[0].Name)
	assert.Equal(t, "4.20", files[0].SizeMB)
	assert.Equal(t, "PDF", files[0].Extension)
	assert.Equal(t, 2026, files[0].Timestamp.Year())
}

func TestClient_GetUserFiles_SkipsUnparseableTimestamps(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"files": []map[string]string{
				{"id": "f1", "name": "ok.txt", "size": "1.00", "timestamp": "2026-08-30T14:22:05", "extension": "TXT"},
				{"id": "f2", "name": "bad.txt", "size": "1.00", "timestamp": "yesterday", "extension": "TXT"},
			},
		})
	})

	files, err := client.GetUserFiles(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "f1", files[0].ID)
}

func TestClient_RenameFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rename-file", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req["username"])
		assert.Equal(t, "f1", req["file_id"])
		assert.Equal(t, "renamed.pdf", req["new_file_name"])

		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})

	err := client.RenameFile(context.Background(), "alice", "f1", "renamed.pdf")
	require.NoError(t, err)
}

func TestClient_RenameFile_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "File not found"})
	})

	err := client.RenameFile(context.Background(), "alice", "f1", "renamed.pdf")
	require.Error(t, err)
	assert.True(t, apperrors.IsRemoteRejected(err))
	assert.Contains(t, err.Error(), "File not found")
}

func TestClient_DeleteFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/delete-file", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "f1", req["file_id"])
		assert.InDelta(t, 4.2, req["file_size_mb"], 0.0001)

		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})

	err := client.DeleteFile(context.Background(), "alice", "f1", 4.2)
	require.NoError(t, err)
}

func TestClient_RequestStorage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/request-storage", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req["username"])
		assert.Equal(t, float64(3), req["additional_storage_gb"])
		assert.Equal(t, float64(30000), req["price"])

		payment := req["payment_details"].(map[string]interface{})
		assert.Equal(t, "4111 1111 1111 1111", payment["cardNumber"])
		assert.Equal(t, "Alice Mbarga", payment["cardName"])

		json.NewEncoder(w).Encode(map[string]interface{}{"result": "Request submitted"})
	})

	err := client.RequestStorage(context.Background(), "alice",
		models.PlanOffer{StorageGB: 3, PriceXAF: 30000},
		models.PaymentDraft{CardNumber: "4111 1111 1111 1111", CardHolderName: "Alice Mbarga"})
	require.NoError(t, err)
}

func TestClient_RequestStorage_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"result": "Pending request exists"})
	})

	err := client.RequestStorage(context.Background(), "alice",
		models.PlanOffer{StorageGB: 2, PriceXAF: 20000}, models.PaymentDraft{})
	require.Error(t, err)
	assert.True(t, apperrors.IsRemoteRejected(err))
}

func TestClient_UploadFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/grpc-call", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "upload_file", req["command"])

		params := req["params"].(map[string]interface{})
		assert.Equal(t, "alice", params["username"])
		assert.Equal(t, "doc.txt", params["file_name"])
		assert.InDelta(t, 5.0, params["file_size_mb"], 0.0001)

		json.NewEncoder(w).Encode(map[string]interface{}{"result": "File uploaded", "type": "INFO"})
	})

	err := client.UploadFile(context.Background(), "alice", "doc.txt", 5.0)
	require.NoError(t, err)
}

func TestClient_UploadFile_ErrorType(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"result": "Storage node unavailable", "type": "ERROR"})
	})

	err := client.UploadFile(context.Background(), "alice", "doc.txt", 5.0)
	require.Error(t, err)
	assert.True(t, apperrors.IsRemoteRejected(err))
	assert.Contains(t, err.Error(), "Storage node unavailable")
}

func TestClient_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]interface{}{"used": 0.0, "total": 1.0})
	})
	client.httpClient.Timeout = 20 * time.Millisecond

	_, err := client.GetUserQuota(context.Background(), "alice")
	require.Error(t, err)
	assert.True(t, apperrors.IsNetwork(err))
}

func TestClient_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetUserFiles(ctx, "alice")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrOperationCanceled, apperrors.CodeOf(err))
}
